package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config names, following the CFG_* constant convention of the coordinator's
// predecessor rather than bare string literals scattered through the code.
const (
	CFG_SERVER_NAME      = "server_name"
	CFG_MEASUREMENT_MODE = "measurement_mode"
	CFG_LOG_DIR          = "log_dir"
	CFG_PRELOAD_FILE     = "preload_file"
	CFG_LISTEN_ADDR      = "listen_addr"
	CFG_RESOLVERS        = "resolvers"
)

const DEFAULT_SERVER_NAME = "localhost"
const DEFAULT_LOG_DIR = "/app/logs"
const DEFAULT_PRELOAD_FILE = "/app/logs/queue-preload.lst"
const DEFAULT_LISTEN_ADDR = ":8080"

// DefaultResolvers is the fixed recursive resolver list. No environment
// variable overrides it.
var DefaultResolvers = []string{"8.8.8.8", "8.8.4.4", "9.9.9.9", "1.1.1.1", "1.0.0.1"}

// Config holds the environment-derived knobs of the coordinator. Unlike the
// predecessor's file-backed viper config, ADDV has no config file: every
// setting except the fixed resolver list is an environment variable with
// a default, bound directly.
type Config struct {
	cfg *viper.Viper

	serverName      string
	measurementMode bool
	logDir          string
	preloadFile     string
	listenAddr      string
	resolvers       []string
	reportSubdomains []string
}

// NewConfig builds the coordinator configuration from the process
// environment, falling back to the documented defaults for anything unset.
func NewConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault(CFG_SERVER_NAME, DEFAULT_SERVER_NAME)
	v.SetDefault(CFG_MEASUREMENT_MODE, "")
	v.SetDefault(CFG_LOG_DIR, DEFAULT_LOG_DIR)
	v.SetDefault(CFG_PRELOAD_FILE, DEFAULT_PRELOAD_FILE)
	v.SetDefault(CFG_LISTEN_ADDR, DEFAULT_LISTEN_ADDR)

	_ = v.BindEnv(CFG_SERVER_NAME, "SERVER_NAME")
	_ = v.BindEnv(CFG_MEASUREMENT_MODE, "MEASUREMENT_MODE")
	_ = v.BindEnv(CFG_LOG_DIR, "ADDV_LOG_DIR")
	_ = v.BindEnv(CFG_PRELOAD_FILE, "ADDV_PRELOAD_FILE")
	_ = v.BindEnv(CFG_LISTEN_ADDR, "ADDV_LISTEN_ADDR")

	c := &Config{cfg: v}

	c.serverName = strings.ToLower(v.GetString(CFG_SERVER_NAME))
	if c.serverName == "" {
		c.serverName = DEFAULT_SERVER_NAME
	}

	// MEASUREMENT_MODE follows the original's `bool(os.getenv(...))` truthiness:
	// any non-empty value is truthy, not just "true"/"1".
	c.measurementMode = truthyEnv(v.GetString(CFG_MEASUREMENT_MODE))

	c.logDir = v.GetString(CFG_LOG_DIR)
	c.preloadFile = v.GetString(CFG_PRELOAD_FILE)
	c.listenAddr = v.GetString(CFG_LISTEN_ADDR)

	c.resolvers = DefaultResolvers

	c.reportSubdomains = buildReportSubdomains(c.serverName)

	return c
}

// truthyEnv mirrors Python's bool(str) semantics for an environment toggle:
// unset or empty is falsy, any other value (including "0" or "false") is
// truthy, matching MEASUREMENT_MODE = bool(os.getenv("MEASUREMENT_MODE")).
func truthyEnv(raw string) bool {
	return raw != ""
}

func buildReportSubdomains(serverName string) []string {
	subs := make([]string, BatchSize)
	if serverName == DEFAULT_SERVER_NAME {
		for i := range subs {
			subs[i] = DEFAULT_SERVER_NAME
		}
		return subs
	}
	for i := range subs {
		subs[i] = fmt.Sprintf("rep%d.%s", i%NReportSubs, serverName)
	}
	return subs
}

func (c *Config) ServerName() string        { return c.serverName }
func (c *Config) MeasurementMode() bool      { return c.measurementMode }
func (c *Config) LogDir() string             { return c.logDir }
func (c *Config) PreloadFile() string        { return c.preloadFile }
func (c *Config) ListenAddr() string         { return c.listenAddr }
func (c *Config) Resolvers() []string        { return c.resolvers }
func (c *Config) ReportSubdomain(i int) string {
	return c.reportSubdomains[i%len(c.reportSubdomains)]
}

// Pid returns the current process id, used to namespace the JSONL log
// file as /app/logs/app-{PID}.jsonl.
func Pid() int {
	return os.Getpid()
}
