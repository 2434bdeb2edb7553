// Package log is the coordinator's event sink. It mirrors the predecessor's
// dual-output style (github.com/kgretzky/evilginx2/log): colorized lines to
// an operator console via github.com/fatih/color, here paired with an
// append-only JSONL sink instead of the predecessor's flat
// evilginx2log.txt.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	stdout  io.Writer = color.Output
	mtx               = &sync.Mutex{}
	verbose           = true
)

// Sink is a single process's append-only JSONL event log, one complete
// JSON object per line. Each process opens its own file, so
// cross-process atomicity only needs to hold per line, which os.File's
// O_APPEND write already guarantees on POSIX systems.
type Sink struct {
	mu   sync.Mutex
	file *os.File
}

// NewSink opens (creating if needed) dir/app-{pid}.jsonl.
func NewSink(dir string, pid int) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/app-%d.jsonl", dir, pid)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Sink{file: f}, nil
}

// Event writes one JSON object for event, merging in the extra fields.
// A write failure here is swallowed: logging is best-effort and must
// never block or fail the request that triggered it.
func (s *Sink) Event(event string, fields map[string]interface{}) {
	if s == nil {
		return
	}
	record := map[string]interface{}{
		"event": event,
		"time":  time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		record[k] = v
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.Write(append(raw, '\n'))
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	return s.file.Close()
}

// SetOutput redirects the human-readable console mirror, mainly for tests.
func SetOutput(w io.Writer) {
	stdout = w
}

// SetVerbose toggles Debug lines on the console mirror; Info, Warning,
// Error and Fatal lines are always printed, and the JSONL sink is
// unaffected.
func SetVerbose(v bool) {
	verbose = v
}

func Info(format string, args ...interface{}) {
	echo(color.New(color.FgGreen), "inf", format, args...)
}

func Warning(format string, args ...interface{}) {
	echo(color.New(color.FgYellow), "war", format, args...)
}

func Error(format string, args ...interface{}) {
	echo(color.New(color.FgRed), "err", format, args...)
}

// Fatal logs at error level. It does not exit the process; callers are
// expected to return after logging, the same discipline the
// predecessor's log.Fatal leaves to its callers.
func Fatal(format string, args ...interface{}) {
	echo(color.New(color.FgRed), "ftl", format, args...)
}

func Debug(format string, args ...interface{}) {
	if !verbose {
		return
	}
	echo(color.New(color.FgHiBlack), "dbg", format, args...)
}

func echo(c *color.Color, label, format string, args ...interface{}) {
	mtx.Lock()
	defer mtx.Unlock()
	t := time.Now()
	fmt.Fprintf(stdout, "[%02d:%02d:%02d] [%s] %s\n", t.Hour(), t.Minute(), t.Second(), label, c.Sprintf(format, args...))
}
