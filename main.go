package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jigsaw-addv/coordinator/core"
	alog "github.com/jigsaw-addv/coordinator/log"
	"github.com/jigsaw-addv/coordinator/queue"
)

var debugLog = flag.Bool("debug", false, "Enable debug output")
var botToken = flag.String("bot-token", "", "Telegram bot token for verdict notifications (optional)")
var chatID = flag.Int64("chat-id", 0, "Telegram chat id to notify of verdicts")
var optOutFile = flag.String("opt-out-file", "", "Path to persist opted-out subnets (optional)")

func main() {
	flag.Parse()
	alog.SetVerbose(*debugLog)

	cfg := core.NewConfig()

	sink, err := alog.NewSink(cfg.LogDir(), core.Pid())
	if err != nil {
		alog.Fatal("log: %v", err)
		return
	}
	defer sink.Close()

	q, err := queue.New()
	if err != nil {
		alog.Fatal("queue: %v", err)
		return
	}
	defer q.Close()

	resolver := core.NewResolver(cfg.Resolvers())
	tagger := core.NewTagger()

	optOut, err := core.NewOptOutSet(*optOutFile)
	if err != nil {
		alog.Fatal("opt-out: %v", err)
		return
	}

	rw := core.NewRWMutex()

	alog.Info("preloading queue from: %s", cfg.PreloadFile())
	core.Preload(cfg.PreloadFile(), q, resolver, cfg, sink, rw)

	assignment := core.NewAssignmentEngine(q, tagger, optOut, cfg)
	consensus := core.NewConsensusEngine(q, tagger)
	notifier := core.NewNotifier(*botToken, *chatID)

	svc := &core.Service{
		Cfg:        cfg,
		Queue:      q,
		Resolver:   resolver,
		Sink:       sink,
		Tagger:     tagger,
		OptOut:     optOut,
		Assignment: assignment,
		Consensus:  consensus,
		Notifier:   notifier,
		RW:         rw,
	}

	srv := core.NewServer(svc, cfg.ListenAddr())
	srv.Start()
	alog.Info("coordinator listening on %s", cfg.ListenAddr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	alog.Info("shutting down")
}
