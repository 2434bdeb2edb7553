package core

import (
	"bufio"
	"os"
	"strings"
	"sync"

	alog "github.com/jigsaw-addv/coordinator/log"
	"github.com/jigsaw-addv/coordinator/queue"
)

// preloadWorkers bounds how many domains are resolved and queued
// concurrently during startup preload, mirroring the bounded-concurrency
// shape of original_source/src/app.py's `ThreadPool().map(..., chunksize=100)`
// without unboundedly spawning one goroutine per line of a large file.
const preloadWorkers = 32

// Preload reads a newline-separated domain list and queues each one,
// resolving DNS concurrently across a small worker pool. A missing file
// is not an error: startup proceeds without preload.
func Preload(path string, q *queue.Queue, resolver *Resolver, cfg *Config, sink *alog.Sink, rw *RWMutex) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	lines := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < preloadWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for domain := range lines {
				preloadOne(domain, q, resolver, cfg, sink, rw)
			}
		}()
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		domain := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if domain != "" {
			lines <- domain
		}
	}
	close(lines)
	wg.Wait()
}

func preloadOne(domain string, q *queue.Queue, resolver *Resolver, cfg *Config, sink *alog.Sink, rw *RWMutex) {
	if !domainPattern.MatchString(domain) {
		return
	}

	ips := resolver.IPsOf(domain)
	entry := queue.Entry{
		QueuedAt:  nowISO(),
		Challenge: cfg.GenChallenge(),
		IPs:       ips,
		Answers:   map[string]queue.Answer{},
	}

	if rw != nil {
		rw.Lock()
		defer rw.Unlock()
	}

	inserted, err := q.InsertIfAbsent(domain, entry)
	if err != nil || !inserted {
		return
	}
	sink.Event("QUEUED", map[string]interface{}{
		"domain":    domain,
		"challenge": entry.Challenge,
		"ips":       entry.IPs,
	})
	alog.Info("preload: queued %s", domain)
}
