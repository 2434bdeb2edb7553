package core

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jigsaw-addv/coordinator/queue"
)

// Assignment is the ephemeral (domain, challenge, tag, reporting
// subdomain) tuple handed to a reporter. It is never stored server-side.
type Assignment struct {
	Domain             string
	Challenge          string
	Tag                string
	ReportingSubdomain string
}

// AssignmentEngine selects a batch of domains to assign to a reporter.
type AssignmentEngine struct {
	q      *queue.Queue
	tagger *Tagger
	optOut *OptOutSet
	cfg    *Config
	rng    *rand.Rand
	rngMu  sync.Mutex
}

// NewAssignmentEngine builds an assignment engine over q, using tagger to
// sign issued assignments and optOut (may be nil) to skip opted-out
// reporters.
func NewAssignmentEngine(q *queue.Queue, tagger *Tagger, optOut *OptOutSet, cfg *Config) *AssignmentEngine {
	return &AssignmentEngine{
		q:      q,
		tagger: tagger,
		optOut: optOut,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SelectBatch samples a candidate pool of up to PoolSize domains, draws
// without replacement until BatchSize distinct
// domains the reporter hasn't already answered are collected (or the pool
// is exhausted), and returns each decorated with a tag binding it to
// reporterIP and the returned issuedAt Unix second.
func (e *AssignmentEngine) SelectBatch(reporterIP string) ([]Assignment, int64) {
	issuedAt := time.Now().Unix()
	subnet := SubnetOf(reporterIP)

	if e.optOut != nil && subnet != "" && e.optOut.Contains(subnet) {
		return []Assignment{}, issuedAt
	}

	pool := e.q.SnapshotKeys(PoolSize)
	e.shuffle(pool)

	assignments := make([]Assignment, 0, BatchSize)
	for _, domain := range pool {
		if len(assignments) >= BatchSize {
			break
		}
		entry, ok := e.q.Get(domain)
		if !ok {
			continue // removed between snapshot and lookup, e.g. it just reached quorum
		}
		if subnet != "" {
			if _, answered := entry.Answers[subnet]; answered {
				continue
			}
		}

		i := len(assignments)
		issuedAtStr := formatUnix(issuedAt)
		assignments = append(assignments, Assignment{
			Domain:             domain,
			Challenge:          entry.Challenge,
			Tag:                e.tagger.Tag(domain, reporterIP, issuedAtStr),
			ReportingSubdomain: e.cfg.ReportSubdomain(i),
		})
	}

	return assignments, issuedAt
}

func (e *AssignmentEngine) shuffle(pool []string) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}
