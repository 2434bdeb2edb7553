package core

import (
	"strconv"
	"time"

	"github.com/jigsaw-addv/coordinator/queue"
)

// SubmitResult is the outcome of ConsensusEngine.Submit: accepted or
// rejected, plus the terminal verdict if this submission happened to
// complete the quorum.
type SubmitResult struct {
	Accepted bool
	Inserted bool     // true iff this call recorded a new answer (for ANSWERED logging)
	Verdict  *Verdict // non-nil iff this submission reached quorum
}

// VerdictKind is VALIDATED or INVALIDATED.
type VerdictKind string

const (
	Validated   VerdictKind = "VALIDATED"
	Invalidated VerdictKind = "INVALIDATED"
)

// Verdict is the terminal event emitted exactly once per domain, the
// moment its answers map reaches MinAnswers.
type Verdict struct {
	Kind      VerdictKind
	Domain    string
	IPs       []string
	Challenge string
	Answers   map[string]queue.Answer
}

// ConsensusEngine ingests reporter answers and decides quorum verdicts.
type ConsensusEngine struct {
	q      *queue.Queue
	tagger *Tagger
}

// NewConsensusEngine builds a consensus engine over q.
func NewConsensusEngine(q *queue.Queue, tagger *Tagger) *ConsensusEngine {
	return &ConsensusEngine{q: q, tagger: tagger}
}

// Submit ingests one authenticated answer. issuedAt and reportedAtMillis
// are as echoed/reported by the client (issuedAt in seconds, per the
// assignment; reportedAtMillis in reporter wall-clock milliseconds since
// epoch). now is injected for testability rather than read from time.Now
// internally.
func (e *ConsensusEngine) Submit(now time.Time, domain, reporterIP string, issuedAt int64, tag, outcome string, reportedAtMillis int64) SubmitResult {
	if e.tagger.Tag(domain, reporterIP, formatUnix(issuedAt)) != tag {
		return SubmitResult{Accepted: false}
	}
	if !now.Before(time.Unix(issuedAt, 0).Add(AuthTimeout)) {
		return SubmitResult{Accepted: false}
	}

	subnet := SubnetOf(reporterIP)
	if subnet == "" {
		return SubmitResult{Accepted: false}
	}

	reportedAt := time.UnixMilli(reportedAtMillis).UTC().Format(time.RFC3339)

	var (
		verdict  *Verdict
		inserted bool
	)
	status, entry, err := e.q.UpdateWith(domain, func(entry *queue.Entry) queue.Action {
		if _, already := entry.Answers[subnet]; already {
			return queue.Keep // first-report-wins; no-op mutation
		}
		if entry.Answers == nil {
			entry.Answers = make(map[string]queue.Answer)
		}
		entry.Answers[subnet] = queue.Answer{Outcome: outcome, ReportedAt: reportedAt}
		inserted = true

		if len(entry.Answers) >= MinAnswers {
			return queue.Delete
		}
		return queue.Keep
	})
	if err != nil {
		// Storage-layer failure: treat as a no-op accept. No error at
		// request scope is fatal to the caller.
		return SubmitResult{Accepted: true}
	}

	switch status {
	case queue.NotFound:
		// Entry may have just reached quorum from another report; the
		// reporter's own work is not wasted from its perspective, so this
		// is still an accepted no-op.
		return SubmitResult{Accepted: true}
	case queue.Removed:
		successes := 0
		for _, a := range entry.Answers {
			if a.Outcome == "success" {
				successes++
			}
		}
		kind := Invalidated
		if successes >= MinConsensus {
			kind = Validated
		}
		verdict = &Verdict{
			Kind:      kind,
			Domain:    domain,
			IPs:       entry.IPs,
			Challenge: entry.Challenge,
			Answers:   entry.Answers,
		}
	}

	return SubmitResult{Accepted: true, Inserted: inserted, Verdict: verdict}
}

// ParseMillis parses the reporter-supplied `time` query parameter (reporter
// wall-clock milliseconds since epoch) from its string form.
func ParseMillis(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
