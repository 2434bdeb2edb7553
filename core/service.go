package core

import (
	"strings"
	"time"

	alog "github.com/jigsaw-addv/coordinator/log"
	"github.com/jigsaw-addv/coordinator/queue"
)

// Service wires every core component together — Queue, Resolver, Tagger,
// AssignmentEngine, ConsensusEngine, OptOutSet and Notifier — behind the
// operations the HTTP facade calls. It plays the role the predecessor
// split loosely across Config/Nameserver/CertDb/Blacklist and main.go;
// here one struct holds the wiring so Server's handlers stay thin
// adapters.
type Service struct {
	Cfg        *Config
	Queue      *queue.Queue
	Resolver   *Resolver
	Sink       *alog.Sink
	Tagger     *Tagger
	OptOut     *OptOutSet
	Assignment *AssignmentEngine
	Consensus  *ConsensusEngine
	Notifier   *Notifier
	RW         *RWMutex
}

// QueueDomain normalizes, validates, accepts idempotently, resolves IPs,
// and logs QUEUED on a fresh insert.
func (s *Service) QueueDomain(rawDomain string) string {
	domain := normalizeDomain(rawDomain)
	if !domainPattern.MatchString(domain) {
		return "ERROR\n"
	}

	entry := queue.Entry{
		QueuedAt:  nowISO(),
		Challenge: s.Cfg.GenChallenge(),
		IPs:       s.Resolver.IPsOf(domain),
		Answers:   map[string]queue.Answer{},
	}

	inserted, err := s.Queue.InsertIfAbsent(domain, entry)
	if err != nil {
		return "ERROR\n"
	}
	if !inserted {
		return "ALREADY QUEUED\n"
	}

	s.Sink.Event("QUEUED", map[string]interface{}{
		"domain":    domain,
		"challenge": entry.Challenge,
		"ips":       entry.IPs,
	})
	return "OK\n"
}

// QueueBatch applies QueueDomain to each distinct domain in domains,
// concatenating the per-domain response lines.
func (s *Service) QueueBatch(domains []string) string {
	seen := make(map[string]struct{}, len(domains))
	out := ""
	for _, d := range domains {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out += s.QueueDomain(d)
	}
	return out
}

// SignalOptOut records reporterIP's subnet as opted out and logs the
// signal.
func (s *Service) SignalOptOut(reporterIP string) {
	s.Sink.Event("OPTOUT", map[string]interface{}{"ip": reporterIP})
	if s.OptOut != nil {
		s.OptOut.Add(reporterIP)
	}
}

// Join selects a batch of assignments for reporterIP and logs JOINED
// with the assigned domains.
func (s *Service) Join(reporterIP string) ([]Assignment, int64) {
	if s.RW != nil {
		s.RW.RLock()
		defer s.RW.RUnlock()
	}

	assignments, issuedAt := s.Assignment.SelectBatch(reporterIP)

	assigned := make([]string, len(assignments))
	for i, a := range assignments {
		assigned[i] = a.Domain
	}
	s.Sink.Event("JOINED", map[string]interface{}{
		"ip":       reporterIP,
		"assigned": assigned,
	})
	return assignments, issuedAt
}

// Answer submits a reporter's outcome for domain and, when it reaches a
// terminal verdict, logs VALIDATED/INVALIDATED and fires a notification.
func (s *Service) Answer(reporterIP, domain string, issuedAt int64, tag, outcome string, reportedAtMillis int64) bool {
	result := s.Consensus.Submit(time.Now(), domain, reporterIP, issuedAt, tag, outcome, reportedAtMillis)
	if !result.Accepted {
		return false
	}

	if result.Inserted {
		s.Sink.Event("ANSWERED", map[string]interface{}{
			"ip":     reporterIP,
			"domain": domain,
			"answer": outcome,
		})
	}

	if result.Verdict != nil {
		s.Sink.Event(string(result.Verdict.Kind), map[string]interface{}{
			"domain":    result.Verdict.Domain,
			"ips":       result.Verdict.IPs,
			"challenge": result.Verdict.Challenge,
			"answers":   result.Verdict.Answers,
		})
		if s.Notifier != nil {
			s.Notifier.Notify(*result.Verdict)
		}
	}
	return true
}

func normalizeDomain(raw string) string {
	return strings.ToLower(raw)
}
