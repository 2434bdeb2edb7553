package core

import (
	"strconv"
	"testing"

	"github.com/jigsaw-addv/coordinator/queue"
)

func newTestEngines(t *testing.T) (*queue.Queue, *AssignmentEngine, *ConsensusEngine, *Tagger) {
	q, err := queue.New()
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	t.Cleanup(func() { q.Close() })

	tagger := NewTagger()
	cfg := NewConfig()
	assignment := NewAssignmentEngine(q, tagger, nil, cfg)
	consensus := NewConsensusEngine(q, tagger)
	return q, assignment, consensus, tagger
}

func TestSelectBatchSkipsAlreadyAnsweredSubnet(t *testing.T) {
	q, assignment, _, _ := newTestEngines(t)
	q.InsertIfAbsent("example.com", newQueueEntry())

	reporterIP := "203.0.113.7"
	batch, _ := assignment.SelectBatch(reporterIP)
	if len(batch) != 1 || batch[0].Domain != "example.com" {
		t.Fatalf("expected example.com assigned on first join, got %+v", batch)
	}

	q.UpdateWith("example.com", func(e *queue.Entry) queue.Action {
		e.Answers[SubnetOf(reporterIP)] = queue.Answer{Outcome: "success"}
		return queue.Keep
	})

	batch, _ = assignment.SelectBatch(reporterIP)
	if len(batch) != 0 {
		t.Fatalf("expected no re-assignment to a subnet that already answered, got %+v", batch)
	}
}

func TestSelectBatchRespectsOptOut(t *testing.T) {
	q, err := queue.New()
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	q.InsertIfAbsent("example.com", newQueueEntry())

	optOut, _ := NewOptOutSet("")
	reporterIP := "203.0.113.7"
	optOut.Add(reporterIP)

	assignment := NewAssignmentEngine(q, NewTagger(), optOut, NewConfig())
	batch, _ := assignment.SelectBatch(reporterIP)
	if len(batch) != 0 {
		t.Fatalf("expected an opted-out reporter to get nothing, got %+v", batch)
	}
}

func TestSelectBatchBoundsByBatchSize(t *testing.T) {
	q, assignment, _, _ := newTestEngines(t)
	for i := 0; i < BatchSize+10; i++ {
		q.InsertIfAbsent(domainFor(i), newQueueEntry())
	}

	batch, _ := assignment.SelectBatch("203.0.113.7")
	if len(batch) != BatchSize {
		t.Fatalf("expected exactly BatchSize assignments, got %d", len(batch))
	}
}

func domainFor(i int) string {
	return "d" + strconv.Itoa(i) + ".com"
}

// newQueueEntry builds a minimal queue entry with an empty answers map,
// useful across these tests so each assignment sees a fresh target.
func newQueueEntry() queue.Entry {
	return queue.Entry{Challenge: "pixel.png", Answers: map[string]queue.Answer{}}
}
