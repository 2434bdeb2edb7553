// Package queue implements the shared validation queue: a concurrent
// domain -> QueueEntry store safe under many parallel readers and
// writers. It is adapted from the predecessor's database package, which
// wrapped github.com/tidwall/buntdb to give session records
// transactional, indexed storage; here the same engine backs an
// in-memory-only queue (buntdb opened against ":memory:", so nothing is
// persisted across restarts).
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/buntdb"
)

// Answer is one reporter's outcome for a domain.
type Answer struct {
	Outcome    string `json:"outcome"`
	ReportedAt string `json:"reported_at"`
}

// Entry is the value stored per domain. Answers is keyed by
// subnet string so that at most one answer per /16 is ever recorded.
type Entry struct {
	QueuedAt  string            `json:"queued_at"`
	Challenge string            `json:"challenge"`
	IPs       []string          `json:"ips"`
	Answers   map[string]Answer `json:"answers"`
}

const keyPrefix = "domain:"

func domainKey(domain string) string {
	return keyPrefix + domain
}

// Queue is the concurrent validation queue. The zero value is not usable;
// construct with New.
type Queue struct {
	db *buntdb.DB
}

// New opens an in-memory queue store.
func New() (*Queue, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	return &Queue{db: db}, nil
}

// Close releases the underlying store.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Exists reports whether domain currently has a queue entry.
func (q *Queue) Exists(domain string) bool {
	var found bool
	q.db.View(func(tx *buntdb.Tx) error {
		_, err := tx.Get(domainKey(domain))
		found = err == nil
		return nil
	})
	return found
}

// InsertIfAbsent creates entry for domain iff no entry already exists,
// returning true if the insert happened. This is the atomic primitive
// idempotent queueing relies on.
func (q *Queue) InsertIfAbsent(domain string, entry Entry) (bool, error) {
	inserted := false
	err := q.db.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(domainKey(domain)); err == nil {
			return nil // already queued, not an error
		} else if err != buntdb.ErrNotFound {
			return err
		}
		raw, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(domainKey(domain), string(raw), nil)
		if err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// Get returns domain's current entry, if any. Like SnapshotKeys, this is a
// point-in-time read that may already be stale by the time the caller
// acts on it; only the final per-key mutation performed by UpdateWith
// needs to be linearizable.
func (q *Queue) Get(domain string) (Entry, bool) {
	var (
		entry Entry
		found bool
	)
	q.db.View(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(domainKey(domain))
		if err != nil {
			return nil
		}
		if json.Unmarshal([]byte(raw), &entry) == nil {
			found = true
		}
		return nil
	})
	return entry, found
}

// SnapshotKeys returns up to limit domain names currently in the queue.
// Staleness relative to concurrent mutation is acceptable — this is a
// View transaction over a live store, not a point-in-time copy of the
// whole queue.
func (q *Queue) SnapshotKeys(limit int) []string {
	keys := make([]string, 0, limit)
	q.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(keyPrefix+"*", func(key, _ string) bool {
			keys = append(keys, key[len(keyPrefix):])
			return len(keys) < limit
		})
	})
	return keys
}

// Action tells UpdateWith what to do with the entry after fn returns.
type Action int

const (
	// Keep persists the (possibly mutated) entry.
	Keep Action = iota
	// Delete removes the entry from the queue.
	Delete
)

// Status reports what UpdateWith actually did.
type Status int

const (
	// NotFound means domain had no entry; fn was not called.
	NotFound Status = iota
	// Persisted means fn ran and the entry was written back.
	Persisted
	// Removed means fn ran and requested deletion.
	Removed
)

// UpdateWith applies fn to domain's entry atomically with respect to any
// other UpdateWith call on the same key, giving linearizable updates to
// a single domain's answers map. fn receives a pointer to a
// decoded copy of the entry, may mutate it freely, and returns the Action
// to take. The entry returned alongside Status is the value as it stood
// at the moment of mutation — the caller, e.g. the consensus engine, uses
// it to decide what verdict to emit without a second round-trip.
func (q *Queue) UpdateWith(domain string, fn func(entry *Entry) Action) (Status, Entry, error) {
	var (
		status Status
		result Entry
	)
	err := q.db.Update(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(domainKey(domain))
		if err == buntdb.ErrNotFound {
			status = NotFound
			return nil
		}
		if err != nil {
			return err
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return fmt.Errorf("queue: corrupt entry for %s: %w", domain, err)
		}

		action := fn(&entry)
		result = entry

		switch action {
		case Delete:
			_, err = tx.Delete(domainKey(domain))
			status = Removed
			return err
		default:
			encoded, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			_, _, err = tx.Set(domainKey(domain), string(encoded), nil)
			status = Persisted
			return err
		}
	})
	return status, result, err
}
