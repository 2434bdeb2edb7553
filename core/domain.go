package core

import (
	"regexp"
	"time"
)

// domainPattern is the domain acceptance check, anchored at both ends.
// The predecessor's `re.match("[a-z0-9.-]+", domain)` only pins the
// start, not the end, letting "example.com<script>" through as long as
// it starts with a valid prefix; anchoring at both ends closes that gap.
var domainPattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

// nowISO renders the current time the way queued_at/reported_at are
// stamped throughout the JSONL log and queue entries: ISO-8601.
func nowISO() string {
	return time.Now().Format(time.RFC3339)
}
