package core

import "time"

// Tuning constants, all in one place. None of these are
// environment-configurable: they define the shape of the consensus
// protocol itself, not deployment-specific behavior.
const (
	BatchSize     = 20  // domains handed out per /val/join
	PoolSize      = 120 // candidate pool sampled from the queue
	PrefixLen     = 16  // /16 subnet used as reporter identity
	MinAnswers    = 7   // quorum size
	NReportSubs   = 10  // distinct reporting subdomains, N >= ceil(BatchSize/6)
	MinConsensus  = 5   // successes required within the quorum for VALIDATED
	ChallengeLen  = 43  // matches Let's Encrypt challenge token length
	DnsAttempts   = 3   // attempts in total against the resolver list before giving up
	SecretLen     = 50  // length of the process-wide tag secret
)

// AuthTimeout is the window during which an issued assignment's tag remains
// acceptable to the consensus engine.
const AuthTimeout = 120 * time.Second
