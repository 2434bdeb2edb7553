package core

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strings"
)

// alphanumeric is the character set used for both the process secret and
// the normal-mode challenge token, matching the original's
// `random.choices(string.ascii_letters + string.digits, k=n)`.
const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// genRandomAlphanumString returns n bytes drawn uniformly from alphanumeric,
// adapted from the predecessor's GenRandomAlphanumString.
func genRandomAlphanumString(n int) string {
	// Bytes at or above limit (the largest multiple of len(alphanumeric)
	// not above 256) are redrawn, so the modulo below has no bias.
	limit := 256 - 256%len(alphanumeric)
	b := make([]byte, 0, n)
	idx := make([]byte, 1)
	for len(b) < n {
		if _, err := rand.Read(idx); err != nil {
			// crypto/rand failing is unrecoverable for a process that depends on
			// it for the tag secret; there is no safe degraded mode.
			panic(fmt.Sprintf("core: crypto/rand unavailable: %v", err))
		}
		if int(idx[0]) >= limit {
			continue
		}
		b = append(b, alphanumeric[int(idx[0])%len(alphanumeric)])
	}
	return string(b)
}

// Tagger binds assignments to (domain, reporter, issuance time) with a
// keyed hash. It is not HMAC: plain concatenation-with-secret is
// adequate for this trust model, which only needs to prevent forgery of
// short-lived assignments, not authenticate reporter identity.
type Tagger struct {
	secret string
}

// NewTagger generates a fresh SecretLen-byte secret, once per process
// lifetime, and never exposes it again.
func NewTagger() *Tagger {
	return &Tagger{secret: genRandomAlphanumString(SecretLen)}
}

// Tag computes keyed_hash(args..., secret) as lowercase hex:
// SHA256(join("|", args ++ [secret])).
func (t *Tagger) Tag(args ...string) string {
	joined := strings.Join(append(append([]string{}, args...), t.secret), "|")
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("%x", sum)
}
