package core

import "testing"

func TestNotifierNoopWithoutToken(t *testing.T) {
	n := NewNotifier("", 0)
	// Must not panic on a disabled notifier.
	n.Notify(Verdict{Kind: Validated, Domain: "example.com"})
}
