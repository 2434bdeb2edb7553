package core

import "testing"

func TestDomainPatternAnchored(t *testing.T) {
	valid := []string{"example.com", "sub.example.co.uk", "a-b.com"}
	for _, d := range valid {
		if !domainPattern.MatchString(d) {
			t.Errorf("expected %q to match", d)
		}
	}

	invalid := []string{"example.com<script>", "example.com ", " example.com", "exa mple.com"}
	for _, d := range invalid {
		if domainPattern.MatchString(d) {
			t.Errorf("expected %q to be rejected", d)
		}
	}
}
