package core

import "testing"

func TestBuildReportSubdomainsCollapsesLocalhost(t *testing.T) {
	subs := buildReportSubdomains(DEFAULT_SERVER_NAME)
	for _, s := range subs {
		if s != DEFAULT_SERVER_NAME {
			t.Fatalf("expected every reporting subdomain to collapse to %q, got %q", DEFAULT_SERVER_NAME, s)
		}
	}
}

func TestBuildReportSubdomainsFansOutByServerName(t *testing.T) {
	subs := buildReportSubdomains("example.com")
	if len(subs) != BatchSize {
		t.Fatalf("expected BatchSize entries, got %d", len(subs))
	}
	seen := make(map[string]bool)
	for _, s := range subs {
		seen[s] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected multiple distinct reporting subdomains, got %v", subs)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.ListenAddr() == "" {
		t.Fatal("expected a non-empty default listen address")
	}
	if len(cfg.Resolvers()) == 0 {
		t.Fatal("expected a non-empty default resolver list")
	}
}
