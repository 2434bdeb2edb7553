package core

import "testing"

func TestResolverWithNoServersReturnsEmpty(t *testing.T) {
	r := NewResolver(nil)
	ips := r.IPsOf("example.com")
	if len(ips) != 0 {
		t.Fatalf("expected no IPs with an empty resolver list, got %v", ips)
	}
}
