package core

import (
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// dnsQueryTimeout bounds a single attempt against one resolver; IPsOf makes
// at most DnsAttempts such attempts in total.
const dnsQueryTimeout = 3 * time.Second

// Resolver is the DNS oracle: it resolves a domain to its
// A-record IPs against a fixed list of recursive resolvers, swallowing
// transient failures. Where the predecessor's Nameserver (core/nameserver.go)
// answered DNS queries from browsers, Resolver instead issues them outbound
// — the direction is reversed, but the miekg/dns machinery is the same.
type Resolver struct {
	servers []string
	client  *dns.Client
}

// NewResolver builds a Resolver against the given recursive resolver IPs
// (plain addresses, port 53 is appended).
func NewResolver(servers []string) *Resolver {
	return &Resolver{
		servers: servers,
		client:  &dns.Client{Timeout: dnsQueryTimeout},
	}
}

// IPsOf resolves domain's A records, making up to DnsAttempts attempts in
// total against successive resolvers from the list (wrapping around if there
// are fewer resolvers than attempts). Order of the returned IPs follows
// the answering resolver's order. On persistent failure it returns an
// empty, non-nil slice rather than an error — DNS failure is not fatal to
// queueing a domain.
func (r *Resolver) IPsOf(domain string) []string {
	if len(r.servers) == 0 {
		return []string{}
	}

	msg := new(dns.Msg)
	fqdn := dns.Fqdn(domain)

	for attempt := 0; attempt < DnsAttempts; attempt++ {
		server := r.servers[attempt%len(r.servers)]
		msg.SetQuestion(fqdn, dns.TypeA)
		msg.RecursionDesired = true

		in, _, err := r.client.Exchange(msg, fmt.Sprintf("%s:53", server))
		if err != nil {
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			continue
		}

		ips := make([]string, 0, len(in.Answer))
		for _, rr := range in.Answer {
			if a, ok := rr.(*dns.A); ok {
				ips = append(ips, a.A.String())
			}
		}
		return ips
	}
	return []string{}
}
