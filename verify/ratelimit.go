package verify

import (
	"context"
	"net"
	"sync"

	"github.com/fwojciec/docsite"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

var _ docsite.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces page fetches with one token bucket per registrable
// domain. Hosts under the same domain, such as docs.example.com and
// www.example.com, draw from one bucket.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each domain, without bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:     rps,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done. The host
// may carry a port.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(Domain(host)).Wait(ctx)
}

// Buckets returns the number of domains seen so far.
func (d *DomainLimiter) Buckets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buckets)
}

func (d *DomainLimiter) bucket(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[domain]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[domain] = b
	}
	return b
}

// Domain returns the registrable domain of host, so subdomains share a
// key. Ports are dropped. IP addresses and hosts without a public suffix,
// such as localhost, are returned as they are.
func Domain(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}
