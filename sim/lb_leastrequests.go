package sim

import "math/rand"

// LeastRequests applies power-of-two choices: sample two distinct servers
// and route to the one with fewer outstanding requests. The comparison uses
// only the proxy-local counters, not backend queue depth: a single proxy
// only ever observes its own outstanding requests.
type LeastRequests struct {
	inflightCounters
	rand *rand.Rand
}

// NewLeastRequests creates a power-of-two-choices load balancer.
func NewLeastRequests(numServers int, rng *rand.Rand) *LeastRequests {
	return &LeastRequests{
		inflightCounters: newInflightCounters(numServers),
		rand:             rng,
	}
}

// SelectServer samples two distinct candidates uniformly and returns the one
// with the strictly lower outstanding-request count. Ties go to the second
// draw.
func (lb *LeastRequests) SelectServer(numServers int) int {
	if numServers < 2 {
		// No second candidate to sample.
		return 0
	}
	a := lb.rand.Intn(numServers)
	b := a
	for b == a {
		b = lb.rand.Intn(numServers)
	}
	if lb.Inflight(a) < lb.Inflight(b) {
		return a
	}
	return b
}
