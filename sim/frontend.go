package sim

import "math/rand"

// Frontend owns the proxy tier and models request arrivals. Each tick every
// proxy independently sends one request with probability 1/numProxies, so
// the aggregate arrival rate is about one request per tick, with variance.
// Zero or several arrivals in the same tick are both possible.
type Frontend struct {
	proxies []*Proxy
	rand    *rand.Rand
}

// NewFrontend creates a frontend over the given proxies.
func NewFrontend(proxies []*Proxy, rng *rand.Rand) *Frontend {
	return &Frontend{proxies: proxies, rand: rng}
}

// GenerateArrivals rolls the arrival die for every proxy and forwards the
// resulting requests into the backend. Returns the number of requests
// generated this tick.
func (f *Frontend) GenerateArrivals(backend *Backend) int {
	arrivals := 0
	for _, p := range f.proxies {
		if f.rand.Intn(len(f.proxies)) == 0 {
			p.SendRequest(backend)
			arrivals++
		}
	}
	return arrivals
}

// NumProxies returns the number of proxies in the frontend tier.
func (f *Frontend) NumProxies() int {
	return len(f.proxies)
}
