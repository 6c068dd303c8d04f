package sim

import "math/rand"

// RandomSelect routes each request to a uniformly random server.
type RandomSelect struct {
	inflightCounters
	rand *rand.Rand
}

// NewRandomSelect creates a random load balancer.
func NewRandomSelect(numServers int, rng *rand.Rand) *RandomSelect {
	return &RandomSelect{
		inflightCounters: newInflightCounters(numServers),
		rand:             rng,
	}
}

// SelectServer returns a uniformly random server index.
func (lb *RandomSelect) SelectServer(numServers int) int {
	return lb.rand.Intn(numServers)
}
