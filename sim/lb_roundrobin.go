package sim

// RoundRobin routes requests in cyclic order across servers, ignoring load.
// N consecutive selections over N servers visit each index exactly once.
type RoundRobin struct {
	inflightCounters
	cursor int
}

// NewRoundRobin creates a round robin load balancer.
func NewRoundRobin(numServers int) *RoundRobin {
	return &RoundRobin{inflightCounters: newInflightCounters(numServers)}
}

// SelectServer returns the next index in cyclic order, starting at 0.
func (lb *RoundRobin) SelectServer(numServers int) int {
	target := lb.cursor % numServers
	lb.cursor++
	return target
}
