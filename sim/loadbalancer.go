package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// LoadBalancer defines the interface for routing requests to upstream servers.
// Each instance is owned by exactly one proxy and additionally tracks that
// proxy's outstanding requests per server.
type LoadBalancer interface {
	// SelectServer picks which server should handle the next request.
	// numServers is the current backend size; the returned index is in
	// [0, numServers).
	SelectServer(numServers int) int
	// OnSend records that the owning proxy dispatched a request to the server.
	OnSend(serverIdx int)
	// OnResponse records that a response from the server reached the owning proxy.
	OnResponse(serverIdx int)
	// Inflight returns the proxy-local count of outstanding requests on the server.
	Inflight(serverIdx int) int
}

// inflightCounters tracks, per server, how many requests the owning proxy
// has sent that have not yet been answered. This is the proxy's local view
// of load, not backend truth: a proxy never observes requests routed by
// its peers. Embedded by every policy implementation.
type inflightCounters struct {
	active []int
}

func newInflightCounters(numServers int) inflightCounters {
	return inflightCounters{active: make([]int, numServers)}
}

// OnSend increments the outstanding-request count for the server.
func (c *inflightCounters) OnSend(serverIdx int) {
	c.active[serverIdx]++
}

// OnResponse decrements the outstanding-request count for the server.
func (c *inflightCounters) OnResponse(serverIdx int) {
	c.active[serverIdx]--
}

// Inflight returns the outstanding-request count for the server.
func (c *inflightCounters) Inflight(serverIdx int) int {
	return c.active[serverIdx]
}

// Policy names accepted by NewLoadBalancer.
const (
	PolicyRoundRobin    = "round-robin"
	PolicyRandom        = "random"
	PolicyLeastRequests = "least-requests"
)

// validPolicies is the closed set of recognized policy names.
// Shared by Config.Validate and NewLoadBalancer to avoid duplication.
var validPolicies = map[string]bool{
	PolicyRoundRobin:    true,
	PolicyRandom:        true,
	PolicyLeastRequests: true,
}

// IsValidPolicy returns true if name is a recognized policy name.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// AvailablePolicies returns the sorted list of supported policy names.
func AvailablePolicies() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewLoadBalancer creates a load balancer of the specified type. Unknown
// names are a configuration error: the simulation must never start with an
// unset policy.
func NewLoadBalancer(policy string, numServers int, rng *rand.Rand) (LoadBalancer, error) {
	switch policy {
	case PolicyRoundRobin:
		return NewRoundRobin(numServers), nil
	case PolicyRandom:
		return NewRandomSelect(numServers, rng), nil
	case PolicyLeastRequests:
		return NewLeastRequests(numServers, rng), nil
	default:
		return nil, fmt.Errorf("unknown load balancer policy %q (available: %v)", policy, AvailablePolicies())
	}
}
