package sim

// Backend owns the fixed set of upstream servers that actually serve
// requests. Servers are independent: no state is shared between them.
type Backend struct {
	servers []*UpstreamServer
}

// NewBackend creates numServers servers with identical service parameters.
func NewBackend(numServers int, serviceTime int64, concurrency int) *Backend {
	b := &Backend{servers: make([]*UpstreamServer, 0, numServers)}
	for i := 0; i < numServers; i++ {
		b.servers = append(b.servers, NewUpstreamServer(i, serviceTime, concurrency))
	}
	return b
}

// NumServers returns the total number of upstream servers.
func (b *Backend) NumServers() int {
	return len(b.servers)
}

// RouteRequest delivers a request from the given proxy to the addressed
// server. The caller guarantees serverIdx is in range.
func (b *Backend) RouteRequest(serverIdx, proxyID int) {
	b.servers[serverIdx].Submit(proxyID)
}

// AdvanceAll runs one service tick on every server and returns all
// completions of the tick. Servers do not interact, so per-server results
// are concatenated in server order.
func (b *Backend) AdvanceAll() []Completion {
	var completed []Completion
	for _, s := range b.servers {
		completed = append(completed, s.Advance()...)
	}
	return completed
}

// LoadSnapshot returns the in-flight count of every server, indexed by
// server ID. Used for imbalance reporting, never by routing policies.
func (b *Backend) LoadSnapshot() []int {
	states := make([]int, len(b.servers))
	for i, s := range b.servers {
		states[i] = s.ActiveCount()
	}
	return states
}
