package sim

import "github.com/sirupsen/logrus"

// Proxy is a front-line dispatcher with a configured load balancer. It
// forwards exactly one request per SendRequest call and feeds responses back
// into its load balancer's counters.
type Proxy struct {
	ID int
	lb LoadBalancer
}

// NewProxy creates a proxy with the given identity and load balancer.
func NewProxy(id int, lb LoadBalancer) *Proxy {
	return &Proxy{ID: id, lb: lb}
}

// SendRequest routes one request into the backend through this proxy's load
// balancer and records the send on the proxy-local counters.
func (p *Proxy) SendRequest(backend *Backend) {
	target := p.lb.SelectServer(backend.NumServers())
	p.lb.OnSend(target)
	backend.RouteRequest(target, p.ID)
	logrus.Debugf("proxy %d routed request to server %d", p.ID, target)
}

// ReceiveResponse records that one of this proxy's requests finished on the
// given server. Invoked only by the Simulator during response attribution.
func (p *Proxy) ReceiveResponse(serverIdx int) {
	p.lb.OnResponse(serverIdx)
}

// Inflight exposes this proxy's outstanding-request count for a server.
func (p *Proxy) Inflight(serverIdx int) int {
	return p.lb.Inflight(serverIdx)
}
