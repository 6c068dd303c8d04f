package sim

import (
	"testing"
)

func TestProxy_Counters_MatchServerLoad(t *testing.T) {
	// GIVEN one proxy and one server
	backend := NewBackend(1, 100, 6)
	proxy := NewProxy(0, NewRoundRobin(1))

	// WHEN three requests are sent and no ticks pass
	for i := 0; i < 3; i++ {
		proxy.SendRequest(backend)
	}

	// THEN the proxy's local counter and the server's true load agree
	if got := backend.LoadSnapshot()[0]; got != 3 {
		t.Errorf("server ActiveCount: got %d, want 3", got)
	}
	if got := proxy.Inflight(0); got != 3 {
		t.Errorf("proxy in-flight counter: got %d, want 3", got)
	}
}

func TestProxy_ReceiveResponse_DecrementsCounter(t *testing.T) {
	// GIVEN a proxy with two outstanding requests on server 0
	backend := NewBackend(1, 100, 6)
	proxy := NewProxy(0, NewRoundRobin(1))
	proxy.SendRequest(backend)
	proxy.SendRequest(backend)

	// WHEN one response is attributed back
	proxy.ReceiveResponse(0)

	// THEN one request remains outstanding in the proxy's view
	if got := proxy.Inflight(0); got != 1 {
		t.Errorf("proxy in-flight counter: got %d, want 1", got)
	}
}

func TestProxy_SendRequest_FollowsItsPolicy(t *testing.T) {
	// GIVEN a proxy with a round robin policy over three servers
	backend := NewBackend(3, 100, 6)
	proxy := NewProxy(0, NewRoundRobin(3))

	// WHEN three requests are sent
	for i := 0; i < 3; i++ {
		proxy.SendRequest(backend)
	}

	// THEN every server received exactly one
	for i, load := range backend.LoadSnapshot() {
		if load != 1 {
			t.Errorf("server %d load: got %d, want 1", i, load)
		}
		if proxy.Inflight(i) != 1 {
			t.Errorf("proxy counter for server %d: got %d, want 1", i, proxy.Inflight(i))
		}
	}
}
