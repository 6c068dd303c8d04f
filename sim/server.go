// Implements the UpstreamServer, which services its in-flight requests in
// arrival order inside a bounded concurrency window.

package sim

import (
	"github.com/sirupsen/logrus"
)

// UpstreamServer models one worker node. Requests are held in arrival order;
// at most Concurrency of the oldest requests make service progress each tick,
// so requests always complete in the order they arrived. Backlog is
// unbounded: the window is the only admission control.
type UpstreamServer struct {
	ID          int
	ServiceTime int64 // deterministic service ticks per request
	Concurrency int   // max requests served in parallel per tick

	inflight []inFlightRequest
}

// NewUpstreamServer creates an idle server.
func NewUpstreamServer(id int, serviceTime int64, concurrency int) *UpstreamServer {
	return &UpstreamServer{
		ID:          id,
		ServiceTime: serviceTime,
		Concurrency: concurrency,
	}
}

// Submit appends a new request from the given proxy at the back of the queue.
func (s *UpstreamServer) Submit(proxyID int) {
	s.inflight = append(s.inflight, inFlightRequest{
		RemainingService: s.ServiceTime,
		ProxyID:          proxyID,
	})
}

// Advance runs one tick of service and returns the requests that completed
// during it. Every in-flight request accrues one tick of latency whether or
// not it is inside the window; only the first Concurrency requests make
// service progress. Since only a prefix is ever served and only the front is
// popped, requests beyond the front can never reach zero first, so the
// pop-while-front-is-zero loop is complete.
func (s *UpstreamServer) Advance() []Completion {
	for i := range s.inflight {
		s.inflight[i].Latency++
	}
	for i := 0; i < len(s.inflight) && i < s.Concurrency; i++ {
		s.inflight[i].RemainingService--
	}
	var completed []Completion
	for len(s.inflight) > 0 && s.inflight[0].RemainingService == 0 {
		front := s.inflight[0]
		s.inflight = s.inflight[1:]
		completed = append(completed, Completion{
			Latency:  front.Latency,
			ProxyID:  front.ProxyID,
			ServerID: s.ID,
		})
		logrus.Tracef("server %d: request from proxy %d completed after %d ticks", s.ID, front.ProxyID, front.Latency)
	}
	return completed
}

// ActiveCount returns the number of in-flight requests, serving or queued.
func (s *UpstreamServer) ActiveCount() int {
	return len(s.inflight)
}
