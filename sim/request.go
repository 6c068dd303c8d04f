// Defines the in-flight request record tracked by each upstream server and
// the Completion record emitted when a request finishes service.

package sim

import "fmt"

// inFlightRequest is one request sitting inside an upstream server, either
// being served (inside the concurrency window) or queued behind it. Keeping
// the three fields in a single record makes their index alignment structural
// rather than a convention between parallel sequences.
type inFlightRequest struct {
	RemainingService int64 // service ticks left before the response is emitted
	ProxyID          int   // proxy that routed this request
	Latency          int64 // ticks accumulated since the request entered the server
}

// Completion reports one finished request. The Simulator uses ProxyID to
// hand the response back to the originating proxy and ServerID to record
// which node served it.
type Completion struct {
	Latency  int64
	ProxyID  int
	ServerID int
}

// This method returns a human-readable string representation of a Completion.
func (c Completion) String() string {
	return fmt.Sprintf("Completion: (Proxy: %d, Server: %d, Latency: %d ticks)", c.ProxyID, c.ServerID, c.Latency)
}
