// sim/simulator.go
package sim

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Simulator drives one logical timeline over a backend and a frontend. The
// caller advances it by invoking Tick (or Run); all state is mutated within
// a single tick's synchronous call chain, so the simulator is not safe for
// concurrent use.
type Simulator struct {
	Clock    int64
	Backend  *Backend
	Frontend *Frontend
	Metrics  *Metrics

	proxies []*Proxy
	sink    io.Writer // per-tick imbalance time series, one integer per tick
}

// NewSimulator wires a simulator from a scenario config, validating it
// first. Each proxy gets its own load balancer instance seeded from its own
// RNG subsystem; sink (optional) receives the imbalance time series.
func NewSimulator(cfg *Config, sink io.Writer) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	proxies := make([]*Proxy, 0, cfg.Proxies)
	for i := 0; i < cfg.Proxies; i++ {
		lb, err := NewLoadBalancer(cfg.Policy, cfg.Servers, rng.ForSubsystem(SubsystemProxy(i)))
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, NewProxy(i, lb))
	}
	return &Simulator{
		Backend:  NewBackend(cfg.Servers, cfg.ServiceTime, cfg.Concurrency),
		Frontend: NewFrontend(proxies, rng.ForSubsystem(SubsystemFrontend)),
		Metrics:  NewMetrics(cfg.Servers),
		proxies:  proxies,
		sink:     sink,
	}, nil
}

// Tick advances the timeline by one step. The order is fixed and
// significant: service advance, response attribution, imbalance recording,
// then new arrivals. Completions are drained before arrivals are issued, so
// a request sent during tick T can complete no earlier than tick T+1.
func (sim *Simulator) Tick() {
	sim.Clock++
	completions := sim.Backend.AdvanceAll()
	sim.attribute(completions)
	sim.recordImbalance()
	arrivals := sim.Frontend.GenerateArrivals(sim.Backend)
	logrus.Tracef("[tick %07d] %d completions, %d arrivals", sim.Clock, len(completions), arrivals)
}

// Run advances the simulation for the given number of ticks.
func (sim *Simulator) Run(ticks int64) {
	logrus.Infof("[tick %07d] Simulation started: %d ticks, %d proxies, %d servers",
		sim.Clock, ticks, len(sim.proxies), sim.Backend.NumServers())
	for i := int64(0); i < ticks; i++ {
		sim.Tick()
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}

// attribute hands each completed response back to its originating proxy and
// folds its latency into the metrics. The completion slice is consumed by
// value here and never survives the tick.
func (sim *Simulator) attribute(completions []Completion) {
	for _, c := range completions {
		sim.proxies[c.ProxyID].ReceiveResponse(c.ServerID)
		sim.Metrics.RecordCompletion(c)
	}
}

// recordImbalance records max(load) - min(load) across all servers for this
// tick, both to the metrics series and the output sink.
func (sim *Simulator) recordImbalance() {
	states := sim.Backend.LoadSnapshot()
	minLoad, maxLoad := states[0], states[0]
	for _, load := range states[1:] {
		if load < minLoad {
			minLoad = load
		}
		if load > maxLoad {
			maxLoad = load
		}
	}
	spread := maxLoad - minLoad
	sim.Metrics.RecordImbalance(spread)
	if sim.sink != nil {
		fmt.Fprintf(sim.sink, "%d ", spread)
	}
}

// MeanLatency returns the mean latency over all completed requests so far.
func (sim *Simulator) MeanLatency() (float64, error) {
	return sim.Metrics.MeanLatency()
}

// TailLatency returns the latency at the extreme percentile 1-fraction over
// all completed requests so far.
func (sim *Simulator) TailLatency(fraction float64) (int64, error) {
	return sim.Metrics.TailLatency(fraction)
}
