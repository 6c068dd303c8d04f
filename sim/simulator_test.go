package sim

import (
	"errors"
	"strings"
	"testing"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Proxies = 1
	cfg.Servers = 1
	cfg.Ticks = 200
	return cfg
}

func TestSimulator_RoundTrip_FirstCompletionAtTick101(t *testing.T) {
	// GIVEN one proxy and one server, so one request arrives at the end of
	// every tick starting at tick 1
	s, err := NewSimulator(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	// WHEN 100 ticks run
	s.Run(100)

	// THEN nothing has completed: the tick-1 arrival has only seen 99
	// service ticks (ticks 2 through 100)
	if s.Metrics.CompletedRequests != 0 {
		t.Fatalf("completions after 100 ticks: got %d, want 0", s.Metrics.CompletedRequests)
	}

	// WHEN one more tick runs
	s.Tick()

	// THEN the first arrival completes with exactly its service time
	if s.Metrics.CompletedRequests != 1 {
		t.Fatalf("completions after 101 ticks: got %d, want 1", s.Metrics.CompletedRequests)
	}
	if s.Metrics.Latencies[0] != 100 {
		t.Errorf("first completion latency: got %d, want 100", s.Metrics.Latencies[0])
	}
}

func TestSimulator_CounterConservation_HoldsAcrossTicks(t *testing.T) {
	// GIVEN several proxies routing over several servers
	cfg := DefaultConfig()
	cfg.Proxies = 4
	cfg.Servers = 3
	cfg.Policy = PolicyLeastRequests
	s, err := NewSimulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	// WHEN the simulation advances
	// THEN at every tick boundary the per-proxy counters for each server sum
	// to that server's true in-flight count
	for tick := 0; tick < 500; tick++ {
		s.Tick()
		states := s.Backend.LoadSnapshot()
		for serverIdx, want := range states {
			sum := 0
			for _, p := range s.proxies {
				sum += p.Inflight(serverIdx)
			}
			if sum != want {
				t.Fatalf("tick %d server %d: proxy counters sum to %d, true load is %d", tick+1, serverIdx, sum, want)
			}
		}
	}
}

func TestSimulator_SummaryQueries_ErrBeforeAnyCompletion(t *testing.T) {
	s, err := NewSimulator(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	if _, err := s.MeanLatency(); !errors.Is(err, ErrNoCompletions) {
		t.Errorf("MeanLatency error: got %v, want ErrNoCompletions", err)
	}
	if _, err := s.TailLatency(0.001); !errors.Is(err, ErrNoCompletions) {
		t.Errorf("TailLatency error: got %v, want ErrNoCompletions", err)
	}
}

func TestSimulator_SummaryQueries_AfterCompletions(t *testing.T) {
	// GIVEN a simulation that has completed requests
	s, err := NewSimulator(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	s.Run(150)
	if s.Metrics.CompletedRequests == 0 {
		t.Fatal("expected completions after 150 ticks")
	}

	// THEN both summary queries answer without error
	mean, err := s.MeanLatency()
	if err != nil {
		t.Fatalf("MeanLatency: %v", err)
	}
	if mean < 100 {
		t.Errorf("mean latency %f below the deterministic service time", mean)
	}
	tail, err := s.TailLatency(0.001)
	if err != nil {
		t.Fatalf("TailLatency: %v", err)
	}
	if tail < 100 {
		t.Errorf("tail latency %d below the deterministic service time", tail)
	}
}

func TestSimulator_ImbalanceSink_OneIntegerPerTick(t *testing.T) {
	// GIVEN one proxy round-robining over two servers, writing to a sink
	cfg := DefaultConfig()
	cfg.Proxies = 1
	cfg.Servers = 2
	var sink strings.Builder
	s, err := NewSimulator(cfg, &sink)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	// WHEN three ticks run: loads are [0 0], then [1 0], then [1 1]
	s.Run(3)

	// THEN the sink holds the whitespace-separated spread series
	if got := sink.String(); got != "0 1 0 " {
		t.Errorf("sink contents: got %q, want %q", got, "0 1 0 ")
	}
	if len(s.Metrics.ImbalanceSeries) != 3 {
		t.Errorf("imbalance series length: got %d, want 3", len(s.Metrics.ImbalanceSeries))
	}
}

func TestSimulator_SameSeed_SameResults(t *testing.T) {
	// GIVEN two simulators with identical configuration and seed
	cfg := DefaultConfig()
	cfg.Proxies = 3
	cfg.Servers = 4
	cfg.Policy = PolicyLeastRequests
	run := func() *Simulator {
		s, err := NewSimulator(cfg, nil)
		if err != nil {
			t.Fatalf("NewSimulator: %v", err)
		}
		s.Run(2000)
		return s
	}

	// WHEN both run the same horizon
	s1, s2 := run(), run()

	// THEN every statistic matches bit for bit
	if s1.Metrics.CompletedRequests != s2.Metrics.CompletedRequests {
		t.Errorf("completed requests: %d vs %d", s1.Metrics.CompletedRequests, s2.Metrics.CompletedRequests)
	}
	if s1.Metrics.TotalLatency != s2.Metrics.TotalLatency {
		t.Errorf("total latency: %d vs %d", s1.Metrics.TotalLatency, s2.Metrics.TotalLatency)
	}
	for i := range s1.Metrics.ImbalanceSeries {
		if s1.Metrics.ImbalanceSeries[i] != s2.Metrics.ImbalanceSeries[i] {
			t.Fatalf("imbalance series diverges at tick %d", i+1)
		}
	}
}

func TestNewSimulator_InvalidConfig_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = "wishful-thinking"
	if _, err := NewSimulator(cfg, nil); err == nil {
		t.Error("expected an error for an unknown policy name")
	}

	cfg = DefaultConfig()
	cfg.Servers = 0
	if _, err := NewSimulator(cfg, nil); err == nil {
		t.Error("expected an error for zero servers")
	}
}
