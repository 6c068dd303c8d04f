// Tracks simulation-wide statistics: completed request latencies, per-server
// completion counts, and the backend load-imbalance time series.

package sim

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrNoCompletions is returned by summary queries invoked before any request
// has completed.
var ErrNoCompletions = errors.New("no completed requests")

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for comparing load balancing policies against each other.
type Metrics struct {
	CompletedRequests int     // Number of requests completed
	TotalLatency      int64   // Sum of completed request latencies (in ticks)
	Latencies         []int64 // Append-only log of completed request latencies
	ServerCompletions []int   // Completions per server ID
	ImbalanceSeries   []int   // Per-tick max-min spread of backend load
}

// NewMetrics creates an empty Metrics for a backend of the given size.
func NewMetrics(numServers int) *Metrics {
	return &Metrics{ServerCompletions: make([]int, numServers)}
}

// RecordCompletion folds one completed request into the running statistics.
func (m *Metrics) RecordCompletion(c Completion) {
	m.CompletedRequests++
	m.TotalLatency += c.Latency
	m.Latencies = append(m.Latencies, c.Latency)
	m.ServerCompletions[c.ServerID]++
}

// RecordImbalance appends one tick's backend load spread.
func (m *Metrics) RecordImbalance(spread int) {
	m.ImbalanceSeries = append(m.ImbalanceSeries, spread)
}

// MeanLatency returns the mean latency over all completed requests.
func (m *Metrics) MeanLatency() (float64, error) {
	if m.CompletedRequests == 0 {
		return 0, ErrNoCompletions
	}
	return float64(m.TotalLatency) / float64(m.CompletedRequests), nil
}

// TailLatency reports the latency at the extreme percentile 1-fraction: the
// value such that roughly fraction of all completed requests were at least
// as slow. With fewer completions than 1/fraction the tail offset collapses
// to the end of the log and the maximum observed latency is returned; the
// offset is clamped so the query can never index out of range.
func (m *Metrics) TailLatency(fraction float64) (int64, error) {
	if len(m.Latencies) == 0 {
		return 0, ErrNoCompletions
	}
	sorted := make([]int64, len(m.Latencies))
	copy(sorted, m.Latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	tailCount := int(float64(len(sorted)) * fraction)
	idx := len(sorted) - tailCount
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx], nil
}

// Print displays aggregated metrics at the end of the simulation.
// Includes mean and tail latency, imbalance statistics, and the per-server
// completion distribution.
func (m *Metrics) Print(policy string, ticks int64, tailFraction float64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Policy               : %s\n", policy)
	fmt.Printf("Ticks                : %d\n", ticks)
	fmt.Printf("Completed Requests   : %d\n", m.CompletedRequests)
	if m.CompletedRequests > 0 {
		mean, _ := m.MeanLatency()
		tail, _ := m.TailLatency(tailFraction)
		fmt.Printf("Mean Latency         : %.2f ticks\n", mean)
		fmt.Printf("P%.4g Latency       : %d ticks\n", (1-tailFraction)*100, tail)
	}
	if len(m.ImbalanceSeries) > 0 {
		series := make([]float64, len(m.ImbalanceSeries))
		peak := 0
		for i, v := range m.ImbalanceSeries {
			series[i] = float64(v)
			if v > peak {
				peak = v
			}
		}
		meanSpread, stddev := stat.MeanStdDev(series, nil)
		fmt.Printf("Mean Imbalance       : %.2f requests (stddev %.2f)\n", meanSpread, stddev)
		fmt.Printf("Peak Imbalance       : %d requests\n", peak)
	}
	fmt.Printf("Completions per server : %v\n", m.ServerCompletions)
}
