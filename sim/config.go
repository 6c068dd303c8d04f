package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full simulation scenario, loadable from a YAML file.
// Fields left out of the YAML keep the defaults from DefaultConfig.
type Config struct {
	Proxies      int     `yaml:"proxies"`       // size of the proxy tier
	Servers      int     `yaml:"servers"`       // size of the upstream server tier
	Policy       string  `yaml:"policy"`        // load balancer policy name
	ServiceTime  int64   `yaml:"service_time"`  // deterministic service ticks per request
	Concurrency  int     `yaml:"concurrency"`   // per-server concurrency window
	Ticks        int64   `yaml:"ticks"`         // simulation horizon
	Seed         int64   `yaml:"seed"`          // master seed for all randomness
	TailFraction float64 `yaml:"tail_fraction"` // fraction of requests in the reported tail
}

// DefaultConfig returns the reference scenario: 100-tick service, a
// concurrency window of 6, and the top 0.1% latency tail.
func DefaultConfig() *Config {
	return &Config{
		Proxies:      10,
		Servers:      10,
		Policy:       PolicyRoundRobin,
		ServiceTime:  100,
		Concurrency:  6,
		Ticks:        100000,
		Seed:         42,
		TailFraction: 0.001,
	}
}

// LoadConfig reads and parses a YAML scenario file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return cfg, nil
}

// Validate checks the policy name and parameter ranges. Construction must
// fail here rather than start a simulation with a nil policy or an empty
// tier.
func (cfg *Config) Validate() error {
	if cfg.Proxies <= 0 {
		return fmt.Errorf("proxies must be positive, got %d", cfg.Proxies)
	}
	if cfg.Servers <= 0 {
		return fmt.Errorf("servers must be positive, got %d", cfg.Servers)
	}
	if !IsValidPolicy(cfg.Policy) {
		return fmt.Errorf("unknown load balancer policy %q (available: %v)", cfg.Policy, AvailablePolicies())
	}
	if cfg.ServiceTime <= 0 {
		return fmt.Errorf("service_time must be positive, got %d", cfg.ServiceTime)
	}
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.TailFraction <= 0 || cfg.TailFraction >= 1 {
		return fmt.Errorf("tail_fraction must be in (0, 1), got %g", cfg.TailFraction)
	}
	return nil
}
