package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/chaoqin-li1123/LoadBalancerSimulator/sim"
)

var (
	// CLI flags for the simulation scenario
	proxies      int     // Number of proxy servers in the frontend tier
	servers      int     // Number of upstream servers in the backend tier
	policy       string  // Load balancer policy name
	serviceTime  int64   // Deterministic service time per request (in ticks)
	concurrency  int     // Per-server concurrency window
	ticks        int64   // Total simulation time (in ticks)
	seed         int64   // Seed for arrival and routing randomness
	tailFraction float64 // Fraction of requests in the reported latency tail
	configPath   string  // Optional YAML scenario file
	outputDir    string  // Directory for the per-tick imbalance series
	logLevel     string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lbsim",
	Short: "Discrete-time simulator for load balancing policies",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the load balancing simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Unable to read scenario config: %v", err)
			}
		}
		applyFlagOverrides(cmd, cfg)

		// The imbalance time series lands in a file named after the policy,
		// one integer per tick.
		outPath := filepath.Join(outputDir, cfg.Policy)
		file, err := os.Create(outPath)
		if err != nil {
			logrus.Fatalf("Error creating imbalance output %s: %v", outPath, err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				logrus.Fatalf("Error closing imbalance output %s: %v", outPath, closeErr)
			}
		}()
		writer := bufio.NewWriter(file)
		defer func() {
			if flushErr := writer.Flush(); flushErr != nil {
				logrus.Fatalf("Error flushing imbalance output %s: %v", outPath, flushErr)
			}
		}()

		s, err := sim.NewSimulator(cfg, writer)
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		// Log configuration
		logrus.Infof("Starting simulation with policy=%s, proxies=%d, servers=%d, horizon=%d ticks",
			cfg.Policy, cfg.Proxies, cfg.Servers, cfg.Ticks)

		startTime := time.Now() // Get current time (start)

		s.Run(cfg.Ticks)
		s.Metrics.Print(cfg.Policy, cfg.Ticks, cfg.TailFraction)

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// applyFlagOverrides copies explicitly-set CLI flags over the scenario
// config, so flags win over values from the YAML file.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	if cmd.Flags().Changed("proxies") {
		cfg.Proxies = proxies
	}
	if cmd.Flags().Changed("servers") {
		cfg.Servers = servers
	}
	if cmd.Flags().Changed("policy") {
		cfg.Policy = policy
	}
	if cmd.Flags().Changed("service-time") {
		cfg.ServiceTime = serviceTime
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("tail-fraction") {
		cfg.TailFraction = tailFraction
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&proxies, "proxies", 10, "Number of proxy servers")
	runCmd.Flags().IntVar(&servers, "servers", 10, "Number of upstream servers")
	runCmd.Flags().StringVar(&policy, "policy", sim.PolicyRoundRobin, "Load balancer policy (round-robin, random, least-requests)")
	runCmd.Flags().Int64Var(&serviceTime, "service-time", 100, "Service time per request (in ticks)")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 6, "Requests an upstream server processes in parallel")
	runCmd.Flags().Int64Var(&ticks, "ticks", 100000, "Total simulation horizon (in ticks)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival and routing randomness")
	runCmd.Flags().Float64Var(&tailFraction, "tail-fraction", 0.001, "Fraction of requests in the reported latency tail")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (flags override file values)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for the per-tick imbalance series")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
