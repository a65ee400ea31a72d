package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/config"
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/ilp"
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/solver"
)

// Global flags
var (
	seedFlag uint64 // overrides the configured RNG seed
)

var rootCmd = &cobra.Command{
	Use:   "cspc",
	Short: "Capacitated scheduling with conflict jobs",
	Long: `cspc solves the capacitated scheduling problem with conflicts:
weighted tasks on identical processors under a global deadline, where
conflicting tasks must never overlap in time.

Available commands:
  run      Solve an instance read from stdin with one algorithm
  bench    Run every solver over a directory of benchmark instances
  gen      Generate random problem instances
  version  Show version information

Use "cspc [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version()

	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "Seed for randomized solvers (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration and applies the --seed override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seedFlag
	}
	return cfg, nil
}

// solverOptions maps the configuration onto solver parameters.
func solverOptions(cfg *config.Config) solver.Options {
	return solver.Options{
		Seed:               cfg.Seed,
		Generations:        cfg.Solvers.Generations,
		TresoldiIterations: cfg.Solvers.TresoldiIterations,
		VNSIterations:      cfg.Solvers.VNSIterations,
	}
}

// registry assembles the full registration table: built-in heuristics plus
// the external-solver formulations.
func registry(cfg *config.Config) []solver.Entry {
	entries := solver.Builtin()
	entries = append(entries,
		solver.Entry{Name: "ILP1", New: func(solver.Options) solver.Scheduler {
			return ilp.NewILP1(ilp.NewBinding(cfg.ILP.SolverPath))
		}},
		solver.Entry{Name: "ILP2", New: func(solver.Options) solver.Scheduler {
			return ilp.NewILP2(ilp.NewBinding(cfg.ILP.SolverPath))
		}},
	)
	return entries
}

// findSolver resolves an algorithm name against the registry.
func findSolver(cfg *config.Config, name string) (solver.Scheduler, error) {
	for _, entry := range registry(cfg) {
		if entry.Name == name {
			return entry.New(solverOptions(cfg)), nil
		}
	}

	names := make([]string, 0)
	for _, entry := range registry(cfg) {
		names = append(names, entry.Name)
	}
	return nil, fmt.Errorf("unknown algorithm %q (available: %v)", name, names)
}
