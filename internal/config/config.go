// Package config handles configuration loading for the cspc CLI. It
// supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all tunables of the CLI and the solvers.
type Config struct {
	// Seed drives every randomized solver and the instance generator.
	Seed    uint64       `mapstructure:"seed"`
	Solvers SolverConfig `mapstructure:"solvers"`
	ILP     ILPConfig    `mapstructure:"ilp"`
	Bench   BenchConfig  `mapstructure:"bench"`
}

// SolverConfig holds the heuristic parameters.
type SolverConfig struct {
	// Generations is the genetic algorithm's generation count.
	Generations int `mapstructure:"generations"`
	// TresoldiIterations is the multistart restart count.
	TresoldiIterations int `mapstructure:"tresoldi_iterations"`
	// VNSIterations is the shaking round count.
	VNSIterations int `mapstructure:"vns_iterations"`
}

// ILPConfig holds the external MIP solver settings.
type ILPConfig struct {
	// SolverPath points at the gurobi_cl binary; empty means discovery
	// via GUROBI_HOME and PATH.
	SolverPath string `mapstructure:"solver_path"`
}

// BenchConfig holds benchmark settings.
type BenchConfig struct {
	// HistoryPath overrides the bench history database location.
	HistoryPath string `mapstructure:"history_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solvers: SolverConfig{
			Generations:        800,
			TresoldiIterations: 10,
			VNSIterations:      10,
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("solvers.generations", defaults.Solvers.Generations)
	v.SetDefault("solvers.tresoldi_iterations", defaults.Solvers.TresoldiIterations)
	v.SetDefault("solvers.vns_iterations", defaults.Solvers.VNSIterations)
	v.SetDefault("ilp.solver_path", "")
	v.SetDefault("bench.history_path", "")
}

// Load reads configuration with the following precedence, highest first:
//  1. CSPC_* environment variables
//  2. Project config (.cspc.yaml in the working directory)
//  3. User config (~/.config/cspc/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if user := userConfigPath(); user != "" {
		v.SetConfigFile(user)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read user config: %w", err)
		}
	}

	v.SetConfigFile(".cspc.yaml")
	if err := v.MergeInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("read project config: %w", err)
	}

	v.SetEnvPrefix("CSPC")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath reads a single config file, applying defaults underneath.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func userConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "cspc", "config.yaml")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
