package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/data"
)

var (
	genDeadlineRatio float64
	genConflictRatio float64
	genSameDuration  bool
	genAmount        int
	genMaxWeight     uint64
	genOutput        string
)

var genCmd = &cobra.Command{
	Use:   "gen <processors> <tasks> <max_time>",
	Short: "Generate random problem instances",
	Long: `Generates random instances into the output directory, creating it when
missing. The deadline is computed as
max_time * tasks * deadline_ratio / (processors * 2), rounded up.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		processors, err := positiveInt(args[0], "processors")
		if err != nil {
			return err
		}
		tasks, err := positiveInt(args[1], "tasks")
		if err != nil {
			return err
		}
		maxTime, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil || maxTime == 0 {
			return fmt.Errorf("max_time must be a positive number, got %q", args[2])
		}

		opts := data.GenerateOptions{
			Processors:    processors,
			Tasks:         tasks,
			MaxTime:       maxTime,
			MaxWeight:     genMaxWeight,
			DeadlineRatio: genDeadlineRatio,
			ConflictRatio: genConflictRatio,
			SameDuration:  genSameDuration,
			Amount:        genAmount,
			Seed:          cfg.Seed,
		}
		return data.Generate(opts, genOutput)
	},
}

func init() {
	genCmd.Flags().Float64VarP(&genDeadlineRatio, "deadline-ratio", "d", 1.0, "Deadline scaling factor")
	genCmd.Flags().Float64VarP(&genConflictRatio, "conflict-ratio", "c", 0.5, "Conflicts ceil(pairs / ratio) task pairs, capped at every pair; a ratio of 1.0 or less conflicts every pair")
	genCmd.Flags().BoolVarP(&genSameDuration, "same-duration", "s", false, "All tasks share one processing time")
	genCmd.Flags().IntVarP(&genAmount, "amount", "a", 1, "Number of instances to generate")
	genCmd.Flags().Uint64VarP(&genMaxWeight, "max-weight", "w", 100, "Largest task weight")
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "output", "Output directory")
}

func positiveInt(value, what string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", what, value)
	}
	return parsed, nil
}
