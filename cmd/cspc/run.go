package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/data"
)

var runCmd = &cobra.Command{
	Use:   "run <algorithm>",
	Short: "Solve an instance read from stdin",
	Long: `Reads an instance from stdin, solves it with the chosen algorithm and
writes the schedule to stdout, followed by a line with the score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		scheduler, err := findSolver(cfg, args[0])
		if err != nil {
			return err
		}

		instance, err := data.ReadInstance(os.Stdin)
		if err != nil {
			return err
		}

		schedule, err := scheduler.Schedule(instance)
		if err != nil {
			return err
		}

		if !schedule.Verify() {
			panic(fmt.Sprintf("%s produced an invalid schedule", scheduler.Name()))
		}

		if err := data.WriteSchedule(os.Stdout, schedule); err != nil {
			return err
		}
		fmt.Println(schedule.Score())
		return nil
	},
}
