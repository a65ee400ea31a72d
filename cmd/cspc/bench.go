package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/config"
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/data"
)

var (
	benchExclude    []string
	benchValidate   bool
	benchHistory    bool
	benchHistoryDB  string
	benchReportFile string
	benchWatch      bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <input_dir>",
	Short: "Run every solver over a directory of benchmark instances",
	Long: `Runs every registered solver on every .in file in the input directory
and prints a per-solver report: filename, time, score and percent error
against the best known score encoded in the filename.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := runBench(cfg, args[0]); err != nil {
			return err
		}
		if !benchWatch {
			return nil
		}
		return watchBench(cfg, args[0])
	},
}

func init() {
	benchCmd.Flags().StringSliceVarP(&benchExclude, "exclude", "e", nil, "Solvers to skip, comma separated")
	benchCmd.Flags().BoolVar(&benchValidate, "valid", false, "Fail when a score differs from the filename's best known value")
	benchCmd.Flags().BoolVar(&benchHistory, "history", false, "Record results in the bench history database")
	benchCmd.Flags().StringVar(&benchHistoryDB, "history-db", "", "Bench history database path")
	benchCmd.Flags().StringVar(&benchReportFile, "report-file", "", "Write the full report as YAML to this file")
	benchCmd.Flags().BoolVar(&benchWatch, "watch", false, "Re-run when the input directory changes")
}

func runBench(cfg *config.Config, dir string) error {
	var store *data.BenchStore
	if benchHistory {
		path := benchHistoryDB
		if path == "" {
			path = cfg.Bench.HistoryPath
		}
		if path == "" {
			path = data.DefaultStorePath()
		}
		var err error
		store, err = data.OpenBenchStore(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var reports []*data.Report
	for _, entry := range registry(cfg) {
		if excluded(entry.Name) {
			continue
		}
		scheduler := entry.New(solverOptions(cfg))
		if gated, ok := scheduler.(interface{ Available() bool }); ok && !gated.Available() {
			color.New(color.Faint).Printf("skipping %s: external solver not found\n", entry.Name)
			continue
		}

		report, err := data.Run(dir, benchValidate, scheduler)
		if err != nil {
			return fmt.Errorf("bench %s: %w", entry.Name, err)
		}
		fmt.Print(report.Render())

		if store != nil {
			runID, err := store.Record(report)
			if err != nil {
				return err
			}
			color.New(color.Faint).Printf("recorded run %s\n", runID)
		}

		reports = append(reports, report)
	}

	if benchReportFile != "" {
		if err := writeReportFile(benchReportFile, reports); err != nil {
			return err
		}
	}
	return nil
}

func excluded(name string) bool {
	for _, excludedName := range benchExclude {
		if excludedName == name {
			return true
		}
	}
	return false
}

func writeReportFile(path string, reports []*data.Report) error {
	encoded, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// watchBench blocks, re-running the benchmark whenever the input directory
// changes.
func watchBench(cfg *config.Config, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	color.New(color.Faint).Printf("watching %s for changes\n", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			color.New(color.Bold).Printf("%s changed, re-running\n", event.Name)
			if err := runBench(cfg, dir); err != nil {
				color.New(color.FgRed).Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgRed).Fprintln(os.Stderr, err)
		}
	}
}
