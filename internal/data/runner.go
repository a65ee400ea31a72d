package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/solver"
)

// Run executes one solver over every benchmark file in dir and collects a
// report. Files the solver cannot handle (non-unit tasks for a unit-only
// solver, more processors than it supports) are skipped.
//
// A solver emitting an infeasible schedule is a bug, not an input error:
// the run panics with a diagnostic. With validate set, a score differing
// from the filename's best known value panics as well.
func Run(dir string, validate bool, s solver.Scheduler) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read benchmark directory: %w", err)
	}

	report := NewReport(s.Name())

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".in") {
			continue
		}
		file, err := ParseBenchFilename(entry.Name())
		if err != nil {
			return nil, err
		}

		if !s.SupportsNonUnit() && !file.Unit {
			continue
		}
		if file.Processors > s.MaxProcessors() {
			continue
		}

		handle, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", entry.Name(), err)
		}
		instance, err := ReadInstance(handle)
		handle.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}

		started := time.Now()
		schedule, err := s.Schedule(instance)
		elapsed := time.Since(started).Seconds()
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", s.Name(), entry.Name(), err)
		}

		if !schedule.Verify() {
			panic(fmt.Sprintf("%s produced an invalid schedule for %s", s.Name(), entry.Name()))
		}

		score := schedule.Score()
		if validate && score != file.BestKnown {
			panic(fmt.Sprintf("%s scored %d on %s, expected %d", s.Name(), score, entry.Name(), file.BestKnown))
		}

		report.Entries = append(report.Entries, ReportEntry{
			Name:      entry.Name(),
			Score:     score,
			BestKnown: file.BestKnown,
			Seconds:   elapsed,
		})
	}

	return report, nil
}
