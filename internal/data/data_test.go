package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/solver"
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

func TestParseBenchFilename(t *testing.T) {
	file, err := ParseBenchFilename("10_1234_0_unit.in")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Processors != 10 || file.BestKnown != 1234 || !file.Unit {
		t.Errorf("unexpected parse result %+v", file)
	}

	file, err = ParseBenchFilename("2_14_2.in")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Processors != 2 || file.BestKnown != 14 || file.Unit {
		t.Errorf("unexpected parse result %+v", file)
	}
}

func TestParseBenchFilenameErrors(t *testing.T) {
	bad := []string{
		"",
		".in",
		"10.in",
		"10_1234.in",
		"10_1a234_0_unit.in",
		"1a0_1234_0.in",
		"10_1234_0a2.in",
	}
	for _, name := range bad {
		if _, err := ParseBenchFilename(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestRunOverDirectory(t *testing.T) {
	dir := t.TempDir()

	instance := problem.NewInstance(2, 10,
		[]problem.Task{{Time: 1, Weight: 1}, {Time: 2, Weight: 2}},
		[]problem.Conflict{problem.NewConflict(0, 1)},
	)
	writeInstanceFile(t, dir, "2_3_0.in", instance)

	unitInstance := problem.NewInstanceNoConflict(2, 2, []problem.Task{
		{Time: 1, Weight: 5}, {Time: 1, Weight: 3},
	})
	writeInstanceFile(t, dir, "2_8_1_unit.in", unitInstance)

	report, err := Run(dir, true, solver.List{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Entries))
	}
	if report.Scheduler != "List" {
		t.Errorf("expected scheduler List, got %q", report.Scheduler)
	}
	if report.TotalScore() != 11 {
		t.Errorf("expected total score 11, got %d", report.TotalScore())
	}

	// A unit-only solver skips the non-unit file.
	report, err = Run(dir, false, solver.PolynomialTime{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected the unit file only, got %d entries", len(report.Entries))
	}
	if report.Entries[0].Name != "2_8_1_unit.in" {
		t.Errorf("unexpected entry %q", report.Entries[0].Name)
	}
}

func TestRunRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notashape.in"), []byte("1\n1\n0\n0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(dir, false, solver.List{})
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected InputError for bad filename, got %v", err)
	}
}

func TestReportPercentError(t *testing.T) {
	entry := ReportEntry{Name: "x", Score: 90, BestKnown: 100}
	if got := entry.PercentError(); got != 10 {
		t.Errorf("expected 10%%, got %f", got)
	}

	unknown := ReportEntry{Name: "y", Score: 90}
	if got := unknown.PercentError(); got != 0 {
		t.Errorf("expected 0%% without a best known score, got %f", got)
	}

	report := NewReport("List")
	report.Entries = append(report.Entries, entry, unknown,
		ReportEntry{Name: "z", Score: 100, BestKnown: 100})
	if got := report.MeanPercentError(); got != 5 {
		t.Errorf("expected mean 5%%, got %f", got)
	}
	if got := report.TotalScore(); got != 280 {
		t.Errorf("expected total 280, got %d", got)
	}
}

func TestBenchStoreRecordAndQuery(t *testing.T) {
	store, err := OpenBenchStore(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	report := NewReport("List")
	report.Entries = append(report.Entries,
		ReportEntry{Name: "2_3_0.in", Score: 3, BestKnown: 3, Seconds: 0.01},
		ReportEntry{Name: "2_8_1_unit.in", Score: 8, BestKnown: 8, Seconds: 0.02},
	)

	runID, err := store.Record(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run id")
	}

	better := NewReport("List")
	better.Entries = append(better.Entries, ReportEntry{Name: "2_3_0.in", Score: 5})
	if _, err := store.Record(better); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	best, ok, err := store.BestScore("List", "2_3_0.in")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || best != 5 {
		t.Errorf("expected best 5, got %d ok=%v", best, ok)
	}

	if _, ok, _ := store.BestScore("VNS", "2_3_0.in"); ok {
		t.Error("expected no history for VNS")
	}
}

func TestGenerateInstances(t *testing.T) {
	dir := t.TempDir()
	opts := GenerateOptions{
		Processors:    3,
		Tasks:         6,
		MaxTime:       4,
		MaxWeight:     100,
		DeadlineRatio: 1.0,
		ConflictRatio: 0.5,
		Amount:        2,
		Seed:          11,
	}
	if err := Generate(opts, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"3_0_0.in", "3_0_1.in"} {
		handle, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
		instance, err := ReadInstance(handle)
		handle.Close()
		if err != nil {
			t.Fatalf("generated instance does not parse: %v", err)
		}

		if instance.Processors != 3 || len(instance.Tasks) != 6 {
			t.Errorf("unexpected shape %+v", instance)
		}
		// ceil(4 * 6 * 1.0 / 6) = 4.
		if instance.Deadline != 4 {
			t.Errorf("expected deadline 4, got %d", instance.Deadline)
		}
		for i, task := range instance.Tasks {
			if task.Time < 1 || task.Time > 4 {
				t.Errorf("task %d time %d out of range", i, task.Time)
			}
			if task.Weight < 1 || task.Weight > 100 {
				t.Errorf("task %d weight %d out of range", i, task.Weight)
			}
		}
	}
}

func TestGenerateUnitInstances(t *testing.T) {
	dir := t.TempDir()
	opts := GenerateOptions{
		Processors:    2,
		Tasks:         4,
		MaxTime:       3,
		MaxWeight:     10,
		DeadlineRatio: 1.0,
		ConflictRatio: 1.0,
		SameDuration:  true,
		Amount:        1,
		Seed:          5,
	}
	if err := Generate(opts, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handle, err := os.Open(filepath.Join(dir, "2_0_0_unit.in"))
	if err != nil {
		t.Fatalf("expected unit-suffixed file: %v", err)
	}
	defer handle.Close()

	instance, err := ReadInstance(handle)
	if err != nil {
		t.Fatalf("generated instance does not parse: %v", err)
	}
	for i, task := range instance.Tasks {
		if task.Time != 3 {
			t.Errorf("task %d: expected shared time 3, got %d", i, task.Time)
		}
	}
}

func writeInstanceFile(t *testing.T, dir, name string, instance *problem.Instance) {
	t.Helper()
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := WriteInstance(file, instance); err != nil {
		t.Fatal(err)
	}
}
