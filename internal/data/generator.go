package data

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// GenerateOptions parameterizes random instance generation.
type GenerateOptions struct {
	// Processors is the machine count, at least 1.
	Processors int
	// Tasks is the number of tasks per instance.
	Tasks int
	// MaxTime is the largest processing time; with SameDuration set it is
	// the shared processing time.
	MaxTime uint64
	// MaxWeight is the largest task weight.
	MaxWeight uint64
	// DeadlineRatio scales the deadline:
	// ceil(max_time * tasks * ratio / (2 * processors)).
	DeadlineRatio float64
	// ConflictRatio divides the pair count: ceil(pairs / ratio) task pairs
	// conflict, capped at every pair, so a ratio of 1.0 or less (or any
	// ratio not above zero) conflicts every pair.
	ConflictRatio float64
	// SameDuration gives all tasks the same processing time.
	SameDuration bool
	// Amount is how many instances to generate.
	Amount int
	// Seed drives the generator.
	Seed uint64
}

// Generate writes Amount random instances into the output directory,
// creating it when missing. Filenames follow the benchmark shape with a
// zero best-known score: <processors>_0_<i>[_unit].in.
func Generate(opts GenerateOptions, output string) error {
	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rng := rand.New(rand.NewSource(int64(opts.Seed)))

	for i := 0; i < opts.Amount; i++ {
		instance := problem.NewInstance(
			opts.Processors,
			computeDeadline(opts),
			generateTasks(rng, opts),
			generateConflicts(rng, opts.Tasks, opts.ConflictRatio),
		)

		suffix := ""
		if opts.SameDuration {
			suffix = "_unit"
		}
		name := fmt.Sprintf("%d_0_%d%s.in", opts.Processors, i, suffix)

		file, err := os.Create(filepath.Join(output, name))
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if err := WriteInstance(file, instance); err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}

func computeDeadline(opts GenerateOptions) uint64 {
	total := float64(opts.MaxTime) * float64(opts.Tasks) * opts.DeadlineRatio
	return uint64(math.Ceil(total / float64(opts.Processors*2)))
}

func generateTasks(rng *rand.Rand, opts GenerateOptions) []problem.Task {
	tasks := make([]problem.Task, opts.Tasks)
	for i := range tasks {
		time := opts.MaxTime
		if !opts.SameDuration {
			time = 1 + uint64(rng.Int63n(int64(opts.MaxTime)))
		}
		tasks[i] = problem.Task{
			Time:   time,
			Weight: 1 + uint64(rng.Int63n(int64(opts.MaxWeight))),
		}
	}
	return tasks
}

// generateConflicts samples ceil(all/ratio) of the unordered task pairs,
// capped at the full pair count.
func generateConflicts(rng *rand.Rand, tasks int, ratio float64) []problem.Conflict {
	all := tasks * (tasks - 1) / 2
	if all == 0 {
		return nil
	}

	required := all
	if ratio > 0 {
		if needed := int(math.Ceil(float64(all) / ratio)); needed < all {
			required = needed
		}
	}

	pairs := make([]problem.Conflict, 0, all)
	for i := 0; i < tasks; i++ {
		for j := i + 1; j < tasks; j++ {
			pairs = append(pairs, problem.NewConflict(i, j))
		}
	}

	picked := rng.Perm(all)[:required]
	conflicts := make([]problem.Conflict, required)
	for i, index := range picked {
		conflicts[i] = pairs[index]
	}
	return conflicts
}
