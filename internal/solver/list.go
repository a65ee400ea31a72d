package solver

import (
	"sort"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// buildList runs the greedy list scheduling pass and returns the working
// builder so other solvers (VNS) can start from it.
func buildList(instance *problem.Instance) *problem.ScheduleBuilder {
	builder := problem.NewScheduleBuilder(instance)
	machines := builder.FreeTimes()

	tasks := make([]problem.TaskWithID, len(instance.Tasks))
	for i, task := range instance.Tasks {
		tasks[i] = problem.TaskWithID{ID: i, Task: task}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return problem.LessByWeightedRatio(tasks[i], tasks[j])
	})

	for _, task := range tasks {
		machine := machines.PopMin()

		start, ok := uint64(0), false
		if builder.InConflict(task.ID, machine.Free) {
			start, ok = builder.NonConflictTime(task.ID, machine.Free)
		} else if machine.Free+task.Task.Time <= instance.Deadline {
			start, ok = machine.Free, true
		}

		if ok {
			builder.Schedule(task.ID, start, machine.ID)
			machine.Free = start + task.Task.Time
		} else {
			builder.Tardy(task.ID)
		}

		machines.Push(machine)
	}

	return builder
}

// List is the deterministic greedy baseline: tasks in weighted-ratio order,
// each placed on the next free machine at the earliest feasible time.
type List struct{}

// Name implements Scheduler.
func (List) Name() string { return "List" }

// SupportsNonUnit implements Scheduler.
func (List) SupportsNonUnit() bool { return true }

// MaxProcessors implements Scheduler.
func (List) MaxProcessors() int { return unlimited }

// Schedule implements Scheduler.
func (List) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	return buildList(instance).IntoSchedule(), nil
}
