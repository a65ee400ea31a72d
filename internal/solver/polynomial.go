package solver

import (
	"fmt"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/internal/matching"
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// PolynomialTime solves unit-time instances on two processors exactly by
// reducing to maximum-weight maximum-cardinality matching: compatible task
// pairs share a time slot, a dummy partner lets a task run alone, and drop
// vertices absorb the surplus when more tasks exist than slots.
type PolynomialTime struct{}

// Name implements Scheduler.
func (PolynomialTime) Name() string { return "PolynomialTime" }

// SupportsNonUnit implements Scheduler.
func (PolynomialTime) SupportsNonUnit() bool { return false }

// MaxProcessors implements Scheduler.
func (PolynomialTime) MaxProcessors() int { return 2 }

// UpperBound estimates the best achievable score for a unit-time instance
// with more than two processors: the two-processor relaxation is solved
// exactly and its score scaled by processors/2.
func (p PolynomialTime) UpperBound(instance *problem.Instance) (uint64, error) {
	relaxed := *instance
	relaxed.Processors = 2

	schedule, err := p.Schedule(&relaxed)
	if err != nil {
		return 0, err
	}
	return schedule.Score() * uint64(instance.Processors) / 2, nil
}

// Schedule implements Scheduler. It returns a PreconditionError when the
// instance does not have exactly two processors or has tasks of differing
// duration.
func (PolynomialTime) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	if len(instance.Tasks) == 0 {
		return problem.NewSchedule(instance), nil
	}

	if instance.Processors != 2 {
		return nil, &PreconditionError{Reason: "only two machines are supported"}
	}

	unit := instance.Tasks[0].Time
	for _, task := range instance.Tasks {
		if task.Time != unit {
			return nil, &PreconditionError{Reason: "all tasks must have the same processing time"}
		}
	}

	graph := &matching.Graph{}
	n := len(instance.Tasks)

	for first, task := range instance.Tasks {
		for second := first + 1; second < n; second++ {
			if !instance.Graph.AreConflicted(first, second) {
				weight := int64(task.Weight) + int64(instance.Tasks[second].Weight)
				graph.AddEdge(first, second, weight)
			}
		}
	}

	for i, task := range instance.Tasks {
		graph.AddEdge(i, n+i, int64(task.Weight))
	}

	slots := int(instance.Deadline / unit)
	if n > slots {
		for q := 0; q < (n-slots)*2; q++ {
			for i := 0; i < n*2; i++ {
				graph.AddEdge(i, n*2+q, 0)
			}
		}
	}

	mate := matching.Match(graph, true)

	schedule := problem.NewSchedule(instance)
	var current uint64
	for task := 0; task < n; task++ {
		paired := mate[task]
		if paired == -1 {
			panic(fmt.Sprintf("matching must be perfect, vertex %d unmatched", task))
		}
		if task < paired && paired < 2*n {
			schedule.Set(task, problem.NewScheduleInfo(current, 0))
			if paired < n {
				schedule.Set(paired, problem.NewScheduleInfo(current, 1))
			}
			current += unit
		}
	}

	return schedule, nil
}
