package ilp

import (
	"context"
	"fmt"
	"math"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// ILP2 is the time-indexed formulation: binary v_{j,t} starts job j at
// time t, with a cumulative capacity constraint at every instant.
type ILP2 struct {
	binding Binding
}

// NewILP2 creates the solver over the given binding.
func NewILP2(binding Binding) *ILP2 {
	return &ILP2{binding: binding}
}

// Name implements solver.Scheduler.
func (s *ILP2) Name() string { return "ILP2" }

// Available reports whether the external MIP solver can be located.
func (s *ILP2) Available() bool { return s.binding.Available() }

// SupportsNonUnit implements solver.Scheduler.
func (s *ILP2) SupportsNonUnit() bool { return true }

// MaxProcessors implements solver.Scheduler.
func (s *ILP2) MaxProcessors() int { return math.MaxInt }

// Schedule implements solver.Scheduler.
func (s *ILP2) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	if len(instance.Tasks) == 0 {
		return problem.NewSchedule(instance), nil
	}

	f := buildILP2(instance)
	solution, err := s.binding.solve(context.Background(), f.model)
	if err != nil {
		return nil, err
	}
	return f.decode(instance, solution), nil
}

// ilp2Formulation keeps the start variables for decoding; v[j] covers the
// start times [0, deadline - time_j].
type ilp2Formulation struct {
	model *model
	v     [][]int
}

func buildILP2(instance *problem.Instance) *ilp2Formulation {
	m := newModel("ILP2")
	tasks := instance.Tasks
	n := len(tasks)
	d := int(instance.Deadline)

	u := tardyVars(m, n)
	y := conflictVars(m, instance)

	v := make([][]int, n)
	for j, task := range tasks {
		for t := 0; t <= d-int(task.Time); t++ {
			v[j] = append(v[j], m.binary(fmt.Sprintf("v_%d_%d", j, t)))
		}
	}

	// Each job starts exactly once or is tardy.
	for j := 0; j < n; j++ {
		terms := make([]term, 0, len(v[j])+1)
		for _, vjt := range v[j] {
			terms = append(terms, term{coef: 1, v: vjt})
		}
		terms = append(terms, term{coef: 1, v: u[j]})
		m.constrain(fmt.Sprintf("c_0_%d", j), terms, "=", 1)
	}

	// Cumulative capacity: jobs running at time t never exceed the
	// processor count.
	for t := 0; t < d; t++ {
		var terms []term
		for j, task := range tasks {
			for _, vjs := range runningWindow(v[j], t, int(task.Time), d) {
				terms = append(terms, term{coef: 1, v: vjs})
			}
		}
		m.constrain(fmt.Sprintf("c_1_%d", t), terms, "<=", int64(instance.Processors))
	}

	// Conflict ordering via big-M on the start-time sums.
	for j, vars := range y {
		pj := int64(tasks[j].Time)
		for _, g := range sortedKeys(vars) {
			terms := make([]term, 0, len(v[j])+len(v[g])+2)
			for t, vjt := range v[j] {
				if t > 0 {
					terms = append(terms, term{coef: int64(t), v: vjt})
				}
			}
			terms = append(terms, term{coef: -pj, v: u[j]})
			terms = append(terms, term{coef: -int64(d), v: vars[g]})
			for t, vgt := range v[g] {
				if t > 0 {
					terms = append(terms, term{coef: -int64(t), v: vgt})
				}
			}
			m.constrain(fmt.Sprintf("c_2_%d_%d", j, g), terms, "<=", -pj)
		}
	}

	// Antisymmetry, once per unordered pair.
	for j, vars := range y {
		for _, g := range sortedKeys(vars) {
			if j < g {
				m.constrain(fmt.Sprintf("c_3_%d_%d", j, g), []term{
					{coef: 1, v: vars[g]},
					{coef: 1, v: y[g][j]},
				}, "<=", 1)
			}
		}
	}

	m.minimize(tardyObjective(u, tasks))

	return &ilp2Formulation{model: m, v: v}
}

// runningWindow returns the start variables of one job that imply the job
// is running at time t: starts in [max(0, t+1-p), min(t, d-p)].
func runningWindow(vj []int, t, p, d int) []int {
	from := t + 1 - p
	if from < 0 {
		from = 0
	}
	to := t
	if last := d - p; last < to {
		to = last
	}
	if from > to || to < 0 {
		return nil
	}
	return vj[from : to+1]
}

// decode walks time forward, placing every started job on a machine that
// is free by then.
func (f *ilp2Formulation) decode(instance *problem.Instance, solution map[string]float64) *problem.Schedule {
	schedule := problem.NewSchedule(instance)
	machines := problem.NewMachineQueue(instance.Processors)

	for t := 0; t < int(instance.Deadline); t++ {
		for j := range f.v {
			if t >= len(f.v[j]) || f.model.value(solution, f.v[j][t]) != 1 {
				continue
			}
			machine, ok := machines.FindFree(uint64(t))
			if !ok {
				panic(fmt.Sprintf("no machine free at time %d for job %d", t, j))
			}
			schedule.Set(j, problem.NewScheduleInfo(uint64(t), machine.ID))
			machine.Free = uint64(t) + instance.Tasks[j].Time
			machines.Push(machine)
		}
	}

	return schedule
}
