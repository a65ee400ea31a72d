package ilp

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// ILP1 is the position-indexed formulation: binary w_{j,k,l} assigns job j
// to position k of processor l, integer position starts chain in time, and
// big-M couplings tie job starts to their positions.
type ILP1 struct {
	binding Binding
}

// NewILP1 creates the solver over the given binding.
func NewILP1(binding Binding) *ILP1 {
	return &ILP1{binding: binding}
}

// Name implements solver.Scheduler.
func (s *ILP1) Name() string { return "ILP1" }

// Available reports whether the external MIP solver can be located.
func (s *ILP1) Available() bool { return s.binding.Available() }

// SupportsNonUnit implements solver.Scheduler.
func (s *ILP1) SupportsNonUnit() bool { return true }

// MaxProcessors implements solver.Scheduler.
func (s *ILP1) MaxProcessors() int { return math.MaxInt }

// Schedule implements solver.Scheduler.
func (s *ILP1) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	if len(instance.Tasks) == 0 {
		return problem.NewSchedule(instance), nil
	}

	f := buildILP1(instance)
	solution, err := s.binding.solve(context.Background(), f.model)
	if err != nil {
		return nil, err
	}
	return f.decode(instance, solution), nil
}

// ilp1Formulation keeps the variable indices needed for decoding.
type ilp1Formulation struct {
	model *model
	kMax  int
	w     [][][]int
	u     []int
	tau   []int
}

func buildILP1(instance *problem.Instance) *ilp1Formulation {
	m := newModel("ILP1")
	tasks := instance.Tasks
	n := len(tasks)
	processors := instance.Processors
	deadline := int64(instance.Deadline)
	kMax := positionCount(tasks, instance.Deadline)

	w := make([][][]int, n)
	for j := range w {
		w[j] = make([][]int, kMax)
		for k := range w[j] {
			w[j][k] = make([]int, processors)
			for l := range w[j][k] {
				w[j][k][l] = m.binary(fmt.Sprintf("w_%d_%d_%d", j, k, l))
			}
		}
	}
	u := tardyVars(m, n)
	y := conflictVars(m, instance)
	t := make([][]int, kMax)
	for k := range t {
		t[k] = make([]int, processors)
		for l := range t[k] {
			t[k][l] = m.integer(fmt.Sprintf("t_%d_%d", k, l))
		}
	}
	tau := make([]int, n)
	for j := range tau {
		tau[j] = m.integer(fmt.Sprintf("p_%d", j))
	}

	// Each job takes exactly one position or is tardy.
	for j := 0; j < n; j++ {
		terms := make([]term, 0, kMax*processors+1)
		for k := 0; k < kMax; k++ {
			for l := 0; l < processors; l++ {
				terms = append(terms, term{coef: 1, v: w[j][k][l]})
			}
		}
		terms = append(terms, term{coef: 1, v: u[j]})
		m.constrain(fmt.Sprintf("c_0_%d", j), terms, "=", 1)
	}

	// At most one job per position.
	for k := 0; k < kMax; k++ {
		for l := 0; l < processors; l++ {
			terms := make([]term, 0, n)
			for j := 0; j < n; j++ {
				terms = append(terms, term{coef: 1, v: w[j][k][l]})
			}
			m.constrain(fmt.Sprintf("c_1_%d_%d", k, l), terms, "<=", 1)
		}
	}

	// Positions chain in time: t_{k,l} + sum_j p_j w_{j,k,l} <= t_{k+1,l}.
	for k := 0; k+1 < kMax; k++ {
		for l := 0; l < processors; l++ {
			terms := []term{{coef: 1, v: t[k][l]}}
			for j, task := range tasks {
				terms = append(terms, term{coef: int64(task.Time), v: w[j][k][l]})
			}
			terms = append(terms, term{coef: -1, v: t[k+1][l]})
			m.constrain(fmt.Sprintf("c_2_%d_%d", k, l), terms, "<=", 0)
		}
	}

	// Every position finishes by the deadline.
	for k := 0; k < kMax; k++ {
		for l := 0; l < processors; l++ {
			terms := []term{{coef: 1, v: t[k][l]}}
			for j, task := range tasks {
				terms = append(terms, term{coef: int64(task.Time), v: w[j][k][l]})
			}
			m.constrain(fmt.Sprintf("c_3_%d_%d", k, l), terms, "<=", deadline)
		}
	}

	// Big-M coupling of job starts to their position starts, both ways:
	// tau_j >= t_{k,l} - D(1 - w) and t_{k,l} >= tau_j - D(1 - w).
	for j := 0; j < n; j++ {
		for k := 0; k < kMax; k++ {
			for l := 0; l < processors; l++ {
				m.constrain(fmt.Sprintf("c_4_%d_%d_%d", j, k, l), []term{
					{coef: 1, v: tau[j]},
					{coef: -deadline, v: w[j][k][l]},
					{coef: -1, v: t[k][l]},
				}, ">=", -deadline)
				m.constrain(fmt.Sprintf("c_5_%d_%d_%d", j, k, l), []term{
					{coef: 1, v: t[k][l]},
					{coef: -deadline, v: w[j][k][l]},
					{coef: -1, v: tau[j]},
				}, ">=", -deadline)
			}
		}
	}

	// Conflict ordering: tau_j + p_j(1 - u_j) - D y_{j,g} <= tau_g.
	for j, vars := range y {
		for _, g := range sortedKeys(vars) {
			m.constrain(fmt.Sprintf("c_6_%d_%d", j, g), []term{
				{coef: 1, v: tau[j]},
				{coef: -int64(tasks[j].Time), v: u[j]},
				{coef: -deadline, v: vars[g]},
				{coef: -1, v: tau[g]},
			}, "<=", -int64(tasks[j].Time))
		}
	}

	// Antisymmetry of the ordering flags.
	for j, vars := range y {
		for _, g := range sortedKeys(vars) {
			m.constrain(fmt.Sprintf("c_7_%d_%d", j, g), []term{
				{coef: 1, v: vars[g]},
				{coef: 1, v: y[g][j]},
			}, "<=", 1)
		}
	}

	m.minimize(tardyObjective(u, tasks))

	return &ilp1Formulation{model: m, kMax: kMax, w: w, u: u, tau: tau}
}

func (f *ilp1Formulation) decode(instance *problem.Instance, solution map[string]float64) *problem.Schedule {
	schedule := problem.NewSchedule(instance)

	for j := range instance.Tasks {
	positions:
		for k := 0; k < f.kMax; k++ {
			for l := 0; l < instance.Processors; l++ {
				if f.model.value(solution, f.w[j][k][l]) == 1 {
					start := uint64(f.model.value(solution, f.tau[j]))
					schedule.Set(j, problem.NewScheduleInfo(start, l))
					break positions
				}
			}
		}
	}

	return schedule
}

// positionCount bounds the usable positions per processor: no more than n
// jobs, no more than deadline divided by the shortest processing time.
func positionCount(tasks []problem.Task, deadline uint64) int {
	minTime := tasks[0].Time
	for _, task := range tasks {
		if task.Time < minTime {
			minTime = task.Time
		}
	}
	bound := int(deadline / minTime)
	if len(tasks) < bound {
		return len(tasks)
	}
	return bound
}

func tardyVars(m *model, n int) []int {
	u := make([]int, n)
	for j := range u {
		u[j] = m.binary(fmt.Sprintf("u_%d", j))
	}
	return u
}

// conflictVars creates one ordering flag per directed conflict pair.
func conflictVars(m *model, instance *problem.Instance) []map[int]int {
	y := make([]map[int]int, len(instance.Tasks))
	for j := range y {
		y[j] = make(map[int]int)
		for _, g := range sortedConflicts(instance, j) {
			y[j][g] = m.binary(fmt.Sprintf("y_%d_%d", j, g))
		}
	}
	return y
}

func tardyObjective(u []int, tasks []problem.Task) []term {
	terms := make([]term, len(u))
	for j, v := range u {
		terms[j] = term{coef: int64(tasks[j].Weight), v: v}
	}
	return terms
}

func sortedConflicts(instance *problem.Instance, task int) []int {
	conflicts := instance.Graph.Conflicts(task)
	keys := make([]int, 0, len(conflicts))
	for g := range conflicts {
		keys = append(keys, g)
	}
	sort.Ints(keys)
	return keys
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
