package solver

import (
	"math/rand"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// Tresoldi is a random multistart heuristic over an explicit
// deadline x processors grid: greedy insertion, a local improvement swap
// with heavier unscheduled tasks, and a compaction pass that pulls tasks to
// earlier slots. Phases repeat until a full round changes nothing.
type Tresoldi struct {
	iterations int
	rng        *rand.Rand
}

// NewTresoldi creates the solver with the given restart count and seed.
func NewTresoldi(iterations int, seed uint64) *Tresoldi {
	return &Tresoldi{
		iterations: iterations,
		rng:        rand.New(rand.NewSource(int64(seed))),
	}
}

// Name implements Scheduler.
func (t *Tresoldi) Name() string { return "Tresoldi" }

// SupportsNonUnit implements Scheduler.
func (t *Tresoldi) SupportsNonUnit() bool { return true }

// MaxProcessors implements Scheduler.
func (t *Tresoldi) MaxProcessors() int { return unlimited }

// Schedule implements Scheduler.
func (t *Tresoldi) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	best := emptyGrid(instance)

	for i := 0; i < t.iterations; i++ {
		grid := randomGrid(instance, t.rng)

		for {
			inserted := grid.greedyInsert()
			improved := grid.localSearch()
			compacted := grid.compact()
			if !inserted && !improved && !compacted {
				break
			}
		}

		if grid.score > best.score {
			best = grid
		}
	}

	return best.intoSchedule(), nil
}

// gridPlacement locates a scheduled task on the grid.
type gridPlacement struct {
	machine int
	time    uint64
}

// grid is one restart's working state: a deadline x processors occupancy
// matrix (-1 for a free cell) plus the placement map. Task order is the
// restart's random permutation; every phase scans tasks in that order.
type grid struct {
	instance  *problem.Instance
	score     uint64
	tasks     []problem.TaskWithID
	matrix    [][]int
	scheduled map[int]gridPlacement
}

func emptyGrid(instance *problem.Instance) *grid {
	return &grid{instance: instance, scheduled: map[int]gridPlacement{}}
}

func randomGrid(instance *problem.Instance, rng *rand.Rand) *grid {
	tasks := make([]problem.TaskWithID, len(instance.Tasks))
	for i, task := range instance.Tasks {
		tasks[i] = problem.TaskWithID{ID: i, Task: task}
	}
	rng.Shuffle(len(tasks), func(i, j int) {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	})

	matrix := make([][]int, instance.Deadline)
	for i := range matrix {
		row := make([]int, instance.Processors)
		for j := range row {
			row[j] = -1
		}
		matrix[i] = row
	}

	return &grid{
		instance:  instance,
		tasks:     tasks,
		matrix:    matrix,
		scheduled: map[int]gridPlacement{},
	}
}

// greedyInsert fills every free cell, in row-major order, with the first
// unscheduled task that fits there without overlap or conflict.
func (g *grid) greedyInsert() bool {
	change := false

	for time := uint64(0); time < uint64(len(g.matrix)); time++ {
		for machine := 0; machine < g.instance.Processors; machine++ {
			if g.matrix[time][machine] != -1 {
				continue
			}
			for _, task := range g.tasks {
				if _, ok := g.scheduled[task.ID]; ok {
					continue
				}
				if !g.fits(time, machine, task) || !g.conflictFree(task, time) {
					continue
				}
				for instant := time; instant < time+task.Task.Time; instant++ {
					g.matrix[instant][machine] = task.ID
				}
				g.score += task.Task.Weight
				g.scheduled[task.ID] = gridPlacement{machine: machine, time: time}
				change = true
				break
			}
		}
	}

	return change
}

// localSearch swaps a scheduled task for an unscheduled one of strictly
// larger weight (or equal weight and shorter time) that fits in its hole.
func (g *grid) localSearch() bool {
	change := false

	for _, old := range g.tasks {
		place, ok := g.scheduled[old.ID]
		if !ok {
			continue
		}
		for _, task := range g.tasks {
			if _, ok := g.scheduled[task.ID]; ok {
				continue
			}

			better := task.Task.Weight > old.Task.Weight ||
				(task.Task.Weight == old.Task.Weight && task.Task.Time < old.Task.Time)
			if !better || !g.holeFits(old, task) || !g.conflictFree(task, place.time) {
				continue
			}

			for instant := place.time; instant < place.time+old.Task.Time; instant++ {
				g.matrix[instant][place.machine] = -1
			}
			for instant := place.time; instant < place.time+task.Task.Time; instant++ {
				g.matrix[instant][place.machine] = task.ID
			}

			g.score = g.score - old.Task.Weight + task.Task.Weight
			delete(g.scheduled, old.ID)
			g.scheduled[task.ID] = place
			change = true
			break
		}
	}

	return change
}

// compact moves every scheduled task to the earliest free run, on any
// machine, that starts before its current position. The search bound
// best_time + time - 1 is part of the documented contract.
func (g *grid) compact() bool {
	change := false

	for _, task := range g.tasks {
		place, ok := g.scheduled[task.ID]
		if !ok {
			continue
		}

		bestMachine := place.machine
		bestTime := place.time

		for machine := 0; machine < g.instance.Processors; machine++ {
			var free uint64

			for time := uint64(0); time < bestTime+task.Task.Time-1; time++ {
				if g.matrix[time][machine] != -1 {
					free = 0
					continue
				}
				free++
				if free == task.Task.Time && g.conflictFree(task, time+1-free) {
					bestTime = time - free + 1
					bestMachine = machine
				}
			}
		}

		if bestTime < place.time {
			for instant := place.time; instant < place.time+task.Task.Time; instant++ {
				g.matrix[instant][place.machine] = -1
			}
			for instant := bestTime; instant < bestTime+task.Task.Time; instant++ {
				g.matrix[instant][bestMachine] = task.ID
			}
			g.scheduled[task.ID] = gridPlacement{machine: bestMachine, time: bestTime}
			change = true
		}
	}

	return change
}

// fits reports whether the task's full run starting at time is inside the
// grid and free on the machine.
func (g *grid) fits(time uint64, machine int, task problem.TaskWithID) bool {
	if time+task.Task.Time > uint64(len(g.matrix)) {
		return false
	}
	for instant := time; instant < time+task.Task.Time; instant++ {
		if g.matrix[instant][machine] != -1 {
			return false
		}
	}
	return true
}

// conflictFree reports whether the task at the given start avoids every
// scheduled conflicting task.
func (g *grid) conflictFree(task problem.TaskWithID, time uint64) bool {
	for conflict := range g.instance.Graph.Conflicts(task.ID) {
		place, ok := g.scheduled[conflict]
		if !ok {
			continue
		}
		other := g.instance.Tasks[conflict]
		if time < place.time+other.Time && place.time < time+task.Task.Time {
			return false
		}
	}
	return true
}

// holeFits reports whether the replacement task fits in the hole left by
// the old one, extending past its end when longer.
func (g *grid) holeFits(old, task problem.TaskWithID) bool {
	if old.Task.Time >= task.Task.Time {
		return true
	}

	place := g.scheduled[old.ID]
	if place.time+task.Task.Time > uint64(len(g.matrix)) {
		return false
	}

	for instant := place.time + old.Task.Time; instant < place.time+task.Task.Time; instant++ {
		if g.matrix[instant][place.machine] != -1 {
			return false
		}
	}
	return true
}

func (g *grid) intoSchedule() *problem.Schedule {
	schedule := problem.NewSchedule(g.instance)
	for task, place := range g.scheduled {
		schedule.Set(task, problem.NewScheduleInfo(place.time, place.machine))
	}
	return schedule
}
