package solver

import (
	"math/rand"
	"sort"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// Genetic is a permutation genetic algorithm: chromosomes are task orders,
// decoded greedily onto the machines. The crossover/mutation cadence inside
// a generation is part of the tuned contract and must not change.
type Genetic struct {
	generations int
	rng         *rand.Rand
}

// NewGenetic creates the solver with a fixed seed and generation count.
func NewGenetic(seed uint64, generations int) *Genetic {
	return &Genetic{
		generations: generations,
		rng:         rand.New(rand.NewSource(int64(seed))),
	}
}

// Name implements Scheduler.
func (g *Genetic) Name() string { return "Genetic" }

// SupportsNonUnit implements Scheduler.
func (g *Genetic) SupportsNonUnit() bool { return true }

// MaxProcessors implements Scheduler.
func (g *Genetic) MaxProcessors() int { return unlimited }

// Schedule implements Scheduler.
func (g *Genetic) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	n := len(instance.Tasks)
	if n == 0 {
		return problem.NewSchedule(instance), nil
	}
	if n == 1 {
		return decodePermutation([]int{0}, instance), nil
	}

	population := make([]*chromosome, 0, n*2)
	for i := 0; i < n; i++ {
		population = append(population, newChromosome(g.rng.Perm(n), instance))
	}
	sortPopulation(population)

	for generation := 0; generation < g.generations; generation++ {
		for i := 0; i < n/3; i++ {
			if i%3 == 0 {
				first := population[g.rng.Intn(n)]
				second := population[g.rng.Intn(n)]
				population = append(population, crossover(first, second, instance))
			}

			parent := population[g.rng.Intn(n)]
			population = append(population, parent.mutate(g.rng, instance))
		}

		sortPopulation(population)
		population = population[:n]
	}

	return decodePermutation(population[0].permutation, instance), nil
}

// chromosome is a permutation together with its decoded score.
type chromosome struct {
	permutation []int
	score       uint64
}

func newChromosome(permutation []int, instance *problem.Instance) *chromosome {
	return &chromosome{
		permutation: permutation,
		score:       decodePermutation(permutation, instance).Score(),
	}
}

// decodePermutation walks the permutation, placing each task on the next
// free machine after every conflicting placed task, skipping tasks that
// cannot finish before the deadline.
func decodePermutation(permutation []int, instance *problem.Instance) *problem.Schedule {
	schedule := problem.NewSchedule(instance)
	machines := problem.NewMachineQueue(instance.Processors)
	deadline := instance.Deadline

	for _, index := range permutation {
		task := instance.Tasks[index]

		if !machines.FirstFits(task.Time, deadline) {
			continue
		}
		machine := machines.PopMin()

		start := machine.Free
		for conflict := range instance.Graph.Conflicts(index) {
			info := schedule.Get(conflict)
			if info == nil {
				continue
			}
			finish := info.Start + instance.Tasks[conflict].Time
			if finish >= machine.Free && finish > start {
				start = finish
			}
		}

		if start+task.Time <= deadline {
			schedule.Set(index, problem.NewScheduleInfo(start, machine.ID))
			machine.Free = start + task.Time
		}

		machines.Push(machine)
	}

	return schedule
}

// crossover builds a child by alternately taking the next still-unused task
// from each parent, preserving relative order within both.
func crossover(first, second *chromosome, instance *problem.Instance) *chromosome {
	n := len(first.permutation)
	permutation := make([]int, 0, n)
	missing := make([]bool, n)
	for i := range missing {
		missing[i] = true
	}

	take := func(parent []int, at int) int {
		for at < n {
			next := parent[at]
			at++
			if missing[next] {
				permutation = append(permutation, next)
				missing[next] = false
				break
			}
		}
		return at
	}

	var firstAt, secondAt int
	for round := 0; round < (n+1)/2; round++ {
		firstAt = take(first.permutation, firstAt)
		secondAt = take(second.permutation, secondAt)
	}

	return newChromosome(permutation, instance)
}

// mutate swaps two distinct random positions.
func (c *chromosome) mutate(rng *rand.Rand, instance *problem.Instance) *chromosome {
	permutation := append([]int(nil), c.permutation...)

	first := rng.Intn(len(permutation))
	second := rng.Intn(len(permutation) - 1)
	if second >= first {
		second++
	}
	permutation[first], permutation[second] = permutation[second], permutation[first]

	return newChromosome(permutation, instance)
}

// sortPopulation orders by score descending, then permutation
// lexicographically, keeping the comparison total and the GA deterministic.
func sortPopulation(population []*chromosome) {
	sort.Slice(population, func(i, j int) bool {
		a, b := population[i], population[j]
		if a.score != b.score {
			return a.score > b.score
		}
		for k := range a.permutation {
			if a.permutation[k] != b.permutation[k] {
				return a.permutation[k] < b.permutation[k]
			}
		}
		return false
	})
}
