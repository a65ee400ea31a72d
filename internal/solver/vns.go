package solver

import (
	"math/rand"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// VNS is a variable neighborhood search: local descent through the six
// neighborhoods, restarted from shaken copies of the incumbent. Descent
// starts from the list schedule.
type VNS struct {
	iterations int
	rng        *rand.Rand
}

// NewVNS creates the solver with the given shaking rounds and seed.
func NewVNS(iterations int, seed uint64) *VNS {
	return &VNS{
		iterations: iterations,
		rng:        rand.New(rand.NewSource(int64(seed))),
	}
}

// Name implements Scheduler.
func (v *VNS) Name() string { return "VNS" }

// SupportsNonUnit implements Scheduler.
func (v *VNS) SupportsNonUnit() bool { return true }

// MaxProcessors implements Scheduler.
func (v *VNS) MaxProcessors() int { return unlimited }

// Schedule implements Scheduler.
func (v *VNS) Schedule(instance *problem.Instance) (*problem.Schedule, error) {
	if len(instance.Tasks) == 0 {
		return problem.NewSchedule(instance), nil
	}

	builder := localDescent(buildList(instance))
	bestScore := builder.Score()

	relocations := len(instance.Tasks) / 20
	if relocations < 1 {
		relocations = 1
	}

	for i := 0; i < v.iterations; i++ {
		candidate := builder.Clone()

		for r := 0; r < relocations; r++ {
			v.relocateRandom(candidate, instance)
		}

		candidate = localDescent(candidate)
		if score := candidate.Score(); score > bestScore {
			bestScore = score
			builder = candidate
		}
	}

	return builder.IntoSchedule(), nil
}

// relocateRandom removes one random task from wherever it sits (a machine
// sequence or the tardy list) and inserts it at a random position of a
// random machine, repairing afterwards.
func (v *VNS) relocateRandom(candidate *problem.ScheduleBuilder, instance *problem.Instance) {
	task := v.rng.Intn(len(instance.Tasks))
	taskMachine := -1
	if info := candidate.Get(task); info != nil {
		taskMachine = info.Processor
	}

	candidate.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
		fixings := make([]problem.MachineIndex, 0, 2)

		if taskMachine >= 0 {
			if pos := indexOf(machines[taskMachine], task); pos >= 0 {
				fixings = append(fixings, problem.MachineIndex{Machine: taskMachine, Index: pos})
				machines[taskMachine] = append(machines[taskMachine][:pos], machines[taskMachine][pos+1:]...)
			}
		} else {
			if pos := indexOf(tardies, task); pos >= 0 {
				tardies = append(tardies[:pos], tardies[pos+1:]...)
			}
		}

		newMachine := v.rng.Intn(instance.Processors)
		newPosition := v.rng.Intn(len(machines[newMachine]) + 1)
		machines[newMachine] = insertAt(machines[newMachine], newPosition, task)

		if taskMachine == newMachine && len(fixings) > 0 {
			if newPosition < fixings[0].Index {
				fixings[0].Index = newPosition
			}
		} else {
			fixings = append(fixings, problem.MachineIndex{Machine: newMachine, Index: newPosition})
		}

		return fixings, nil, tardies
	})
}

func indexOf(s []int, value int) int {
	for i, v := range s {
		if v == value {
			return i
		}
	}
	return -1
}

// localDescent runs best-improvement descent: whenever a neighborhood
// yields a strictly better candidate, accept it and restart from the first
// neighborhood; stop once all six are exhausted without improvement.
func localDescent(builder *problem.ScheduleBuilder) *problem.ScheduleBuilder {
	k := 0
	for k < len(neighborhoods) {
		bestScore := builder.Score()
		var best *problem.ScheduleBuilder

		generator := neighborhoods[k](builder)
		for candidate := generator.next(); candidate != nil; candidate = generator.next() {
			if score := candidate.Score(); score > bestScore {
				bestScore = score
				best = candidate
			}
		}

		if best != nil {
			builder = best
			k = 0
		} else {
			k++
		}
	}
	return builder
}
