package solver

import (
	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// neighborhood lazily enumerates candidate builders; next returns nil once
// the neighborhood is exhausted. Every candidate is a repaired clone, so
// the source builder is never touched.
type neighborhood interface {
	next() *problem.ScheduleBuilder
}

type neighborhoodFactory func(*problem.ScheduleBuilder) neighborhood

// neighborhoods lists the six move generators in descent order.
var neighborhoods = []neighborhoodFactory{
	newSwapSingleMachine,
	newMoveSingleMachine,
	newSwapTwoMachines,
	newMoveTwoMachines,
	newReplaceWithTardy,
	newAddTardy,
}

// swapSingleMachine swaps two positions i < j within one machine.
type swapSingleMachine struct {
	schedule *problem.ScheduleBuilder
	machine  int
	i, j     int
}

func newSwapSingleMachine(schedule *problem.ScheduleBuilder) neighborhood {
	return &swapSingleMachine{schedule: schedule, i: 0, j: 1}
}

func (n *swapSingleMachine) next() *problem.ScheduleBuilder {
	for n.machine < n.schedule.Machines() {
		for n.i+1 < n.schedule.MachineTasks(n.machine) {
			if n.j < n.schedule.MachineTasks(n.machine) {
				machine, i, j := n.machine, n.i, n.j
				builder := n.schedule.Clone()
				builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
					machines[machine][i], machines[machine][j] = machines[machine][j], machines[machine][i]
					return []problem.MachineIndex{{Machine: machine, Index: i}}, nil, tardies
				})
				n.j++
				return builder
			}
			n.i++
			n.j = n.i + 1
		}
		n.machine++
		n.i, n.j = 0, 1
	}
	return nil
}

// moveSingleMachine removes position i and reinserts it at j on the same
// machine.
type moveSingleMachine struct {
	schedule *problem.ScheduleBuilder
	machine  int
	i, j     int
}

func newMoveSingleMachine(schedule *problem.ScheduleBuilder) neighborhood {
	return &moveSingleMachine{schedule: schedule, i: 0, j: 1}
}

func (n *moveSingleMachine) next() *problem.ScheduleBuilder {
	for n.machine < n.schedule.Machines() {
		for n.i < n.schedule.MachineTasks(n.machine) {
			if n.j < n.schedule.MachineTasks(n.machine) {
				if n.j == n.i {
					n.j++
					continue
				}
				machine, i, j := n.machine, n.i, n.j
				builder := n.schedule.Clone()
				builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
					task := machines[machine][i]
					machines[machine] = append(machines[machine][:i], machines[machine][i+1:]...)
					machines[machine] = insertAt(machines[machine], j, task)
					at := i
					if j < at {
						at = j
					}
					return []problem.MachineIndex{{Machine: machine, Index: at}}, nil, tardies
				})
				n.j++
				return builder
			}
			n.i++
			n.j = 0
		}
		n.machine++
		n.i, n.j = 0, 1
	}
	return nil
}

// swapTwoMachines swaps position i on one machine with position j on a
// later machine.
type swapTwoMachines struct {
	schedule      *problem.ScheduleBuilder
	first, second int
	i, j          int
}

func newSwapTwoMachines(schedule *problem.ScheduleBuilder) neighborhood {
	return &swapTwoMachines{schedule: schedule, second: 1}
}

func (n *swapTwoMachines) next() *problem.ScheduleBuilder {
	for n.first+1 < n.schedule.Machines() {
		for n.second < n.schedule.Machines() {
			for n.i < n.schedule.MachineTasks(n.first) {
				if n.j < n.schedule.MachineTasks(n.second) {
					first, second, i, j := n.first, n.second, n.i, n.j
					builder := n.schedule.Clone()
					builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
						machines[first][i], machines[second][j] = machines[second][j], machines[first][i]
						return []problem.MachineIndex{
							{Machine: first, Index: i},
							{Machine: second, Index: j},
						}, nil, tardies
					})
					n.j++
					return builder
				}
				n.i++
				n.j = 0
			}
			n.second++
			n.i, n.j = 0, 0
		}
		n.first++
		n.second = n.first + 1
	}
	return nil
}

// moveTwoMachines removes position i from one machine and inserts it at
// position j on another; j may equal the target's length (append).
type moveTwoMachines struct {
	schedule      *problem.ScheduleBuilder
	first, second int
	i, j          int
}

func newMoveTwoMachines(schedule *problem.ScheduleBuilder) neighborhood {
	return &moveTwoMachines{schedule: schedule}
}

func (n *moveTwoMachines) next() *problem.ScheduleBuilder {
	for n.first < n.schedule.Machines() {
		for n.second < n.schedule.Machines() {
			if n.second == n.first {
				n.second++
				continue
			}
			for n.i < n.schedule.MachineTasks(n.first) {
				if n.j <= n.schedule.MachineTasks(n.second) {
					first, second, i, j := n.first, n.second, n.i, n.j
					builder := n.schedule.Clone()
					builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
						task := machines[first][i]
						machines[first] = append(machines[first][:i], machines[first][i+1:]...)
						machines[second] = insertAt(machines[second], j, task)
						return []problem.MachineIndex{
							{Machine: first, Index: i},
							{Machine: second, Index: j},
						}, nil, tardies
					})
					n.j++
					return builder
				}
				n.i++
				n.j = 0
			}
			n.second++
			n.i, n.j = 0, 0
		}
		n.first++
		n.second, n.i, n.j = 0, 0, 0
	}
	return nil
}

// replaceWithTardy exchanges a scheduled task with a tardy one.
type replaceWithTardy struct {
	schedule *problem.ScheduleBuilder
	machine  int
	i, j     int
}

func newReplaceWithTardy(schedule *problem.ScheduleBuilder) neighborhood {
	return &replaceWithTardy{schedule: schedule}
}

func (n *replaceWithTardy) next() *problem.ScheduleBuilder {
	for n.machine < n.schedule.Machines() {
		for n.i < n.schedule.MachineTasks(n.machine) {
			if n.j < n.schedule.Tardies() {
				machine, i, j := n.machine, n.i, n.j
				builder := n.schedule.Clone()
				builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
					machines[machine][i], tardies[j] = tardies[j], machines[machine][i]
					return []problem.MachineIndex{{Machine: machine, Index: i}},
						[]int{tardies[j]}, tardies
				})
				n.j++
				return builder
			}
			n.i++
			n.j = 0
		}
		n.machine++
		n.i, n.j = 0, 0
	}
	return nil
}

// addTardy inserts a tardy task at some position of some machine; the
// insertion index may equal the machine's length.
type addTardy struct {
	schedule *problem.ScheduleBuilder
	machine  int
	i, j     int
}

func newAddTardy(schedule *problem.ScheduleBuilder) neighborhood {
	return &addTardy{schedule: schedule}
}

func (n *addTardy) next() *problem.ScheduleBuilder {
	for n.machine < n.schedule.Machines() {
		for n.i <= n.schedule.MachineTasks(n.machine) {
			if n.j < n.schedule.Tardies() {
				machine, i, j := n.machine, n.i, n.j
				builder := n.schedule.Clone()
				builder.Reorganize(func(machines [][]int, tardies []int) ([]problem.MachineIndex, []int, []int) {
					machines[machine] = insertAt(machines[machine], i, tardies[j])
					tardies = append(tardies[:j], tardies[j+1:]...)
					return []problem.MachineIndex{{Machine: machine, Index: i}}, nil, tardies
				})
				n.j++
				return builder
			}
			n.i++
			n.j = 0
		}
		n.machine++
		n.i, n.j = 0, 0
	}
	return nil
}

func insertAt(s []int, at, value int) []int {
	s = append(s, 0)
	copy(s[at+1:], s[at:])
	s[at] = value
	return s
}
