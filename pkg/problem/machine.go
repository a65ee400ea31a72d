package problem

import "sort"

// Machine is a processor together with the time it becomes free. Machines
// order by (free, id) so "next free machine" is well defined even on ties.
type Machine struct {
	ID   int
	Free uint64
}

// NewMachine creates a machine that is free at time 0.
func NewMachine(id int) Machine {
	return Machine{ID: id}
}

// Less reports whether m comes before other in (free, id) order.
func (m Machine) Less(other Machine) bool {
	if m.Free != other.Free {
		return m.Free < other.Free
	}
	return m.ID < other.ID
}

// MachineQueue is a priority structure over machines ordered by (free, id).
// It backs every "pop the next free machine, maybe push it back" loop in
// the solvers. The zero value is an empty queue.
type MachineQueue struct {
	machines []Machine
}

// NewMachineQueue creates a queue of n machines, all free at time 0.
func NewMachineQueue(n int) *MachineQueue {
	machines := make([]Machine, n)
	for i := range machines {
		machines[i] = NewMachine(i)
	}
	return &MachineQueue{machines: machines}
}

// Len returns the number of queued machines.
func (q *MachineQueue) Len() int {
	return len(q.machines)
}

// PopMin removes and returns the machine with the smallest (free, id).
// It must not be called on an empty queue.
func (q *MachineQueue) PopMin() Machine {
	machine := q.machines[0]
	q.machines = q.machines[1:]
	return machine
}

// Push inserts a machine, keeping the queue sorted.
func (q *MachineQueue) Push(machine Machine) {
	at := sort.Search(len(q.machines), func(i int) bool {
		return machine.Less(q.machines[i])
	})
	q.machines = append(q.machines, Machine{})
	copy(q.machines[at+1:], q.machines[at:])
	q.machines[at] = machine
}

// FirstFits reports whether the earliest machine could still start a task
// of the given processing time within the deadline. False on an empty
// queue.
func (q *MachineQueue) FirstFits(taskTime, deadline uint64) bool {
	if len(q.machines) == 0 {
		return false
	}
	return q.machines[0].Free+taskTime <= deadline
}

// FindFree returns the first machine in (free, id) order that is free at or
// before the given time, removing it from the queue. The second result is
// false when no machine qualifies.
func (q *MachineQueue) FindFree(at uint64) (Machine, bool) {
	for i, machine := range q.machines {
		if machine.Free <= at {
			q.machines = append(q.machines[:i], q.machines[i+1:]...)
			return machine, true
		}
	}
	return Machine{}, false
}
