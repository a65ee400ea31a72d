package problem

import "sort"

// ScheduleBuilder is the mutable working state shared by the heuristics: a
// schedule plus, for every machine, the sequence of tasks placed on it, and
// the list of tardy tasks. Start times are always derivable from the
// machine sequences; Reorganize re-derives them after a mutation.
//
// Partition invariant: every task index of the instance appears exactly
// once across all machine sequences and the tardy list.
type ScheduleBuilder struct {
	instance *Instance
	schedule *Schedule
	machines [][]int
	tardies  []int
}

// NewScheduleBuilder creates an empty builder for the instance.
func NewScheduleBuilder(instance *Instance) *ScheduleBuilder {
	return &ScheduleBuilder{
		instance: instance,
		schedule: NewSchedule(instance),
		machines: make([][]int, instance.Processors),
	}
}

// Clone deep-copies the builder so neighborhoods can mutate a candidate
// without touching the original.
func (b *ScheduleBuilder) Clone() *ScheduleBuilder {
	clone := &ScheduleBuilder{
		instance: b.instance,
		schedule: NewSchedule(b.instance),
		machines: make([][]int, len(b.machines)),
		tardies:  append([]int(nil), b.tardies...),
	}
	for task, info := range b.schedule.placed {
		if info != nil {
			clone.schedule.Set(task, *info)
		}
	}
	for i, tasks := range b.machines {
		clone.machines[i] = append([]int(nil), tasks...)
	}
	return clone
}

// Instance returns the problem being scheduled.
func (b *ScheduleBuilder) Instance() *Instance {
	return b.instance
}

// Schedule places a task at the end of a machine's sequence. The start time
// must respect the deadline and come after the machine's previous task.
func (b *ScheduleBuilder) Schedule(task int, start uint64, machine int) {
	b.schedule.Set(task, NewScheduleInfo(start, machine))
	b.machines[machine] = append(b.machines[machine], task)
}

// Get returns the placement of a task, or nil when tardy.
func (b *ScheduleBuilder) Get(task int) *ScheduleInfo {
	return b.schedule.Get(task)
}

// Tardy records a task as unscheduled. The task must not already be placed
// or tardy.
func (b *ScheduleBuilder) Tardy(task int) {
	b.tardies = append(b.tardies, task)
}

// Machines returns the number of machines.
func (b *ScheduleBuilder) Machines() int {
	return len(b.machines)
}

// MachineTasks returns how many tasks sit on the given machine.
func (b *ScheduleBuilder) MachineTasks(machine int) int {
	return len(b.machines[machine])
}

// Tardies returns the number of tardy tasks.
func (b *ScheduleBuilder) Tardies() int {
	return len(b.tardies)
}

// Score sums the weights of on-time tasks.
func (b *ScheduleBuilder) Score() uint64 {
	return b.schedule.Score()
}

// InConflict reports whether the task at the given start overlaps any
// scheduled conflicting task.
func (b *ScheduleBuilder) InConflict(task int, start uint64) bool {
	return b.schedule.InConflict(task, start)
}

// FreeTimes builds the (free, id) machine queue from the current machine
// sequences: a machine is free when its last task finishes.
func (b *ScheduleBuilder) FreeTimes() *MachineQueue {
	queue := &MachineQueue{machines: make([]Machine, 0, len(b.machines))}
	for id, tasks := range b.machines {
		machine := Machine{ID: id}
		if len(tasks) > 0 {
			last := tasks[len(tasks)-1]
			if info := b.schedule.Get(last); info != nil {
				machine.Free = info.Start + b.instance.Tasks[last].Time
			}
		}
		queue.machines = append(queue.machines, machine)
	}
	sort.Slice(queue.machines, func(i, j int) bool {
		return queue.machines[i].Less(queue.machines[j])
	})
	return queue
}

// NonConflictTime finds the earliest start not before minimum that avoids
// every conflict and meets the deadline. Candidates are the finish times of
// already placed conflicting tasks. The second result is false when no such
// start exists.
func (b *ScheduleBuilder) NonConflictTime(task int, minimum uint64) (uint64, bool) {
	taskTime := b.instance.Tasks[task].Time
	best, found := uint64(0), false
	for other := range b.instance.Graph.Conflicts(task) {
		info := b.schedule.Get(other)
		if info == nil {
			continue
		}
		at := info.Start + b.instance.Tasks[other].Time
		if at < minimum || at+taskTime > b.instance.Deadline {
			continue
		}
		if b.schedule.InConflict(task, at) {
			continue
		}
		if !found || at < best {
			best, found = at, true
		}
	}
	return best, found
}

// ReorganizeOp mutates the machine sequences and tardy list in place and
// returns which suffixes became dirty (machine, first index) and which
// tasks were forced tardy and need their placements cleared.
type ReorganizeOp func(machines [][]int, tardies []int) (dirty []MachineIndex, forcedTardy []int, newTardies []int)

// MachineIndex addresses a position inside one machine's sequence.
type MachineIndex struct {
	Machine int
	Index   int
}

// Reorganize applies the repair primitive: run the caller's mutation, clear
// the placements it invalidated, re-derive start times for every dirty
// suffix, then try to reinsert tardy tasks.
func (b *ScheduleBuilder) Reorganize(op ReorganizeOp) {
	dirty, forcedTardy, tardies := op(b.machines, b.tardies)
	b.tardies = tardies

	for _, task := range forcedTardy {
		b.schedule.Unset(task)
	}

	for _, d := range dirty {
		for _, task := range b.machines[d.Machine][d.Index:] {
			b.schedule.Unset(task)
		}
	}

	for _, d := range dirty {
		b.fixMachine(d.Machine, d.Index)
	}

	b.fixTardy()
}

// fixMachine re-derives start times for machines[machine][index:]. Tasks
// that no longer fit before the deadline move to the tardy list and drop
// out of the sequence.
func (b *ScheduleBuilder) fixMachine(machine, index int) {
	var free uint64
	if index > 0 {
		prev := b.machines[machine][index-1]
		if info := b.schedule.Get(prev); info != nil {
			free = info.Start + b.instance.Tasks[prev].Time
		}
	}

	for _, task := range b.machines[machine][index:] {
		processing := b.instance.Tasks[task].Time

		start, ok := uint64(0), false
		if b.schedule.InConflict(task, free) {
			start, ok = b.NonConflictTime(task, free)
		} else if free+processing <= b.instance.Deadline {
			start, ok = free, true
		}

		if ok {
			b.schedule.Set(task, NewScheduleInfo(start, machine))
			free = start + processing
		} else {
			b.tardies = append(b.tardies, task)
		}
	}

	kept := b.machines[machine][:0]
	for _, task := range b.machines[machine] {
		if b.schedule.Get(task) != nil {
			kept = append(kept, task)
		}
	}
	b.machines[machine] = kept
}

// fixTardy retries tardy tasks in weighted-ratio order against the machine
// queue; whatever still does not fit stays tardy.
func (b *ScheduleBuilder) fixTardy() {
	sort.Slice(b.tardies, func(i, j int) bool {
		a, c := b.tardies[i], b.tardies[j]
		return LessByWeightedRatio(
			TaskWithID{ID: a, Task: b.instance.Tasks[a]},
			TaskWithID{ID: c, Task: b.instance.Tasks[c]},
		)
	})

	machines := b.FreeTimes()
	tasks := b.tardies
	b.tardies = nil

	for _, task := range tasks {
		machine := machines.PopMin()

		start, ok := uint64(0), false
		if b.InConflict(task, machine.Free) {
			start, ok = b.NonConflictTime(task, machine.Free)
		} else if machine.Free+b.instance.Tasks[task].Time <= b.instance.Deadline {
			start, ok = machine.Free, true
		}

		if ok {
			b.Schedule(task, start, machine.ID)
			machine.Free = start + b.instance.Tasks[task].Time
		} else {
			b.Tardy(task)
		}

		machines.Push(machine)
	}
}

// IntoSchedule releases the finished schedule. The builder must not be used
// afterwards.
func (b *ScheduleBuilder) IntoSchedule() *Schedule {
	return b.schedule
}
