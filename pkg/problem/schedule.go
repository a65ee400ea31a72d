package problem

import "sort"

// ScheduleInfo is the placement of one task: which processor it runs on and
// when it starts.
type ScheduleInfo struct {
	Processor int
	Start     uint64
}

// NewScheduleInfo creates a placement.
func NewScheduleInfo(start uint64, processor int) ScheduleInfo {
	return ScheduleInfo{Processor: processor, Start: start}
}

// Schedule maps every task index of an instance to an optional placement.
// A missing placement means the task is tardy and contributes nothing to
// the score.
type Schedule struct {
	instance *Instance
	placed   []*ScheduleInfo
}

// NewSchedule creates an empty schedule for the instance.
func NewSchedule(instance *Instance) *Schedule {
	return &Schedule{
		instance: instance,
		placed:   make([]*ScheduleInfo, len(instance.Tasks)),
	}
}

// Instance returns the problem this schedule belongs to.
func (s *Schedule) Instance() *Instance {
	return s.instance
}

// Set places a task.
func (s *Schedule) Set(task int, info ScheduleInfo) {
	s.placed[task] = &info
}

// Unset removes a task's placement, marking it tardy.
func (s *Schedule) Unset(task int) {
	s.placed[task] = nil
}

// Get returns the placement of a task, or nil when the task is tardy.
func (s *Schedule) Get(task int) *ScheduleInfo {
	return s.placed[task]
}

// InConflict reports whether starting the task at the given time overlaps a
// scheduled conflicting task. Processors are irrelevant here: conflicts
// block tasks across all machines.
func (s *Schedule) InConflict(task int, start uint64) bool {
	taskTime := s.instance.Tasks[task].Time
	for other := range s.instance.Graph.Conflicts(task) {
		info := s.placed[other]
		if info == nil {
			continue
		}
		otherTime := s.instance.Tasks[other].Time
		if start < info.Start+otherTime && info.Start < start+taskTime {
			return true
		}
	}
	return false
}

// Score sums the weights of tasks that finish by the deadline.
func (s *Schedule) Score() uint64 {
	var score uint64
	for task, info := range s.placed {
		if info != nil && info.Start+s.instance.Tasks[task].Time <= s.instance.Deadline {
			score += s.instance.Tasks[task].Weight
		}
	}
	return score
}

// Verify checks the schedule invariants: no two tasks overlap on the same
// processor and no two conflicting tasks overlap on any pair of processors.
// Overrunning the deadline is allowed; such tasks simply score zero.
func (s *Schedule) Verify() bool {
	machines := make([]map[uint64]int, s.instance.Processors)
	for i := range machines {
		machines[i] = make(map[uint64]int)
	}

	for task, info := range s.placed {
		if info == nil {
			continue
		}
		machine := machines[info.Processor]
		if _, taken := machine[info.Start]; taken {
			return false
		}
		machine[info.Start] = task
	}

	for _, machine := range machines {
		starts := make([]uint64, 0, len(machine))
		for start := range machine {
			starts = append(starts, start)
		}
		sortUint64(starts)

		var lastEnd uint64
		for _, start := range starts {
			if start < lastEnd {
				return false
			}
			lastEnd = start + s.instance.Tasks[machine[start]].Time
		}
	}

	for task, info := range s.placed {
		if info != nil && s.InConflict(task, info.Start) {
			return false
		}
	}
	return true
}

func sortUint64(values []uint64) {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
}
