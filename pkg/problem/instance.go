package problem

// Instance is one problem: a processor count, a global deadline, the task
// list, and the conflict graph over task indices. Instances are read-only
// after construction; solvers never mutate them.
type Instance struct {
	// Processors is the number of identical machines, at least 1.
	Processors int
	// Deadline is the global completion deadline.
	Deadline uint64
	// Tasks is the ordered task list; indices into it identify tasks
	// everywhere else in the model.
	Tasks []Task
	// Graph holds the pairwise conflicts.
	Graph ConflictGraph
}

// NewInstance assembles an instance from its parts.
func NewInstance(processors int, deadline uint64, tasks []Task, conflicts []Conflict) *Instance {
	return &Instance{
		Processors: processors,
		Deadline:   deadline,
		Tasks:      tasks,
		Graph:      NewConflictGraph(conflicts),
	}
}

// NewInstanceNoConflict builds an instance with an empty conflict graph.
func NewInstanceNoConflict(processors int, deadline uint64, tasks []Task) *Instance {
	return NewInstance(processors, deadline, tasks, nil)
}
