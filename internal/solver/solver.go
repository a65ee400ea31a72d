// Package solver contains the scheduling strategies. Every solver is a
// pure function from an instance to a schedule; determinism is guaranteed
// for a fixed seed.
package solver

import (
	"fmt"
	"math"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// Scheduler produces a schedule for an instance.
type Scheduler interface {
	// Name identifies the solver in the CLI and in reports.
	Name() string
	// Schedule solves the instance. Implementations never recover from
	// failures internally; errors short-circuit to the caller.
	Schedule(instance *problem.Instance) (*problem.Schedule, error)
	// SupportsNonUnit reports whether the solver accepts instances with
	// differing processing times.
	SupportsNonUnit() bool
	// MaxProcessors is the largest processor count the solver handles.
	MaxProcessors() int
}

// PreconditionError reports a solver invoked outside its applicability
// domain, such as the polynomial-time solver on non-unit tasks.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated: %s", e.Reason)
}

// Options carries the tunable parameters shared by the registry factories.
type Options struct {
	// Seed drives every randomized solver.
	Seed uint64
	// Generations is the genetic algorithm's generation count.
	Generations int
	// TresoldiIterations is the number of multistart restarts.
	TresoldiIterations int
	// VNSIterations is the number of shaking rounds.
	VNSIterations int
}

// DefaultOptions returns the parameter defaults the solvers were tuned
// with.
func DefaultOptions() Options {
	return Options{
		Generations:        800,
		TresoldiIterations: 10,
		VNSIterations:      10,
	}
}

// Entry pairs a solver name with its factory, forming the registration
// table the CLI enumerates.
type Entry struct {
	Name string
	New  func(Options) Scheduler
}

// Builtin returns the registration table of the in-process solvers, in the
// order they appear in reports.
func Builtin() []Entry {
	return []Entry{
		{Name: "List", New: func(Options) Scheduler { return List{} }},
		{Name: "PolynomialTime", New: func(Options) Scheduler { return PolynomialTime{} }},
		{Name: "Genetic", New: func(o Options) Scheduler { return NewGenetic(o.Seed, o.Generations) }},
		{Name: "Tresoldi", New: func(o Options) Scheduler { return NewTresoldi(o.TresoldiIterations, o.Seed) }},
		{Name: "VNS", New: func(o Options) Scheduler { return NewVNS(o.VNSIterations, o.Seed) }},
	}
}

const unlimited = math.MaxInt
