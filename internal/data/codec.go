// Package data handles the problem's external surfaces: the instance and
// schedule text formats, benchmark discovery and reporting, the bench
// history store, and random instance generation.
package data

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

// InputError reports malformed instance or schedule input.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func inputErrorf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// tokenReader yields whitespace-delimited tokens, one primitive per call.
type tokenReader struct {
	scanner *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &tokenReader{scanner: scanner}
}

func (t *tokenReader) uint64(what string) (uint64, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return 0, fmt.Errorf("read %s: %w", what, err)
		}
		return 0, inputErrorf("missing %s", what)
	}
	value, err := strconv.ParseUint(t.scanner.Text(), 10, 64)
	if err != nil {
		return 0, inputErrorf("%s: %q is not a number", what, t.scanner.Text())
	}
	return value, nil
}

func (t *tokenReader) int(what string) (int, error) {
	value, err := t.uint64(what)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// ReadInstance parses the instance text format: processors, deadline, the
// task count followed by time/weight pairs, then the conflict count
// followed by index pairs.
func ReadInstance(r io.Reader) (*problem.Instance, error) {
	tokens := newTokenReader(r)

	processors, err := tokens.int("processors")
	if err != nil {
		return nil, err
	}
	if processors < 1 {
		return nil, inputErrorf("processors must be at least 1")
	}

	deadline, err := tokens.uint64("deadline")
	if err != nil {
		return nil, err
	}

	count, err := tokens.int("task count")
	if err != nil {
		return nil, err
	}
	tasks := make([]problem.Task, count)
	for i := range tasks {
		time, err := tokens.uint64(fmt.Sprintf("task %d time", i))
		if err != nil {
			return nil, err
		}
		if time < 1 {
			return nil, inputErrorf("task %d time must be at least 1", i)
		}
		weight, err := tokens.uint64(fmt.Sprintf("task %d weight", i))
		if err != nil {
			return nil, err
		}
		tasks[i] = problem.Task{Time: time, Weight: weight}
	}

	conflictCount, err := tokens.int("conflict count")
	if err != nil {
		return nil, err
	}
	conflicts := make([]problem.Conflict, conflictCount)
	for i := range conflicts {
		from, err := tokens.int(fmt.Sprintf("conflict %d from", i))
		if err != nil {
			return nil, err
		}
		to, err := tokens.int(fmt.Sprintf("conflict %d to", i))
		if err != nil {
			return nil, err
		}
		if from >= count || to >= count {
			return nil, inputErrorf("conflict %d references unknown task", i)
		}
		if from == to {
			return nil, inputErrorf("conflict %d pairs task %d with itself", i, from)
		}
		conflicts[i] = problem.NewConflict(from, to)
	}

	return problem.NewInstance(processors, deadline, tasks, conflicts), nil
}

// WriteInstance emits the canonical encoding: one primitive per line,
// sequences as a length followed by their elements, conflicts once per
// unordered pair with from < to.
func WriteInstance(w io.Writer, instance *problem.Instance) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%d\n%d\n%d\n", instance.Processors, instance.Deadline, len(instance.Tasks))
	for _, task := range instance.Tasks {
		fmt.Fprintf(&b, "%d %d\n", task.Time, task.Weight)
	}

	edges := instance.Graph.Edges()
	fmt.Fprintf(&b, "%d\n", len(edges))
	for _, edge := range edges {
		fmt.Fprintf(&b, "%d %d\n", edge.From, edge.To)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ReadSchedule parses a schedule for the instance: one line per task,
// either "-" for tardy or "processor start".
func ReadSchedule(r io.Reader, instance *problem.Instance) (*problem.Schedule, error) {
	schedule := problem.NewSchedule(instance)
	scanner := bufio.NewScanner(r)

	for task := range instance.Tasks {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read schedule: %w", err)
			}
			return nil, inputErrorf("missing placement for task %d", task)
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "-" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, inputErrorf("task %d: expected \"processor start\", got %q", task, line)
		}
		processor, err := strconv.Atoi(fields[0])
		if err != nil || processor < 0 || processor >= instance.Processors {
			return nil, inputErrorf("task %d: bad processor %q", task, fields[0])
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, inputErrorf("task %d: bad start %q", task, fields[1])
		}
		schedule.Set(task, problem.NewScheduleInfo(start, processor))
	}

	return schedule, nil
}

// WriteSchedule emits one line per task: "-" for tardy tasks, otherwise
// the processor and start time.
func WriteSchedule(w io.Writer, schedule *problem.Schedule) error {
	var b strings.Builder

	for task := range schedule.Instance().Tasks {
		if info := schedule.Get(task); info == nil {
			b.WriteString("-\n")
		} else {
			fmt.Fprintf(&b, "%d %d\n", info.Processor, info.Start)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
