package data

import (
	"errors"
	"strings"
	"testing"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

func TestInstanceRoundTrip(t *testing.T) {
	instance := problem.NewInstance(3, 42,
		[]problem.Task{{Time: 2, Weight: 7}, {Time: 1, Weight: 3}, {Time: 5, Weight: 9}},
		[]problem.Conflict{problem.NewConflict(2, 0), problem.NewConflict(1, 2)},
	)

	var b strings.Builder
	if err := WriteInstance(&b, instance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ReadInstance(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Processors != 3 || parsed.Deadline != 42 {
		t.Errorf("expected 3 processors, deadline 42, got %d and %d", parsed.Processors, parsed.Deadline)
	}
	if len(parsed.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(parsed.Tasks))
	}
	for i, task := range instance.Tasks {
		if parsed.Tasks[i] != task {
			t.Errorf("task %d: expected %+v, got %+v", i, task, parsed.Tasks[i])
		}
	}
	for _, pair := range [][2]int{{0, 2}, {1, 2}} {
		if !parsed.Graph.AreConflicted(pair[0], pair[1]) {
			t.Errorf("expected conflict %v to survive the round trip", pair)
		}
	}
	if parsed.Graph.AreConflicted(0, 1) {
		t.Error("unexpected conflict 0-1 after round trip")
	}
}

func TestWriteInstanceShape(t *testing.T) {
	instance := problem.NewInstance(2, 10,
		[]problem.Task{{Time: 1, Weight: 1}, {Time: 2, Weight: 2}},
		[]problem.Conflict{problem.NewConflict(1, 0)},
	)

	var b strings.Builder
	if err := WriteInstance(&b, instance); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "2\n10\n2\n1 1\n2 2\n1\n0 1\n"
	if b.String() != expected {
		t.Errorf("expected %q, got %q", expected, b.String())
	}
}

func TestReadInstanceErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"zero processors", "0\n10\n0\n0\n"},
		{"garbage token", "two\n10\n0\n0\n"},
		{"missing task fields", "2\n10\n1\n5\n"},
		{"zero task time", "2\n10\n1\n0 5\n0\n"},
		{"conflict out of range", "2\n10\n1\n1 1\n1\n0 7\n"},
		{"self conflict", "2\n10\n2\n1 1\n1 1\n1\n1 1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadInstance(strings.NewReader(tc.input))
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("expected InputError, got %v", err)
			}
		})
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	instance := problem.NewInstanceNoConflict(2, 10,
		[]problem.Task{{Time: 1, Weight: 1}, {Time: 2, Weight: 2}, {Time: 1, Weight: 4}})

	schedule := problem.NewSchedule(instance)
	schedule.Set(0, problem.NewScheduleInfo(3, 1))
	schedule.Set(2, problem.NewScheduleInfo(0, 0))

	var b strings.Builder
	if err := WriteSchedule(&b, schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.String() != "1 3\n-\n0 0\n" {
		t.Errorf("unexpected encoding %q", b.String())
	}

	parsed, err := ReadSchedule(strings.NewReader(b.String()), instance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for task := range instance.Tasks {
		a, b := schedule.Get(task), parsed.Get(task)
		if (a == nil) != (b == nil) {
			t.Fatalf("task %d: placement lost in round trip", task)
		}
		if a != nil && *a != *b {
			t.Errorf("task %d: expected %+v, got %+v", task, a, b)
		}
	}
}

func TestReadScheduleErrors(t *testing.T) {
	instance := problem.NewInstanceNoConflict(2, 10, []problem.Task{{Time: 1, Weight: 1}})

	for _, input := range []string{"", "5 0\n", "0\n", "0 x\n"} {
		_, err := ReadSchedule(strings.NewReader(input), instance)
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("input %q: expected InputError, got %v", input, err)
		}
	}
}
