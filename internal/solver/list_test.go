package solver

import (
	"testing"

	"github.com/SamPanDonte/capacitated-scheduling-with-conflict-jobs/pkg/problem"
)

func TestListPrefersHighWeightedRatio(t *testing.T) {
	// Tasks 1 and 2 (ratio 10) beat task 0 (ratio 0.5) for the single
	// machine; only they fit before the deadline.
	instance := problem.NewInstanceNoConflict(1, 2, []problem.Task{
		{Time: 2, Weight: 1},
		{Time: 1, Weight: 10},
		{Time: 1, Weight: 10},
	})

	schedule, err := List{}.Schedule(instance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !schedule.Verify() {
		t.Fatal("schedule does not verify")
	}
	if schedule.Score() != 20 {
		t.Errorf("expected score 20, got %d", schedule.Score())
	}
	if schedule.Get(0) != nil {
		t.Errorf("expected task 0 tardy, got %+v", schedule.Get(0))
	}
	for task := 1; task <= 2; task++ {
		if schedule.Get(task) == nil {
			t.Errorf("expected task %d scheduled", task)
		}
	}
}

func TestListRoutesAroundConflicts(t *testing.T) {
	instance := problem.NewInstance(2, 10,
		[]problem.Task{{Time: 3, Weight: 9}, {Time: 3, Weight: 9}},
		[]problem.Conflict{problem.NewConflict(0, 1)},
	)

	schedule, err := List{}.Schedule(instance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !schedule.Verify() {
		t.Fatal("schedule does not verify")
	}
	if schedule.Score() != 18 {
		t.Errorf("expected both tasks scheduled for 18, got %d", schedule.Score())
	}

	a, b := schedule.Get(0), schedule.Get(1)
	if a == nil || b == nil {
		t.Fatal("expected both tasks placed")
	}
	if a.Start+3 > b.Start && b.Start+3 > a.Start {
		t.Errorf("expected disjoint intervals, got %+v and %+v", a, b)
	}
}

func TestListEmptyInstance(t *testing.T) {
	schedule, err := List{}.Schedule(problem.NewInstanceNoConflict(3, 5, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schedule.Score() != 0 {
		t.Errorf("expected score 0, got %d", schedule.Score())
	}
}
