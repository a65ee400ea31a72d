package problem

import "testing"

func twoTaskInstance() *Instance {
	return NewInstance(2, 10,
		[]Task{{Time: 1, Weight: 1}, {Time: 2, Weight: 2}},
		[]Conflict{NewConflict(0, 1)},
	)
}

func TestScheduleScore(t *testing.T) {
	instance := twoTaskInstance()
	schedule := NewSchedule(instance)

	if schedule.Score() != 0 {
		t.Errorf("expected empty schedule to score 0, got %d", schedule.Score())
	}

	schedule.Set(0, NewScheduleInfo(0, 0))
	schedule.Set(1, NewScheduleInfo(1, 1))
	if schedule.Score() != 3 {
		t.Errorf("expected score 3, got %d", schedule.Score())
	}

	// A task finishing past the deadline counts zero.
	schedule.Set(1, NewScheduleInfo(9, 1))
	if schedule.Score() != 1 {
		t.Errorf("expected overrunning task to score 0, got total %d", schedule.Score())
	}

	schedule.Unset(0)
	if schedule.Score() != 0 {
		t.Errorf("expected score 0 after unset, got %d", schedule.Score())
	}
}

func TestScheduleInConflict(t *testing.T) {
	instance := twoTaskInstance()
	schedule := NewSchedule(instance)
	schedule.Set(1, NewScheduleInfo(2, 1))

	cases := []struct {
		start uint64
		want  bool
	}{
		{0, false}, // [0,1) before [2,4)
		{1, false}, // [1,2) touches but does not overlap
		{2, true},
		{3, true},
		{4, false}, // starts exactly at the other's finish
	}
	for _, tc := range cases {
		if got := schedule.InConflict(0, tc.start); got != tc.want {
			t.Errorf("InConflict(0, %d): expected %v, got %v", tc.start, tc.want, got)
		}
	}
}

func TestScheduleVerify(t *testing.T) {
	instance := twoTaskInstance()

	schedule := NewSchedule(instance)
	schedule.Set(0, NewScheduleInfo(0, 0))
	schedule.Set(1, NewScheduleInfo(1, 1))
	if !schedule.Verify() {
		t.Error("expected non-overlapping schedule to verify")
	}

	// Conflicting tasks overlapping across processors.
	schedule.Set(1, NewScheduleInfo(0, 1))
	if schedule.Verify() {
		t.Error("expected conflicting overlap to fail verify")
	}

	// Overlap on the same processor without a conflict edge.
	free := NewInstanceNoConflict(1, 10, []Task{{Time: 3, Weight: 1}, {Time: 1, Weight: 1}})
	schedule = NewSchedule(free)
	schedule.Set(0, NewScheduleInfo(0, 0))
	schedule.Set(1, NewScheduleInfo(2, 0))
	if schedule.Verify() {
		t.Error("expected same-machine overlap to fail verify")
	}

	schedule.Set(1, NewScheduleInfo(3, 0))
	if !schedule.Verify() {
		t.Error("expected back-to-back tasks to verify")
	}
}

func TestVerifyAllowsDeadlineOverrun(t *testing.T) {
	instance := NewInstanceNoConflict(1, 2, []Task{{Time: 5, Weight: 1}})
	schedule := NewSchedule(instance)
	schedule.Set(0, NewScheduleInfo(0, 0))

	if !schedule.Verify() {
		t.Error("expected overrunning task to still verify")
	}
	if schedule.Score() != 0 {
		t.Errorf("expected overrunning task to score 0, got %d", schedule.Score())
	}
}
