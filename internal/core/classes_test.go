package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gymcore/pkg/domain"
)

func TestAddClassForcesEmptyRoster(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.AddClass(ctx, Class{
		Name:     "Spin",
		Capacity: 10,
		Enrolled: 7,
		Students: []string{"smuggled-1", "smuggled-2"},
	})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	if created.Enrolled != 0 || len(created.Students) != 0 {
		t.Fatalf("roster must start empty, got enrolled=%d students=%v", created.Enrolled, created.Students)
	}
}

func TestEnrollAndUnenroll(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	class, err := svc.AddClass(ctx, Class{Name: "Yoga", Capacity: 2})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}

	got, err := svc.Enroll(ctx, class.ID, "m1")
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if got.Enrolled != 1 || len(got.Students) != 1 {
		t.Fatalf("enrolled=%d students=%v", got.Enrolled, got.Students)
	}

	// Enrolling the same member again is a no-op, not an error.
	got, err = svc.Enroll(ctx, class.ID, "m1")
	if err != nil {
		t.Fatalf("repeat enroll: %v", err)
	}
	if got.Enrolled != 1 {
		t.Fatalf("repeat enroll changed roster: %d", got.Enrolled)
	}

	got, err = svc.Unenroll(ctx, class.ID, "m1")
	if err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if got.Enrolled != 0 || len(got.Students) != 0 {
		t.Fatalf("unenroll left roster: enrolled=%d students=%v", got.Enrolled, got.Students)
	}

	// Unenrolling an absent member is a no-op.
	if _, err := svc.Unenroll(ctx, class.ID, "ghost"); err != nil {
		t.Fatalf("unenroll absent member: %v", err)
	}
}

func TestEnrollBlocksAtCapacity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	class, err := svc.AddClass(ctx, Class{Name: "HIIT", Capacity: 2})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := svc.Enroll(ctx, class.ID, id); err != nil {
			t.Fatalf("enroll %s: %v", id, err)
		}
	}

	_, err = svc.Enroll(ctx, class.ID, "c")
	var rve RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "is full") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	// The rejected enrollment left nothing behind.
	got, _ := svc.GetClass(class.ID)
	if got.Enrolled != 2 {
		t.Fatalf("rejected enroll mutated roster: %d", got.Enrolled)
	}
}

func TestEnrollOverCapacityWithPolicyFlag(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	on := true
	if _, err := svc.UpdateSettings(ctx, domain.SettingsUpdate{AllowOverEnrollment: &on}); err != nil {
		t.Fatalf("settings: %v", err)
	}

	class, err := svc.AddClass(ctx, Class{Name: "HIIT", Capacity: 1})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.Enroll(ctx, class.ID, id); err != nil {
			t.Fatalf("enroll %s with over-enrollment on: %v", id, err)
		}
	}
	got, _ := svc.GetClass(class.ID)
	if got.Enrolled != 3 {
		t.Fatalf("enrolled = %d, want 3", got.Enrolled)
	}

	// Turning the flag off blocks further enrollment but leaves the
	// over-capacity roster readable and mutable downward.
	off := false
	if _, err := svc.UpdateSettings(ctx, domain.SettingsUpdate{AllowOverEnrollment: &off}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if _, err := svc.Enroll(ctx, class.ID, "d"); err == nil {
		t.Fatalf("expected enrollment to block after flag cleared")
	}
	if _, err := svc.Unenroll(ctx, class.ID, "a"); err != nil {
		t.Fatalf("unenroll from over-capacity class: %v", err)
	}
}

func TestUpdateClassShrinkingCapacityBelowRoster(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	class, err := svc.AddClass(ctx, Class{Name: "Pilates", Capacity: 3})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := svc.Enroll(ctx, class.ID, id); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	one := 1
	_, err = svc.UpdateClass(ctx, class.ID, domain.ClassUpdate{Capacity: &one})
	if err == nil {
		t.Fatalf("expected capacity shrink below roster to block")
	}
	if !IsRejection(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	got, _ := svc.GetClass(class.ID)
	if got.Capacity != 3 {
		t.Fatalf("rejected update persisted: capacity %d", got.Capacity)
	}
}
