package core

import (
	"context"
	"testing"

	"gymcore/pkg/domain"
)

func TestStatsAggregatesAcrossEntities(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	active, err := svc.AddMember(ctx, Member{Name: "A"})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := svc.AddMember(ctx, Member{Name: "B"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	suspended := domain.MemberStatusSuspended
	if _, err := svc.AddMember(ctx, Member{Name: "C"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	members := svc.Members()
	if _, err := svc.UpdateMember(ctx, members[2].ID, domain.MemberUpdate{Status: &suspended}); err != nil {
		t.Fatalf("suspend member: %v", err)
	}

	cls, err := svc.AddClass(ctx, Class{Name: "Spin", Capacity: 5})
	if err != nil {
		t.Fatalf("add class: %v", err)
	}
	if _, err := svc.Enroll(ctx, cls.ID, active.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := svc.AddEquipment(ctx, EquipmentItem{Name: "Rower", Quantity: 2}); err != nil {
		t.Fatalf("add equipment: %v", err)
	}
	if _, err := svc.AddIncident(ctx, IncidentItem{Title: "open one"}); err != nil {
		t.Fatalf("add incident: %v", err)
	}
	resolvedInc, err := svc.AddIncident(ctx, IncidentItem{Title: "closed one"})
	if err != nil {
		t.Fatalf("add incident: %v", err)
	}
	resolved := domain.IncidentStatusResolved
	if _, err := svc.UpdateIncident(ctx, resolvedInc.ID, domain.IncidentUpdate{Status: &resolved}); err != nil {
		t.Fatalf("resolve incident: %v", err)
	}

	if _, err := svc.AddWaiver(ctx, WaiverItem{MemberName: "A"}); err != nil {
		t.Fatalf("add waiver: %v", err)
	}
	archived, err := svc.AddWaiver(ctx, WaiverItem{MemberName: "B"})
	if err != nil {
		t.Fatalf("add waiver: %v", err)
	}
	if _, err := svc.ArchiveWaiver(ctx, archived.ID); err != nil {
		t.Fatalf("archive waiver: %v", err)
	}

	if _, err := svc.AddStaff(ctx, StaffMember{Name: "Coach"}); err != nil {
		t.Fatalf("add staff: %v", err)
	}
	if _, err := svc.AddPayment(ctx, PaymentItem{MemberID: active.ID, Amount: 10}); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if _, err := svc.AddPlan(ctx, MembershipPlan{Name: "Basic", Price: 29.99}); err != nil {
		t.Fatalf("add plan: %v", err)
	}

	got := svc.Stats()
	want := Stats{
		TotalMembers:     3,
		ActiveMembers:    2,
		SuspendedMembers: 1,
		TotalClasses:     1,
		TotalEnrolled:    1,
		TotalCapacity:    5,
		EquipmentItems:   1,
		OpenIncidents:    1,
		PendingWaivers:   1,
		ActiveStaff:      1,
		Payments:         1,
		Plans:            1,
	}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
}

func TestStatsOnEmptyService(t *testing.T) {
	svc := newTestService(t)
	if got := svc.Stats(); got != (Stats{}) {
		t.Fatalf("stats on empty service = %+v", got)
	}
}
