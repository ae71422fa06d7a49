package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gymcore/pkg/domain"
)

func TestDemoQuotaCapsCreates(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		entity EntityType
		limit  int
		label  string
		add    func(svc *Service, i int) error
	}{
		{EntityMember, 3, "members", func(svc *Service, i int) error {
			_, err := svc.AddMember(ctx, Member{Name: fmt.Sprintf("m%d", i), MembershipType: "Basic"})
			return err
		}},
		{EntityClass, 1, "classes", func(svc *Service, i int) error {
			_, err := svc.AddClass(ctx, Class{Name: fmt.Sprintf("c%d", i), Capacity: 5})
			return err
		}},
		{EntityEquipment, 3, "equipment items", func(svc *Service, i int) error {
			_, err := svc.AddEquipment(ctx, EquipmentItem{Name: fmt.Sprintf("e%d", i), Quantity: 1})
			return err
		}},
		{EntityIncident, 5, "incidents", func(svc *Service, i int) error {
			_, err := svc.AddIncident(ctx, IncidentItem{Title: fmt.Sprintf("i%d", i)})
			return err
		}},
		{EntityWaiver, 5, "waivers", func(svc *Service, i int) error {
			_, err := svc.AddWaiver(ctx, WaiverItem{MemberName: fmt.Sprintf("w%d", i)})
			return err
		}},
		{EntityStaff, 3, "staff members", func(svc *Service, i int) error {
			_, err := svc.AddStaff(ctx, StaffMember{Name: fmt.Sprintf("s%d", i)})
			return err
		}},
		{EntityPayment, 10, "payments", func(svc *Service, i int) error {
			_, err := svc.AddPayment(ctx, PaymentItem{Amount: float64(i)})
			return err
		}},
		{EntityPlan, 3, "membership plans", func(svc *Service, i int) error {
			_, err := svc.AddPlan(ctx, MembershipPlan{Name: fmt.Sprintf("p%d", i), Price: 10})
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(string(tc.entity), func(t *testing.T) {
			svc := newTestService(t)
			enableDemoMode(t, svc)

			for i := 0; i < tc.limit; i++ {
				if err := tc.add(svc, i); err != nil {
					t.Fatalf("add %d within quota: %v", i, err)
				}
			}
			err := tc.add(svc, tc.limit)
			var rve RuleViolationError
			if !errors.As(err, &rve) {
				t.Fatalf("expected quota violation, got %v", err)
			}
			want := fmt.Sprintf("demo mode allows at most %d %s", tc.limit, tc.label)
			if err.Error() != want {
				t.Fatalf("message = %q, want %q", err.Error(), want)
			}
		})
	}
}

func TestDemoQuotaIgnoresNonCreateMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	// Fill past the demo cap while demo mode is off, then switch it on.
	var last Member
	for i := 0; i < 5; i++ {
		m, err := svc.AddMember(ctx, Member{Name: fmt.Sprintf("m%d", i), MembershipType: "Basic"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		last = m
	}
	enableDemoMode(t, svc)

	// Updates and deletes on the oversized collection still go through.
	name := "renamed"
	if _, err := svc.UpdateMember(ctx, last.ID, domain.MemberUpdate{Name: &name}); err != nil {
		t.Fatalf("update blocked by quota: %v", err)
	}
	if err := svc.RemoveMember(ctx, last.ID); err != nil {
		t.Fatalf("remove blocked by quota: %v", err)
	}
}

func TestDemoQuotaCountsActiveWaiversOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	enableDemoMode(t, svc)

	var ids []string
	for i := 0; i < 5; i++ {
		w, err := svc.AddWaiver(ctx, WaiverItem{MemberName: fmt.Sprintf("w%d", i)})
		if err != nil {
			t.Fatalf("add waiver: %v", err)
		}
		ids = append(ids, w.ID)
	}
	if _, err := svc.AddWaiver(ctx, WaiverItem{MemberName: "blocked"}); err == nil {
		t.Fatalf("expected waiver quota to block")
	}

	// Archiving frees a slot: the cap counts the active view.
	if _, err := svc.ArchiveWaiver(ctx, ids[0]); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := svc.AddWaiver(ctx, WaiverItem{MemberName: "fits now"}); err != nil {
		t.Fatalf("add after archive: %v", err)
	}
}

func TestDemoQuotaOffByDefault(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 10; i++ {
		if _, err := svc.AddMember(ctx, Member{Name: fmt.Sprintf("m%d", i), MembershipType: "Basic"}); err != nil {
			t.Fatalf("add %d without demo mode: %v", i, err)
		}
	}
	if got := len(svc.Members()); got != 10 {
		t.Fatalf("expected 10 members, got %d", got)
	}
}
