// Package seed holds the static bootstrap datasets used by reset-to-seed and
// the price heuristics used by first-run plan derivation. IDs are fixed
// strings so a reset is reproducible.
package seed

import (
	"time"

	"gymcore/pkg/domain"
)

var seededAt = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// Members returns the seed member roster.
func Members() []domain.Member {
	return []domain.Member{
		{
			ID:             "seed-member-1",
			Name:           "Alice Nguyen",
			Email:          "alice@example.com",
			Phone:          "555-0101",
			MembershipType: "Basic",
			Status:         domain.MemberStatusActive,
			JoinDate:       seededAt,
			LastVisit:      seededAt,
		},
		{
			ID:             "seed-member-2",
			Name:           "Marcus Webb",
			Email:          "marcus@example.com",
			Phone:          "555-0102",
			MembershipType: "Premium",
			Status:         domain.MemberStatusActive,
			JoinDate:       seededAt,
			LastVisit:      seededAt,
		},
	}
}

// Classes returns the seed class schedule. The class starts with an empty
// roster so enrollment scenarios begin from zero.
func Classes() []domain.Class {
	return []domain.Class{
		{
			ID:          "seed-class-1",
			Name:        "Morning HIIT",
			Instructors: []string{"Dana Cole"},
			Capacity:    2,
			Enrolled:    0,
			Students:    []string{},
		},
	}
}

// Equipment returns the seed equipment inventory.
func Equipment() []domain.EquipmentItem {
	return []domain.EquipmentItem{
		{ID: "seed-equipment-1", Name: "Treadmill", Category: "cardio", Quantity: 4, Condition: "good"},
		{ID: "seed-equipment-2", Name: "Kettlebell Set", Category: "free weights", Quantity: 10, Condition: "new"},
	}
}

// Incidents returns the seed incident log.
func Incidents() []domain.IncidentItem {
	return []domain.IncidentItem{
		{
			ID:         "seed-incident-1",
			Title:      "Slippery floor near pool",
			Severity:   "low",
			Status:     domain.IncidentStatusReported,
			ReportedBy: "Dana Cole",
			OccurredAt: seededAt,
		},
	}
}

// Waivers returns the seed waiver records.
func Waivers() []domain.WaiverItem {
	signed := seededAt
	return []domain.WaiverItem{
		{ID: "seed-waiver-1", MemberName: "Alice Nguyen", Email: "alice@example.com", Status: domain.WaiverStatusSigned, SignedAt: &signed},
		{ID: "seed-waiver-2", MemberName: "Marcus Webb", Email: "marcus@example.com", Status: domain.WaiverStatusPending},
	}
}

// Staff returns the seed staff roster.
func Staff() []domain.StaffMember {
	return []domain.StaffMember{
		{ID: "seed-staff-1", Name: "Dana Cole", Role: "trainer", Email: "dana@example.com", Classes: 1},
		{ID: "seed-staff-2", Name: "Priya Patel", Role: "front desk", Email: "priya@example.com"},
	}
}

// Payments returns the seed payment history.
func Payments() []domain.PaymentItem {
	return []domain.PaymentItem{
		{ID: "seed-payment-1", MemberID: "seed-member-1", Amount: 29.99, Method: "card", PaidAt: seededAt},
		{ID: "seed-payment-2", MemberID: "seed-member-2", Amount: 49.99, Method: "card", PaidAt: seededAt},
	}
}

// Plans returns the seed membership plans.
func Plans() []domain.MembershipPlan {
	return []domain.MembershipPlan{
		{
			ID:          "seed-plan-1",
			Name:        "Basic",
			Price:       29.99,
			Interval:    "monthly",
			Description: "Gym floor access during staffed hours",
			Status:      domain.PlanStatusActive,
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
		{
			ID:          "seed-plan-2",
			Name:        "Premium",
			Price:       49.99,
			Interval:    "monthly",
			Description: "Floor access plus classes",
			Status:      domain.PlanStatusActive,
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
		{
			ID:          "seed-plan-3",
			Name:        "VIP",
			Price:       99.99,
			Interval:    "monthly",
			Description: "All access with personal training credits",
			Status:      domain.PlanStatusActive,
			CreatedAt:   seededAt,
			UpdatedAt:   seededAt,
		},
	}
}

// DefaultPlanPrice is used when deriving a plan from a membership type with no
// entry in PlanPrices.
const DefaultPlanPrice = 39.99

// PlanPrices maps well-known membership type names to heuristic prices for
// first-run plan derivation.
func PlanPrices() map[string]float64 {
	return map[string]float64{
		"Basic":   29.99,
		"Premium": 49.99,
		"VIP":     99.99,
	}
}
