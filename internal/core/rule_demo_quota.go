package core

import (
	"context"
	"fmt"

	"gymcore/pkg/domain"
)

// Demo-mode collection caps. Fixed at build time, not configurable at runtime.
// Waivers and staff are capped on their active (non-archived) counts, matching
// what the UI shows.
var demoQuotas = map[EntityType]int{
	EntityMember:    3,
	EntityClass:     1,
	EntityEquipment: 3,
	EntityIncident:  5,
	EntityWaiver:    5,
	EntityStaff:     3,
	EntityPayment:   10,
	EntityPlan:      3,
}

var quotaLabels = map[EntityType]string{
	EntityMember:    "members",
	EntityClass:     "classes",
	EntityEquipment: "equipment items",
	EntityIncident:  "incidents",
	EntityWaiver:    "waivers",
	EntityStaff:     "staff members",
	EntityPayment:   "payments",
	EntityPlan:      "membership plans",
}

// demoQuota returns the demo-mode cap for an entity kind.
func demoQuota(entity EntityType) (int, bool) {
	limit, ok := demoQuotas[entity]
	return limit, ok
}

// NewDemoQuotaRule returns the rule enforcing demo-mode collection caps on
// create operations.
func NewDemoQuotaRule() domain.Rule {
	return demoQuotaRule{}
}

type demoQuotaRule struct{}

func (demoQuotaRule) Name() string { return "demo_quota" }

func (demoQuotaRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	if !view.Settings().DemoMode {
		return res, nil
	}
	// Only creates count against quotas: toggling demo mode on over an
	// already-full collection must not block unrelated mutations.
	created := make(map[EntityType]bool)
	for _, change := range changes {
		if change.Action == ActionCreate {
			created[change.Entity] = true
		}
	}
	for entity := range created {
		limit, ok := demoQuotas[entity]
		if !ok {
			continue
		}
		if count := quotaCount(view, entity); count > limit {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "demo_quota",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("demo mode allows at most %d %s", limit, quotaLabels[entity]),
				Entity:   entity,
			})
		}
	}
	return res, nil
}

// quotaCount measures the candidate collection size the quota applies to.
func quotaCount(view domain.RuleView, entity EntityType) int {
	switch entity {
	case EntityMember:
		return len(view.ListMembers())
	case EntityClass:
		return len(view.ListClasses())
	case EntityEquipment:
		return len(view.ListEquipment())
	case EntityIncident:
		return len(view.ListIncidents())
	case EntityWaiver:
		count := 0
		for _, w := range view.ListWaivers() {
			if !w.Archived {
				count++
			}
		}
		return count
	case EntityStaff:
		count := 0
		for _, m := range view.ListStaff() {
			if !m.Archived {
				count++
			}
		}
		return count
	case EntityPayment:
		return len(view.ListPayments())
	case EntityPlan:
		return len(view.ListPlans())
	default:
		return 0
	}
}
