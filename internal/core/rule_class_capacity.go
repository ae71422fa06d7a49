package core

import (
	"context"
	"fmt"

	"gymcore/pkg/domain"
)

// NewClassCapacityRule returns the rule enforcing the class roster invariant:
// enrolled always equals len(students), and enrolled never exceeds capacity
// unless the over-enrollment policy flag is set. Only classes touched by the
// commit are checked, so a roster that became over-capacity while the flag was
// on does not block unrelated mutations after the flag is cleared.
func NewClassCapacityRule() domain.Rule {
	return classCapacityRule{}
}

type classCapacityRule struct{}

func (classCapacityRule) Name() string { return "class_capacity" }

func (classCapacityRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	touched := make(map[string]bool)
	for _, change := range changes {
		if change.Entity != EntityClass {
			continue
		}
		if after, ok := change.After.(Class); ok {
			touched[after.ID] = true
		}
	}
	res := domain.Result{}
	if len(touched) == 0 {
		return res, nil
	}
	allowOver := view.Settings().AllowOverEnrollment
	for _, class := range view.ListClasses() {
		if !touched[class.ID] {
			continue
		}
		if class.Enrolled != len(class.Students) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "class_capacity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("class %s roster out of sync: enrolled %d, students %d", class.Name, class.Enrolled, len(class.Students)),
				Entity:   EntityClass,
				EntityID: class.ID,
			})
			continue
		}
		if !allowOver && class.Enrolled > class.Capacity {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "class_capacity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("class %s is full: %d/%d enrolled", class.Name, class.Enrolled, class.Capacity),
				Entity:   EntityClass,
				EntityID: class.ID,
			})
		}
	}
	return res, nil
}
