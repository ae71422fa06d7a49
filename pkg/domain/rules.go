package domain

import "context"

// RuleView provides read-only access to a candidate state for rule evaluation.
// Waiver and staff listings include archived records; rules that care about
// the active view filter on the archived flag.
type RuleView interface {
	ListMembers() []Member
	ListClasses() []Class
	ListEquipment() []EquipmentItem
	ListIncidents() []IncidentItem
	ListWaivers() []WaiverItem
	ListStaff() []StaffMember
	ListPayments() []PaymentItem
	ListPlans() []MembershipPlan
	Settings() Settings
}

// Rule defines an evaluation executed against the candidate state before a
// commit becomes durable.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
