// Package domain defines the persistent gym entities, value types, and rule
// evaluation primitives used by gymcore.
package domain

import "time"

// EntityType identifies the type of record stored in the domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence collections.
const (
	// EntityMember identifies a gym member record.
	EntityMember EntityType = "member"
	// EntityClass identifies a class record.
	EntityClass EntityType = "class"
	// EntityEquipment identifies an equipment record.
	EntityEquipment EntityType = "equipment"
	// EntityIncident identifies an incident report record.
	EntityIncident EntityType = "incident"
	// EntityWaiver identifies a liability waiver record.
	EntityWaiver EntityType = "waiver"
	// EntityStaff identifies a staff member record.
	EntityStaff EntityType = "staff_member"
	// EntityPayment identifies a payment record.
	EntityPayment EntityType = "payment"
	// EntityPlan identifies a membership plan record.
	EntityPlan EntityType = "membership_plan"
	// EntitySettings identifies the singleton settings record.
	EntitySettings EntityType = "settings"
)

// Collection names used by CollectionStore implementations.
const (
	CollectionMembers   = "members"
	CollectionClasses   = "classes"
	CollectionEquipment = "equipment"
	CollectionIncidents = "incidents"
	CollectionWaivers   = "waivers"
	CollectionStaff     = "staff_members"
	CollectionPayments  = "payments"
	CollectionPlans     = "membership_plans"
	CollectionSettings  = "settings"
)

// EntityCollections lists every entity collection in a stable order. The
// settings collection is deliberately excluded: purge and reset wipe entity
// data while leaving policy flags intact.
func EntityCollections() []string {
	return []string{
		CollectionMembers,
		CollectionClasses,
		CollectionEquipment,
		CollectionIncidents,
		CollectionWaivers,
		CollectionStaff,
		CollectionPayments,
		CollectionPlans,
	}
}

// MemberStatus enumerates member lifecycle states.
type MemberStatus string

// Canonical member statuses.
const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

// IncidentStatus enumerates incident workflow states.
type IncidentStatus string

// Canonical incident statuses.
const (
	IncidentStatusReported      IncidentStatus = "reported"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// WaiverStatus enumerates waiver signature states.
type WaiverStatus string

// Canonical waiver statuses.
const (
	WaiverStatusPending WaiverStatus = "pending"
	WaiverStatusSigned  WaiverStatus = "signed"
	WaiverStatusExpired WaiverStatus = "expired"
)

// PlanStatus enumerates membership plan availability states.
type PlanStatus string

// Canonical plan statuses.
const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Member is an individual gym member. MembershipType is a free-text reference
// to a MembershipPlan name, not a foreign key; renaming a plan cascades over
// members holding the old name.
type Member struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	MembershipType string       `json:"membership_type"`
	Status         MemberStatus `json:"status"`
	JoinDate       time.Time    `json:"join_date"`
	LastVisit      time.Time    `json:"last_visit"`
	BirthDate      *time.Time   `json:"birth_date,omitempty"`
	// Age is derived from BirthDate at creation/update/load time and cached;
	// it is never recomputed reactively.
	Age *int `json:"age,omitempty"`
}

// Class is a scheduled class with a bounded roster. Enrolled is defined as
// len(Students) and every mutator keeps the two in lockstep.
type Class struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Instructors []string `json:"instructors"`
	Capacity    int      `json:"capacity"`
	Enrolled    int      `json:"enrolled"`
	Students    []string `json:"students"`
}

// EquipmentItem tracks a piece of gym equipment.
type EquipmentItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	Condition string `json:"condition,omitempty"`
}

// IncidentItem is an incident report. Status defaults to reported on creation.
type IncidentItem struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Severity    string         `json:"severity,omitempty"`
	Status      IncidentStatus `json:"status"`
	ReportedBy  string         `json:"reported_by,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// WaiverItem is a liability waiver. Waivers are archived, never hard-deleted.
type WaiverItem struct {
	ID         string       `json:"id"`
	MemberName string       `json:"member_name"`
	Email      string       `json:"email,omitempty"`
	Status     WaiverStatus `json:"status"`
	SignedAt   *time.Time   `json:"signed_at,omitempty"`
	Archived   bool         `json:"archived"`
}

// StaffMember is an employee record. Staff are archived, never hard-deleted.
type StaffMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	Classes  int    `json:"classes"`
	Archived bool   `json:"archived"`
}

// PaymentItem records a payment taken from a member.
type PaymentItem struct {
	ID       string    `json:"id"`
	MemberID string    `json:"member_id,omitempty"`
	Amount   float64   `json:"amount"`
	Method   string    `json:"method,omitempty"`
	PaidAt   time.Time `json:"paid_at"`
}

// MembershipPlan is a priced membership tier. Name is the join key referenced
// by Member.MembershipType.
type MembershipPlan struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Interval    string     `json:"interval"`
	Description string     `json:"description,omitempty"`
	Status      PlanStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SettingsID is the fixed identifier of the singleton settings record; writing
// to one id keeps get-or-init idempotent by construction.
const SettingsID = "settings"

// Settings is the singleton policy record.
type Settings struct {
	ID                       string `json:"id"`
	DemoMode                 bool   `json:"demo_mode"`
	AllowOverEnrollment      bool   `json:"allow_over_enrollment"`
	AutoCreateMemberOnWaiver bool   `json:"auto_create_member_on_waiver"`
}

// DefaultSettings returns the hard-coded first-run settings record.
func DefaultSettings() Settings {
	return Settings{ID: SettingsID}
}

// Change describes a mutation applied to an entity during a commit.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported mutations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks the commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows the commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// BlockingMessage returns the first blocking violation message, suitable for
// direct display to a user. Empty when nothing blocks.
func (r Result) BlockingMessage() string {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return v.Message
		}
	}
	return ""
}

// RuleViolationError is returned when blocking violations are present. It is
// an expected business rejection: callers branch on it rather than treat it as
// an infrastructure failure.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	if msg := e.Result.BlockingMessage(); msg != "" {
		return msg
	}
	return "operation blocked by rules"
}
