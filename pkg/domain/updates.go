package domain

import "time"

// Update structs carry partial updates with one pointer field per mutable
// entity field; nil leaves the field unchanged. They replace free-form partial
// merges so unknown fields cannot be smuggled past the type checker.

// MemberUpdate is a partial update for Member.
type MemberUpdate struct {
	Name           *string
	Email          *string
	Phone          *string
	MembershipType *string
	Status         *MemberStatus
	LastVisit      *time.Time
	BirthDate      *time.Time
}

// ClassUpdate is a partial update for Class. Roster changes go through
// enroll/unenroll so Enrolled and Students cannot drift apart.
type ClassUpdate struct {
	Name        *string
	Instructors []string
	Capacity    *int
}

// EquipmentUpdate is a partial update for EquipmentItem.
type EquipmentUpdate struct {
	Name      *string
	Category  *string
	Quantity  *int
	Condition *string
}

// IncidentUpdate is a partial update for IncidentItem.
type IncidentUpdate struct {
	Title       *string
	Description *string
	Severity    *string
	Status      *IncidentStatus
}

// PaymentUpdate is a partial update for PaymentItem.
type PaymentUpdate struct {
	MemberID *string
	Amount   *float64
	Method   *string
}

// WaiverUpdate is a partial update for WaiverItem. The archived flag is
// controlled exclusively by archive/unarchive.
type WaiverUpdate struct {
	MemberName *string
	Email      *string
	Status     *WaiverStatus
	SignedAt   *time.Time
}

// StaffUpdate is a partial update for StaffMember.
type StaffUpdate struct {
	Name    *string
	Role    *string
	Email   *string
	Classes *int
}

// PlanUpdate is a partial update for MembershipPlan. A non-nil Name that
// differs from the current name triggers the member cascade.
type PlanUpdate struct {
	Name        *string
	Price       *float64
	Interval    *string
	Description *string
	Status      *PlanStatus
}

// SettingsUpdate is a partial update for the singleton settings record.
type SettingsUpdate struct {
	DemoMode                 *bool
	AllowOverEnrollment      *bool
	AutoCreateMemberOnWaiver *bool
}
