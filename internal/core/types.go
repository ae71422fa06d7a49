package core

import "gymcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	Member             = domain.Member
	Class              = domain.Class
	EquipmentItem      = domain.EquipmentItem
	IncidentItem       = domain.IncidentItem
	WaiverItem         = domain.WaiverItem
	StaffMember        = domain.StaffMember
	PaymentItem        = domain.PaymentItem
	MembershipPlan     = domain.MembershipPlan
	Settings           = domain.Settings
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	RulesEngine        = domain.RulesEngine
)

const (
	EntityMember    = domain.EntityMember
	EntityClass     = domain.EntityClass
	EntityEquipment = domain.EntityEquipment
	EntityIncident  = domain.EntityIncident
	EntityWaiver    = domain.EntityWaiver
	EntityStaff     = domain.EntityStaff
	EntityPayment   = domain.EntityPayment
	EntityPlan      = domain.EntityPlan
	EntitySettings  = domain.EntitySettings
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
