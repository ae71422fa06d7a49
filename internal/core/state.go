package core

import "gymcore/pkg/domain"

// state holds every in-memory mirror. The waiver and staff slices are the
// full mirrors (archived records included); activeWaivers and activeStaff are
// maintained filtered views updated at every mutation point, matching what
// callers observe.
type state struct {
	members       []Member
	classes       []Class
	equipment     []EquipmentItem
	incidents     []IncidentItem
	waivers       []WaiverItem
	activeWaivers []WaiverItem
	staff         []StaffMember
	activeStaff   []StaffMember
	payments      []PaymentItem
	plans         []MembershipPlan
	settings      Settings
}

func (s state) clone() state {
	cloned := state{
		members:       make([]Member, len(s.members)),
		classes:       make([]Class, len(s.classes)),
		equipment:     append([]EquipmentItem(nil), s.equipment...),
		incidents:     append([]IncidentItem(nil), s.incidents...),
		waivers:       make([]WaiverItem, len(s.waivers)),
		activeWaivers: make([]WaiverItem, len(s.activeWaivers)),
		staff:         append([]StaffMember(nil), s.staff...),
		activeStaff:   append([]StaffMember(nil), s.activeStaff...),
		payments:      append([]PaymentItem(nil), s.payments...),
		plans:         append([]MembershipPlan(nil), s.plans...),
		settings:      s.settings,
	}
	for i, m := range s.members {
		cloned.members[i] = cloneMember(m)
	}
	for i, c := range s.classes {
		cloned.classes[i] = cloneClass(c)
	}
	for i, w := range s.waivers {
		cloned.waivers[i] = cloneWaiver(w)
	}
	for i, w := range s.activeWaivers {
		cloned.activeWaivers[i] = cloneWaiver(w)
	}
	return cloned
}

func cloneMember(m Member) Member {
	cp := m
	if m.BirthDate != nil {
		bd := *m.BirthDate
		cp.BirthDate = &bd
	}
	if m.Age != nil {
		age := *m.Age
		cp.Age = &age
	}
	return cp
}

func cloneClass(c Class) Class {
	cp := c
	cp.Instructors = append([]string(nil), c.Instructors...)
	cp.Students = append([]string(nil), c.Students...)
	return cp
}

func cloneWaiver(w WaiverItem) WaiverItem {
	cp := w
	if w.SignedAt != nil {
		at := *w.SignedAt
		cp.SignedAt = &at
	}
	return cp
}

// activeWaiversOf derives the non-archived view preserving order.
func activeWaiversOf(all []WaiverItem) []WaiverItem {
	out := make([]WaiverItem, 0, len(all))
	for _, w := range all {
		if !w.Archived {
			out = append(out, w)
		}
	}
	return out
}

// activeStaffOf derives the non-archived view preserving order.
func activeStaffOf(all []StaffMember) []StaffMember {
	out := make([]StaffMember, 0, len(all))
	for _, m := range all {
		if !m.Archived {
			out = append(out, m)
		}
	}
	return out
}

// stateView adapts a candidate state to the rule evaluation interface.
type stateView struct {
	st *state
}

var _ domain.RuleView = stateView{}

func (v stateView) ListMembers() []Member {
	out := make([]Member, len(v.st.members))
	for i, m := range v.st.members {
		out[i] = cloneMember(m)
	}
	return out
}

func (v stateView) ListClasses() []Class {
	out := make([]Class, len(v.st.classes))
	for i, c := range v.st.classes {
		out[i] = cloneClass(c)
	}
	return out
}

func (v stateView) ListEquipment() []EquipmentItem {
	return append([]EquipmentItem(nil), v.st.equipment...)
}

func (v stateView) ListIncidents() []IncidentItem {
	return append([]IncidentItem(nil), v.st.incidents...)
}

func (v stateView) ListWaivers() []WaiverItem {
	out := make([]WaiverItem, len(v.st.waivers))
	for i, w := range v.st.waivers {
		out[i] = cloneWaiver(w)
	}
	return out
}

func (v stateView) ListStaff() []StaffMember {
	return append([]StaffMember(nil), v.st.staff...)
}

func (v stateView) ListPayments() []PaymentItem {
	return append([]PaymentItem(nil), v.st.payments...)
}

func (v stateView) ListPlans() []MembershipPlan {
	return append([]MembershipPlan(nil), v.st.plans...)
}

func (v stateView) Settings() Settings {
	return v.st.settings
}
