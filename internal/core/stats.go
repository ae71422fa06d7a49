package core

import "gymcore/pkg/domain"

// Stats is a point-in-time aggregate over the mirrors.
type Stats struct {
	TotalMembers     int `json:"total_members"`
	ActiveMembers    int `json:"active_members"`
	SuspendedMembers int `json:"suspended_members"`
	TotalClasses     int `json:"total_classes"`
	TotalEnrolled    int `json:"total_enrolled"`
	TotalCapacity    int `json:"total_capacity"`
	EquipmentItems   int `json:"equipment_items"`
	OpenIncidents    int `json:"open_incidents"`
	PendingWaivers   int `json:"pending_waivers"`
	ActiveStaff      int `json:"active_staff"`
	Payments         int `json:"payments"`
	Plans            int `json:"plans"`
}

// Stats computes aggregate counts from the current mirrors.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		TotalMembers:   len(s.st.members),
		TotalClasses:   len(s.st.classes),
		EquipmentItems: len(s.st.equipment),
		ActiveStaff:    len(s.st.activeStaff),
		Payments:       len(s.st.payments),
		Plans:          len(s.st.plans),
	}
	for _, m := range s.st.members {
		switch m.Status {
		case domain.MemberStatusActive:
			stats.ActiveMembers++
		case domain.MemberStatusSuspended:
			stats.SuspendedMembers++
		}
	}
	for _, c := range s.st.classes {
		stats.TotalEnrolled += c.Enrolled
		stats.TotalCapacity += c.Capacity
	}
	for _, inc := range s.st.incidents {
		if inc.Status != domain.IncidentStatusResolved {
			stats.OpenIncidents++
		}
	}
	for _, w := range s.st.activeWaivers {
		if w.Status == domain.WaiverStatusPending {
			stats.PendingWaivers++
		}
	}
	return stats
}
