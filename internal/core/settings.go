package core

import (
	"context"
	"time"

	"gymcore/pkg/domain"
)

// Settings returns the current policy flags. Only trustworthy after Init and
// after any in-flight toggle has resolved.
func (s *Service) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.settings
}

// UpdateSettings merges a partial update over the settings record, persists
// it, and returns the merged result.
func (s *Service) UpdateSettings(ctx context.Context, upd domain.SettingsUpdate) (updated Settings, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_settings", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateSettingsLocked(ctx, upd)
}

func (s *Service) updateSettingsLocked(ctx context.Context, upd domain.SettingsUpdate) (Settings, error) {
	settings := s.st.settings
	if upd.DemoMode != nil {
		settings.DemoMode = *upd.DemoMode
	}
	if upd.AllowOverEnrollment != nil {
		settings.AllowOverEnrollment = *upd.AllowOverEnrollment
	}
	if upd.AutoCreateMemberOnWaiver != nil {
		settings.AutoCreateMemberOnWaiver = *upd.AutoCreateMemberOnWaiver
	}

	rec, err := encodeRecord(settings.ID, settings)
	if err != nil {
		return Settings{}, err
	}
	if err := s.store.PutItem(ctx, domain.CollectionSettings, rec); err != nil {
		return Settings{}, err
	}
	s.st.settings = settings
	return settings, nil
}

// ToggleDemoMode flips the demo-mode flag and persists it.
func (s *Service) ToggleDemoMode(ctx context.Context) (updated Settings, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "toggle_demo_mode", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	flipped := !s.st.settings.DemoMode
	return s.updateSettingsLocked(ctx, domain.SettingsUpdate{DemoMode: &flipped})
}

// ToggleAllowOverEnrollment flips the over-enrollment flag and persists it.
func (s *Service) ToggleAllowOverEnrollment(ctx context.Context) (updated Settings, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "toggle_allow_over_enrollment", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	flipped := !s.st.settings.AllowOverEnrollment
	return s.updateSettingsLocked(ctx, domain.SettingsUpdate{AllowOverEnrollment: &flipped})
}

// ToggleAutoCreateMemberOnWaiver flips the auto-create flag and persists it.
func (s *Service) ToggleAutoCreateMemberOnWaiver(ctx context.Context) (updated Settings, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "toggle_auto_create_member", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	flipped := !s.st.settings.AutoCreateMemberOnWaiver
	return s.updateSettingsLocked(ctx, domain.SettingsUpdate{AutoCreateMemberOnWaiver: &flipped})
}
