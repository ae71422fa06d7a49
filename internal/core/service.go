// Package core implements the typed domain layer over the embedded collection
// store: in-memory mirrors, commit-time rule enforcement, archive semantics,
// cascading plan renames, and seed lifecycle operations.
package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gymcore/internal/seed"
	"gymcore/pkg/domain"
)

// Service is the sole owner of the in-memory mirrors and the only call path
// into the collection store. Every mutation validates the candidate state,
// persists, and only then swaps the mirror, so a persistence failure leaves
// the mirrors untouched.
type Service struct {
	mu      sync.RWMutex
	store   domain.CollectionStore
	engine  *RulesEngine
	logger  Logger
	metrics MetricsRecorder
	nowFn   func() time.Time
	st      state
}

// Option configures a Service.
type Option func(*Service)

// WithLogger installs a logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics installs a metrics recorder observing operation outcomes.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithRules replaces the default rules engine.
func WithRules(engine *RulesEngine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// NewService constructs a service over the supplied store. Call Init before
// any other operation.
func NewService(store domain.CollectionStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		engine: NewDefaultRulesEngine(),
		logger: noopLogger{},
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying collection store.
func (s *Service) Store() domain.CollectionStore { return s.store }

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

func encodeRecord(id string, v any) (domain.Record, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return domain.Record{}, fmt.Errorf("encode %s: %w", id, err)
	}
	return domain.Record{ID: id, Payload: payload}, nil
}

func decodeAll[T any](collection string, recs []domain.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, rec.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ErrNotFound is returned when an operation references a missing entity. It is
// an expected business rejection, never an infrastructure failure.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsRejection reports whether err is an expected business rejection (rule
// violation or not-found) rather than a persistence failure.
func IsRejection(err error) bool {
	var rve RuleViolationError
	var nf ErrNotFound
	return errors.As(err, &rve) || errors.As(err, &nf)
}

// commit evaluates the rules against the candidate state, runs the write, and
// swaps the mirror only after the write succeeded. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next state, changes []Change, write func(context.Context) error) error {
	res, err := s.engine.Evaluate(ctx, stateView{st: &next}, changes)
	if err != nil {
		return fmt.Errorf("evaluate rules: %w", err)
	}
	for _, v := range res.Violations {
		if v.Severity == SeverityWarn {
			s.logger.Warn("rule warning", "rule", v.Rule, "message", v.Message)
		}
	}
	if res.HasBlocking() {
		return RuleViolationError{Result: res}
	}
	if err := write(ctx); err != nil {
		return err
	}
	s.st = next
	return nil
}

// observe records metrics and logs the outcome of a finished operation.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.Observe(ctx, op, err == nil, elapsed)
	}
	switch {
	case err == nil:
		s.logger.Debug("operation complete", "op", op, "elapsed", elapsed)
	case IsRejection(err):
		s.logger.Info("operation rejected", "op", op, "reason", err.Error())
	default:
		s.logger.Error("operation failed", "op", op, "error", err.Error())
	}
}

// Init opens the settings record (creating it with defaults on first run),
// loads every collection, derives the active waiver/staff mirrors, enriches
// member ages, and performs first-run plan derivation when the plan collection
// is empty.
func (s *Service) Init(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "init", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.loadOrInitSettings(ctx)
	if err != nil {
		return err
	}
	st, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	st.settings = settings

	now := s.nowFn()
	for i := range st.members {
		m := &st.members[i]
		if m.BirthDate != nil && m.Age == nil {
			age := ageAt(*m.BirthDate, now)
			m.Age = &age
		}
	}

	if len(st.plans) == 0 {
		plans, derr := s.derivePlans(ctx, st.members, now)
		if derr != nil {
			return derr
		}
		st.plans = plans
	}

	s.st = st
	s.logger.Info("store initialized",
		"members", len(st.members),
		"classes", len(st.classes),
		"plans", len(st.plans),
	)
	return nil
}

// loadOrInitSettings reads the singleton settings record or persists the
// defaults. Writing to the fixed id keeps repeated calls from ever creating a
// second record.
func (s *Service) loadOrInitSettings(ctx context.Context) (Settings, error) {
	recs, err := s.store.GetAll(ctx, domain.CollectionSettings)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	for _, rec := range recs {
		if rec.ID != domain.SettingsID {
			continue
		}
		var settings Settings
		if err := json.Unmarshal(rec.Payload, &settings); err != nil {
			return Settings{}, fmt.Errorf("decode settings: %w", err)
		}
		return settings, nil
	}
	settings := domain.DefaultSettings()
	rec, err := encodeRecord(settings.ID, settings)
	if err != nil {
		return Settings{}, err
	}
	if err := s.store.PutItem(ctx, domain.CollectionSettings, rec); err != nil {
		return Settings{}, fmt.Errorf("persist settings: %w", err)
	}
	return settings, nil
}

// loadState reads every entity collection concurrently and decodes the
// payloads into fresh mirrors.
func (s *Service) loadState(ctx context.Context) (state, error) {
	var st state
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionMembers)
		if err != nil {
			return err
		}
		st.members, err = decodeAll[Member](domain.CollectionMembers, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionClasses)
		if err != nil {
			return err
		}
		st.classes, err = decodeAll[Class](domain.CollectionClasses, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionEquipment)
		if err != nil {
			return err
		}
		st.equipment, err = decodeAll[EquipmentItem](domain.CollectionEquipment, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionIncidents)
		if err != nil {
			return err
		}
		st.incidents, err = decodeAll[IncidentItem](domain.CollectionIncidents, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionWaivers)
		if err != nil {
			return err
		}
		st.waivers, err = decodeAll[WaiverItem](domain.CollectionWaivers, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionStaff)
		if err != nil {
			return err
		}
		st.staff, err = decodeAll[StaffMember](domain.CollectionStaff, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionPayments)
		if err != nil {
			return err
		}
		st.payments, err = decodeAll[PaymentItem](domain.CollectionPayments, recs)
		return err
	})
	g.Go(func() error {
		recs, err := s.store.GetAll(gctx, domain.CollectionPlans)
		if err != nil {
			return err
		}
		st.plans, err = decodeAll[MembershipPlan](domain.CollectionPlans, recs)
		return err
	})
	if err := g.Wait(); err != nil {
		return state{}, fmt.Errorf("load collections: %w", err)
	}
	st.activeWaivers = activeWaiversOf(st.waivers)
	st.activeStaff = activeStaffOf(st.staff)
	return st, nil
}

// derivePlans synthesizes a starter plan catalog from the distinct membership
// types observed across loaded members. It runs only while the plan collection
// is empty, so it happens at most once per database lifetime.
func (s *Service) derivePlans(ctx context.Context, members []Member, now time.Time) ([]MembershipPlan, error) {
	seen := make(map[string]struct{})
	var plans []MembershipPlan
	prices := seed.PlanPrices()
	for _, m := range members {
		name := m.MembershipType
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		price, ok := prices[name]
		if !ok {
			price = seed.DefaultPlanPrice
		}
		plans = append(plans, MembershipPlan{
			ID:        newID(),
			Name:      name,
			Price:     price,
			Interval:  "monthly",
			Status:    domain.PlanStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(plans) == 0 {
		return nil, nil
	}
	recs := make([]domain.Record, 0, len(plans))
	for _, p := range plans {
		rec, err := encodeRecord(p.ID, p)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := s.store.BulkPut(ctx, domain.CollectionPlans, recs); err != nil {
		return nil, fmt.Errorf("persist derived plans: %w", err)
	}
	s.logger.Info("derived starter plans", "count", len(plans))
	return plans, nil
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// Read accessors -------------------------------------------------------------

// Members returns the member mirror.
func (s *Service) Members() []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Member, len(s.st.members))
	for i, m := range s.st.members {
		out[i] = cloneMember(m)
	}
	return out
}

// Classes returns the class mirror.
func (s *Service) Classes() []Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Class, len(s.st.classes))
	for i, c := range s.st.classes {
		out[i] = cloneClass(c)
	}
	return out
}

// Equipment returns the equipment mirror.
func (s *Service) Equipment() []EquipmentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EquipmentItem(nil), s.st.equipment...)
}

// Incidents returns the incident mirror.
func (s *Service) Incidents() []IncidentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]IncidentItem(nil), s.st.incidents...)
}

// Payments returns the payment mirror.
func (s *Service) Payments() []PaymentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]PaymentItem(nil), s.st.payments...)
}

// Plans returns the membership plan mirror.
func (s *Service) Plans() []MembershipPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MembershipPlan(nil), s.st.plans...)
}

// Waivers returns the active (non-archived) waiver mirror.
func (s *Service) Waivers() []WaiverItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WaiverItem, len(s.st.activeWaivers))
	for i, w := range s.st.activeWaivers {
		out[i] = cloneWaiver(w)
	}
	return out
}

// AllWaivers returns the full waiver mirror, archived records included.
func (s *Service) AllWaivers() []WaiverItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]WaiverItem, len(s.st.waivers))
	for i, w := range s.st.waivers {
		out[i] = cloneWaiver(w)
	}
	return out
}

// Staff returns the active (non-archived) staff mirror.
func (s *Service) Staff() []StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StaffMember(nil), s.st.activeStaff...)
}

// AllStaff returns the full staff mirror, archived records included.
func (s *Service) AllStaff() []StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StaffMember(nil), s.st.staff...)
}

// GetMember retrieves a member by id.
func (s *Service) GetMember(id string) (Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.st.members {
		if m.ID == id {
			return cloneMember(m), true
		}
	}
	return Member{}, false
}

// GetClass retrieves a class by id.
func (s *Service) GetClass(id string) (Class, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.st.classes {
		if c.ID == id {
			return cloneClass(c), true
		}
	}
	return Class{}, false
}

// GetPlan retrieves a membership plan by id.
func (s *Service) GetPlan(id string) (MembershipPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.st.plans {
		if p.ID == id {
			return p, true
		}
	}
	return MembershipPlan{}, false
}
