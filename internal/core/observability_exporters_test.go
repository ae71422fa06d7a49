package core

import (
	"context"
	"errors"
	"expvar"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gymcore/pkg/domain"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "add_member", true, 5*time.Millisecond)
	rec.Observe(ctx, "add_member", true, 7*time.Millisecond)
	rec.Observe(ctx, "add_member", false, 3*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	snap := rec.Snapshot()
	if got := snap.Results["add_member"]["success"]; got != 2 {
		t.Fatalf("success count = %d", got)
	}
	if got := snap.Results["add_member"]["error"]; got != 1 {
		t.Fatalf("error count = %d", got)
	}
	if got := snap.DurationsMS["add_member"]; got != 15 {
		t.Fatalf("durations total = %v", got)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation was recorded: %+v", snap.Results)
	}
	if snap.RecordedAt.IsZero() {
		t.Fatalf("snapshot missing timestamp")
	}

	if rec.Name() == "" {
		t.Fatalf("generated name is empty")
	}
	if expvar.Get(rec.Name()) == nil {
		t.Fatalf("recorder not published under %q", rec.Name())
	}
}

func TestExpvarMetricsRecorderSnapshotIsolation(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "stats", true, time.Millisecond)

	snap := rec.Snapshot()
	snap.Results["stats"]["success"] = 99
	snap.DurationsMS["stats"] = 99

	if got := rec.Snapshot().Results["stats"]["success"]; got != 1 {
		t.Fatalf("snapshot shares state with recorder: %d", got)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	ctx := context.Background()

	rec.Observe(ctx, "enroll", true, 10*time.Millisecond)
	rec.Observe(ctx, "enroll", false, 20*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := map[string]bool{}
	var successCount float64
	for _, fam := range families {
		byName[fam.GetName()] = true
		if fam.GetName() != "gymcore_operations_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["operation"] == "enroll" && labels["status"] == "success" {
				successCount = m.GetCounter().GetValue()
			}
		}
	}
	if !byName["gymcore_operations_total"] || !byName["gymcore_operation_duration_seconds"] {
		t.Fatalf("collectors not registered: %v", byName)
	}
	if successCount != 1 {
		t.Fatalf("enroll success counter = %v", successCount)
	}
}

// captureRecorder remembers every observation for assertions.
type captureRecorder struct {
	mu      sync.Mutex
	entries []capturedObservation
}

type capturedObservation struct {
	operation string
	success   bool
}

func (c *captureRecorder) Observe(_ context.Context, operation string, success bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, capturedObservation{operation, success})
}

func (c *captureRecorder) find(operation string) (capturedObservation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.operation == operation {
			return e, true
		}
	}
	return capturedObservation{}, false
}

func TestServiceReportsOperationsToRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &captureRecorder{}
	svc := newTestService(t, WithMetrics(rec))

	if _, err := svc.AddMember(ctx, Member{Name: "A"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	var notFound ErrNotFound
	if _, err := svc.UpdateMember(ctx, "missing", domain.MemberUpdate{}); !errors.As(err, &notFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if obs, ok := rec.find("add_member"); !ok || !obs.success {
		t.Fatalf("add_member not observed as success: %+v ok=%v", obs, ok)
	}
	if obs, ok := rec.find("update_member"); !ok || obs.success {
		t.Fatalf("update_member not observed as failure: %+v ok=%v", obs, ok)
	}
}
