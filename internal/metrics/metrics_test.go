package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-navsync/internal/metrics"
)

func TestCollectorsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg, "")

	c.ItemsCreatedAdd(3)
	c.ItemsCreatedAdd(0)
	c.ReconcileCompleted(nil)
	c.ReconcileCompleted(errors.New("boom"))
	c.SaveCompleted(metrics.OutcomeSuccess, 20*time.Millisecond)
	c.SaveCompleted(metrics.OutcomeRejected, 10*time.Millisecond)
	c.SaveCompleted(metrics.OutcomeSuccess, 5*time.Millisecond)

	if got := testutil.ToFloat64(c.ItemsCreated); got != 3 {
		t.Fatalf("expected 3 items created, got %v", got)
	}
	if got := testutil.ToFloat64(c.Reconciliations.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed reconciliation, got %v", got)
	}
	if got := testutil.ToFloat64(c.Saves.WithLabelValues(metrics.OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successful saves, got %v", got)
	}
	if got := testutil.CollectAndCount(c.SaveDuration); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() == "navsync_menu_items_created_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected namespaced counter to be registered")
	}
}

func TestNilCollectorsAreSafe(t *testing.T) {
	var c *metrics.Collectors
	c.ItemsCreatedAdd(1)
	c.ReconcileCompleted(nil)
	c.SaveCompleted(metrics.OutcomeError, time.Second)
	c.CommandCompleted("navigation.save", "success", time.Second)
}

func TestCommandCompletedLabelsByCommandAndStatus(t *testing.T) {
	c := metrics.New(prometheus.NewRegistry(), "")
	c.CommandCompleted("navigation.save", "success", 10*time.Millisecond)
	c.CommandCompleted("navigation.save", "failed", 10*time.Millisecond)
	c.CommandCompleted("navigation.reconcile", "success", 10*time.Millisecond)

	if got := testutil.ToFloat64(c.Commands.WithLabelValues("navigation.save", "failed")); got != 1 {
		t.Fatalf("expected one failed save command, got %v", got)
	}
	if got := testutil.CollectAndCount(c.CommandDuration); got != 2 {
		t.Fatalf("expected duration series per command, got %d", got)
	}
}

func TestUnregisteredCollectors(t *testing.T) {
	c := metrics.New(nil, "custom")
	c.ItemsCreatedAdd(2)
	if got := testutil.ToFloat64(c.ItemsCreated); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}
