package di

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-navsync/internal/blocks"
	navigationcmd "github.com/goliatone/go-navsync/internal/commands/navigation"
	"github.com/goliatone/go-navsync/internal/logging/gologger"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/runtimeconfig"
	"github.com/goliatone/go-navsync/pkg/testsupport"
)

func testConfig(baseURL string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Remote.BaseURL = baseURL
	return cfg
}

func samplePost() *menus.Post {
	return &menus.Post{
		ID:   "post-1",
		Meta: menus.PostMeta{MenuID: 3},
		Blocks: []*blocks.Block{{
			ClientID: "nav",
			Name:     "core/navigation",
			InnerBlocks: []*blocks.Block{
				{ClientID: "a", Attributes: map[string]any{"label": "A", "url": "/a"}},
				{ClientID: "b", Attributes: map[string]any{"label": "B", "url": "/b"}},
			},
		}},
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	_, err := NewContainer(runtimeconfig.DefaultConfig())
	if !errors.Is(err, runtimeconfig.ErrRemoteBaseURLRequired) {
		t.Fatalf("expected ErrRemoteBaseURLRequired, got %v", err)
	}
}

func TestNewContainerDefaultsToMemory(t *testing.T) {
	container, err := NewContainer(testConfig("https://example.com"))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatal("expected no database for the memory provider")
	}
	if container.Metrics() != nil || container.Gatherer() != nil {
		t.Fatal("expected metrics to be disabled by default")
	}
	if container.Notices() == nil {
		t.Fatal("expected the default notice store")
	}
	if container.Service() == nil || container.SaveNavigationHandler() == nil || container.ReconcileNavigationHandler() == nil {
		t.Fatal("expected navigation services to be wired")
	}
	if err := container.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.Logging.Enabled = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if provider.GetLogger("navsync.test") == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestContainerSavesAgainstFakeWordPress(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)

	cfg := testConfig(fake.URL())
	cfg.Metrics.Enabled = true
	cfg.Notices.Locale = "es"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	outcome, err := container.Service().SaveNavigationPost(context.Background(), samplePost())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !outcome.Saved || outcome.Created != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	list := container.Notices().List()
	if len(list) != 1 {
		t.Fatalf("expected one notice, got %+v", list)
	}
	last := list[0]
	if last.Message == "" || last.Message == "navigation.saved" {
		t.Fatalf("expected a translated notice, got %q", last.Message)
	}

	collectors := container.Metrics()
	if got := testutil.ToFloat64(collectors.ItemsCreated); got != 2 {
		t.Fatalf("expected 2 created items, got %v", got)
	}
	if got := testutil.ToFloat64(collectors.Saves.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected one successful save, got %v", got)
	}
	families, err := container.Gatherer().Gather()
	if err != nil || len(families) == 0 {
		t.Fatalf("expected gathered metric families, got %d (%v)", len(families), err)
	}
}

func TestContainerRecordsCommandTelemetry(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)

	cfg := testConfig(fake.URL())
	cfg.Metrics.Enabled = true
	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	ctx := context.Background()
	if err := container.ReconcileNavigationHandler().Execute(ctx, navigationcmd.ReconcileNavigationCommand{Post: samplePost()}); err != nil {
		t.Fatalf("reconcile command: %v", err)
	}
	if err := container.SaveNavigationHandler().Execute(ctx, navigationcmd.SaveNavigationCommand{Post: samplePost()}); err != nil {
		t.Fatalf("save command: %v", err)
	}

	runs := container.Metrics().Commands
	if got := testutil.ToFloat64(runs.WithLabelValues("navigation.reconcile", "success")); got != 1 {
		t.Fatalf("expected one reconcile command recorded, got %v", got)
	}
	if got := testutil.ToFloat64(runs.WithLabelValues("navigation.save", "success")); got != 1 {
		t.Fatalf("expected one save command recorded, got %v", got)
	}
}

func TestContainerUsesSuppliedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := testConfig("https://example.com")
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "custom"

	container, err := NewContainer(cfg, WithRegisterer(reg))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.Gatherer() != nil {
		t.Fatal("expected no container owned registry")
	}
	container.Metrics().ItemsCreatedAdd(1)
	if n, err := testutil.GatherAndCount(reg, "custom_menu_items_created_total"); err != nil || n != 1 {
		t.Fatalf("expected collector on supplied registry, got %d (%v)", n, err)
	}
}

func TestContainerPersistsMappingsInSQLite(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)

	cfg := testConfig(fake.URL())
	cfg.Storage.Provider = "sqlite"
	cfg.Storage.DSN = fmt.Sprintf("file:navsync_container_%d?mode=memory&cache=shared", time.Now().UnixNano())
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() == nil {
		t.Fatal("expected sqlite database")
	}
	if _, ok := container.MappingStore().(*menus.BunMappingStore); !ok {
		t.Fatalf("expected bun mapping store, got %T", container.MappingStore())
	}

	ctx := context.Background()
	if _, err := container.Service().SaveNavigationPost(ctx, samplePost()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := container.Service().SaveNavigationPost(ctx, samplePost()); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if fake.Creates() != 2 {
		t.Fatalf("expected stored mappings to prevent duplicate creates, got %d", fake.Creates())
	}

	mapping, err := container.MappingStore().Get(ctx, "post-1")
	if err != nil {
		t.Fatalf("get mapping: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected 2 mapped items, got %v", mapping)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatal("expected database to be released")
	}
}

func TestContainerKeepsSuppliedMappingStore(t *testing.T) {
	store := menus.NewMemoryMappingStore()
	cfg := testConfig("https://example.com")
	cfg.Storage.Provider = "postgres"
	cfg.Storage.DSN = "postgres://unreachable.invalid/navsync"

	container, err := NewContainer(cfg, WithMappingStore(store))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.MappingStore() != store {
		t.Fatal("expected the supplied mapping store")
	}
	if container.BunDB() != nil {
		t.Fatal("expected no database when a mapping store is supplied")
	}
}

func TestTraversalName(t *testing.T) {
	cases := map[string]string{
		"":                 "document",
		"document":         "document",
		"Reverse":          "reverse-siblings",
		"stack":            "reverse-siblings",
		"reverse-siblings": "reverse-siblings",
	}
	for in, want := range cases {
		if got := traversalName(in); got != want {
			t.Fatalf("traversalName(%q) = %q, want %q", in, got, want)
		}
	}
}
