package menus_test

import (
	"context"
	"fmt"
	"maps"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if err := menus.CreateMappingTable(context.Background(), db); err != nil {
		t.Fatalf("create mapping table: %v", err)
	}
	return db
}

func TestBunMappingStoreReplacesMappingPerPost(t *testing.T) {
	ctx := context.Background()
	store := menus.NewBunMappingStore(newBunDB(t))

	if err := store.Set(ctx, "post-1", menus.Mapping{1: "a", 2: "b"}); err != nil {
		t.Fatalf("set initial: %v", err)
	}
	if err := store.Set(ctx, "post-2", menus.Mapping{3: "c"}); err != nil {
		t.Fatalf("set other post: %v", err)
	}
	if err := store.Set(ctx, "post-1", menus.Mapping{1: "a", 4: "d"}); err != nil {
		t.Fatalf("set replacement: %v", err)
	}

	got, err := store.Get(ctx, "post-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 || got[1] != "a" || got[4] != "d" {
		t.Fatalf("unexpected mapping %v", got)
	}

	other, err := store.Get(ctx, "post-2")
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if len(other) != 1 || other[3] != "c" {
		t.Fatalf("expected other post untouched, got %v", other)
	}
}

func TestBunMappingStoreUnknownPostIsEmpty(t *testing.T) {
	store := menus.NewBunMappingStore(newBunDB(t))
	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty mapping, got %v", got)
	}
}

func newCachedMappingStore(t *testing.T) *menus.BunMappingStore {
	t.Helper()
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return menus.NewBunMappingStoreWithCache(newBunDB(t), cacheService, repocache.NewDefaultKeySerializer())
}

func TestBunMappingStoreWithCacheSeesWritesPerPost(t *testing.T) {
	ctx := context.Background()
	store := newCachedMappingStore(t)

	steps := []struct {
		postID string
		set    menus.Mapping
	}{
		{postID: "post-1", set: menus.Mapping{1: "a"}},
		{postID: "post-1", set: menus.Mapping{1: "a", 2: "b"}},
		{postID: "post-2", set: menus.Mapping{3: "c"}},
	}
	for _, step := range steps {
		if err := store.Set(ctx, step.postID, step.set); err != nil {
			t.Fatalf("set %s: %v", step.postID, err)
		}
		got, err := store.Get(ctx, step.postID)
		if err != nil {
			t.Fatalf("get %s: %v", step.postID, err)
		}
		if !maps.Equal(got, step.set) {
			t.Fatalf("%s: expected %v after set, got %v", step.postID, step.set, got)
		}
	}

	first, err := store.Get(ctx, "post-1")
	if err != nil {
		t.Fatalf("get post-1: %v", err)
	}
	if !maps.Equal(first, menus.Mapping{1: "a", 2: "b"}) {
		t.Fatalf("expected post-1 to keep its own mapping, got %v", first)
	}
}

func TestBunMappingStoreWithCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := newCachedMappingStore(t)

	if err := store.Set(ctx, "post-9", menus.Mapping{7: "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "post-9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got[8] = "mutated"

	again, err := store.Get(ctx, "post-9")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if !maps.Equal(again, menus.Mapping{7: "x"}) {
		t.Fatalf("cached mapping leaked caller mutation: %v", again)
	}
}

func TestBunMappingStoreReadsBeyondOnePage(t *testing.T) {
	ctx := context.Background()
	store := menus.NewBunMappingStore(newBunDB(t))

	mapping := make(menus.Mapping, 600)
	for i := 1; i <= 600; i++ {
		mapping[int64(i)] = fmt.Sprintf("block-%03d", i)
	}
	if err := store.Set(ctx, "post-big", mapping); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "post-big")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != len(mapping) {
		t.Fatalf("expected %d entries, got %d", len(mapping), len(got))
	}
}
