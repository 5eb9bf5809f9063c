package changeset_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/changeset"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/pkg/testsupport"
)

func link(id, label, url string, children ...*blocks.Block) *blocks.Block {
	return &blocks.Block{
		ClientID:    id,
		Name:        "core/navigation-link",
		Attributes:  map[string]any{"label": label, "url": url},
		InnerBlocks: children,
	}
}

func sampleTree() []*blocks.Block {
	return []*blocks.Block{
		link("home", "Home", "/"),
		link("about", "About", "/about",
			link("team", "Team", "/about/team"),
			link("new", "New", "/about/new"),
		),
	}
}

func sampleItems() map[string]menus.MenuItem {
	return map[string]menus.MenuItem{
		"home":  {ID: 11, Title: menus.RenderedText{Raw: "Old home"}, Classes: []string{"a", "b"}, XFN: []string{"me"}, Type: "custom"},
		"about": {ID: 12, Type: "custom"},
		"team":  {ID: 13, Type: "custom"},
		"gone":  {ID: 14, Type: "custom"},
	}
}

func decode(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode changeset: %v", err)
	}
	return out
}

func TestComputeEncodesPositionsAndParents(t *testing.T) {
	raw, err := changeset.Compute(sampleTree(), 7, sampleItems())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got := decode(t, raw)
	if len(got) != 5 {
		t.Fatalf("expected 5 settings, got %d: %s", len(got), raw)
	}

	var home changeset.RequestItem
	if err := json.Unmarshal(got["nav_menu_item[11]"], &home); err != nil {
		t.Fatalf("decode home: %v", err)
	}
	if home.Position != 1 || home.MenuItemParent != 0 || home.Title != "Home" || home.URL != "/" {
		t.Fatalf("unexpected home item %+v", home)
	}
	if home.Classes != "a b" || home.XFN != "me" {
		t.Fatalf("expected joined classes/xfn, got %q %q", home.Classes, home.XFN)
	}
	if home.NavMenuTermID != 7 || home.Status != "publish" || home.Invalid || home.OriginalTitle != "" {
		t.Fatalf("unexpected fixed fields %+v", home)
	}

	var team changeset.RequestItem
	if err := json.Unmarshal(got["nav_menu_item[13]"], &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if team.Position != 1 || team.MenuItemParent != 12 {
		t.Fatalf("expected team nested under about, got %+v", team)
	}

	var fresh changeset.RequestItem
	if err := json.Unmarshal(got["nav_menu_item[-1]"], &fresh); err != nil {
		t.Fatalf("decode placeholder: %v", err)
	}
	if fresh.Position != 2 || fresh.MenuItemParent != 12 || fresh.ItemFields != nil {
		t.Fatalf("unexpected placeholder item %+v", fresh)
	}

	if string(got["nav_menu_item[14]"]) != "false" {
		t.Fatalf("expected removed item as false, got %s", got["nav_menu_item[14]"])
	}
}

func TestComputeKeepsZeroValuedItemFields(t *testing.T) {
	raw, err := changeset.Compute(sampleTree(), 7, sampleItems())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got := decode(t, raw)

	var about map[string]json.RawMessage
	if err := json.Unmarshal(got["nav_menu_item[12]"], &about); err != nil {
		t.Fatalf("decode about: %v", err)
	}
	for _, field := range []string{"id", "type", "object", "object_id", "parent", "menu_order", "target", "attr_title", "description"} {
		if _, ok := about[field]; !ok {
			t.Fatalf("expected mapped item to carry %q, got %s", field, got["nav_menu_item[12]"])
		}
	}
	if string(about["menu_order"]) != "0" || string(about["parent"]) != "0" {
		t.Fatalf("expected zero menu_order and parent, got %s", got["nav_menu_item[12]"])
	}

	var fresh map[string]json.RawMessage
	if err := json.Unmarshal(got["nav_menu_item[-1]"], &fresh); err != nil {
		t.Fatalf("decode placeholder: %v", err)
	}
	for _, field := range []string{"id", "menu_order", "object_id"} {
		if _, ok := fresh[field]; ok {
			t.Fatalf("expected unmapped item without %q, got %s", field, got["nav_menu_item[-1]"])
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	first, err := changeset.Compute(sampleTree(), 7, sampleItems())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for i := 0; i < 20; i++ {
		next, err := changeset.Compute(sampleTree(), 7, sampleItems())
		if err != nil {
			t.Fatalf("compute %d: %v", i, err)
		}
		if next != first {
			t.Fatalf("output changed between runs:\n%s\n%s", first, next)
		}
	}
}

func TestComputeRequiresMenu(t *testing.T) {
	if _, err := changeset.Compute(sampleTree(), 0, nil); !errors.Is(err, changeset.ErrMenuIDRequired) {
		t.Fatalf("expected ErrMenuIDRequired, got %v", err)
	}
}

func TestComputeEmptyTreeDeletesEverything(t *testing.T) {
	raw, err := changeset.Compute(nil, 3, map[string]menus.MenuItem{"x": {ID: 5}})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if raw != `{"nav_menu_item[5]":false}` {
		t.Fatalf("unexpected changeset %s", raw)
	}
}

func TestFlattenAssignsPlaceholdersInDocumentOrder(t *testing.T) {
	tree := []*blocks.Block{
		link("a", "A", "/a", link("a1", "A1", "/a1")),
		link("b", "B", "/b"),
	}
	entries := changeset.Flatten(tree, nil)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []struct {
		client string
		id     int64
		parent int64
		pos    int
	}{
		{"a", -1, 0, 1},
		{"a1", -2, -1, 1},
		{"b", -3, 0, 2},
	}
	for i, w := range want {
		e := entries[i]
		if e.Block.ClientID != w.client || e.ItemID != w.id || e.ParentID != w.parent || e.Position != w.pos || e.Mapped {
			t.Fatalf("entry %d: got %+v want %+v", i, e, w)
		}
	}
}

func TestComputeMatchesGoldenForUnmappedFixture(t *testing.T) {
	var post menus.Post
	if err := testsupport.LoadJSON("testdata/unmapped_post.json", &post); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	want, err := testsupport.LoadFixture("testdata/unmapped_post.golden")
	if err != nil {
		t.Fatalf("load golden: %v", err)
	}

	got, err := changeset.Compute(post.NavigationBlock().Children(), post.MenuID(), nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got != strings.TrimSpace(string(want)) {
		t.Fatalf("changeset mismatch\n got: %s\nwant: %s", got, want)
	}
}
