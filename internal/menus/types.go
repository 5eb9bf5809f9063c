package menus

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/goliatone/go-navsync/internal/blocks"
)

// Post is the editor document holding a navigation block tree. Blocks[0] is
// the navigation container whose descendants map to menu items.
type Post struct {
	ID     string          `json:"id"`
	Meta   PostMeta        `json:"meta"`
	Blocks []*blocks.Block `json:"blocks"`
}

// PostMeta carries the menu bound to the post.
type PostMeta struct {
	MenuID int64 `json:"menuId"`
}

// NavigationBlock returns the navigation container, or nil when the post has
// no blocks.
func (p *Post) NavigationBlock() *blocks.Block {
	if p == nil || len(p.Blocks) == 0 {
		return nil
	}
	return p.Blocks[0]
}

// MenuID is shorthand for p.Meta.MenuID.
func (p *Post) MenuID() int64 {
	if p == nil {
		return 0
	}
	return p.Meta.MenuID
}

// RenderedText decodes either a plain string or a {"raw","rendered"} object.
type RenderedText struct {
	Raw      string `json:"raw,omitempty"`
	Rendered string `json:"rendered,omitempty"`
}

// String prefers the raw value.
func (t RenderedText) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Rendered
}

func (t *RenderedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = RenderedText{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = RenderedText{Raw: s, Rendered: s}
		return nil
	}
	type plain RenderedText
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*t = RenderedText(out)
	return nil
}

// MenuItem is one persisted navigation entry as exposed by the menu-items
// REST resource.
type MenuItem struct {
	ID          int64        `json:"id"`
	Title       RenderedText `json:"title"`
	URL         string       `json:"url"`
	AttrTitle   string       `json:"attr_title,omitempty"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type,omitempty"`
	Object      string       `json:"object,omitempty"`
	ObjectID    int64        `json:"object_id,omitempty"`
	Parent      int64        `json:"parent"`
	MenuOrder   int          `json:"menu_order"`
	Target      string       `json:"target,omitempty"`
	Classes     []string     `json:"classes,omitempty"`
	XFN         []string     `json:"xfn,omitempty"`
	Status      string       `json:"status,omitempty"`
	Menus       int64        `json:"menus,omitempty"`
}

// Clone returns a deep copy of item.
func (item MenuItem) Clone() MenuItem {
	out := item
	out.Classes = slices.Clone(item.Classes)
	out.XFN = slices.Clone(item.XFN)
	return out
}

// CreateMenuItemInput is the body sent when creating a menu item.
type CreateMenuItemInput struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	MenuOrder int    `json:"menu_order"`
	Menus     int64  `json:"menus,omitempty"`
	Parent    int64  `json:"parent,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Mapping associates menu item ids with the client ids of the blocks they
// represent.
type Mapping map[int64]string

// Clone copies m; a nil mapping yields an empty one.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return Mapping{}
	}
	return maps.Clone(m)
}

// Invert returns client id -> menu item id.
func (m Mapping) Invert() map[string]int64 {
	out := make(map[string]int64, len(m))
	for id, clientID := range m {
		out[clientID] = id
	}
	return out
}

// ItemIDs lists the mapped menu item ids in ascending order.
func (m Mapping) ItemIDs() []int64 {
	return slices.Sorted(maps.Keys(m))
}

// ItemsByClientID joins the item list with the mapping so each client id
// resolves to its menu item. Mapped ids missing from items are skipped.
func ItemsByClientID(items []MenuItem, mapping Mapping) map[string]MenuItem {
	byID := make(map[int64]MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make(map[string]MenuItem, len(mapping))
	for id, clientID := range mapping {
		if item, ok := byID[id]; ok {
			out[clientID] = item
		}
	}
	return out
}
