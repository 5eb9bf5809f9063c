// Package changeset serializes a navigation block tree into the "customized"
// attribute accepted by the customizer save action.
package changeset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/menus"
)

// StatusPublish is the status every submitted item carries.
const StatusPublish = "publish"

var ErrMenuIDRequired = errors.New("changeset: menu id is required")

// ItemFields carries the stored fields of a mapped menu item. Every field is
// sent, zero values included.
type ItemFields struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Object      string `json:"object"`
	ObjectID    int64  `json:"object_id"`
	Parent      int64  `json:"parent"`
	MenuOrder   int    `json:"menu_order"`
	Target      string `json:"target"`
	AttrTitle   string `json:"attr_title"`
	Description string `json:"description"`
}

// RequestItem is the setting value of one nav_menu_item entry. Unmapped
// blocks carry no ItemFields.
type RequestItem struct {
	*ItemFields

	Position       int    `json:"position"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	OriginalTitle  string `json:"original_title"`
	Classes        string `json:"classes"`
	XFN            string `json:"xfn"`
	NavMenuTermID  int64  `json:"nav_menu_term_id"`
	MenuItemParent int64  `json:"menu_item_parent"`
	Status         string `json:"status"`
	Invalid        bool   `json:"_invalid"`
}

// Entry is one block of the flattened tree.
type Entry struct {
	Block    *blocks.Block
	ItemID   int64
	ParentID int64
	Position int
	Mapped   bool
}

// Flatten lists children and their descendants in document order. Each entry
// records its 1-based position among siblings and the item id of its parent
// (0 at the top level). Unmapped blocks receive negative ids -1, -2, ... in
// visit order so their own children can still reference them.
func Flatten(children []*blocks.Block, itemsByClientID map[string]menus.MenuItem) []Entry {
	var out []Entry
	next := int64(0)

	var walk func(level []*blocks.Block, parentID int64)
	walk = func(level []*blocks.Block, parentID int64) {
		position := 0
		for _, block := range level {
			if block == nil {
				continue
			}
			position++
			entry := Entry{Block: block, ParentID: parentID, Position: position}
			if item, ok := itemsByClientID[block.ClientID]; ok && item.ID != 0 {
				entry.ItemID = item.ID
				entry.Mapped = true
			} else {
				next--
				entry.ItemID = next
			}
			out = append(out, entry)
			walk(block.Children(), entry.ItemID)
		}
	}
	walk(children, 0)
	return out
}

// Build returns the request items keyed by setting id, plus false for every
// mapped item that no longer appears in the tree.
func Build(children []*blocks.Block, menuID int64, itemsByClientID map[string]menus.MenuItem) (map[string]any, error) {
	if menuID <= 0 {
		return nil, ErrMenuIDRequired
	}

	entries := Flatten(children, itemsByClientID)
	out := make(map[string]any, len(entries)+len(itemsByClientID))
	for _, entry := range entries {
		item := itemsByClientID[entry.Block.ClientID]
		out[SettingID(entry.ItemID)] = requestItem(entry, item, menuID)
	}

	for _, item := range itemsByClientID {
		if item.ID == 0 {
			continue
		}
		key := SettingID(item.ID)
		if _, ok := out[key]; !ok {
			out[key] = false
		}
	}
	return out, nil
}

// Compute serializes Build's result. Map keys are sorted by encoding/json so
// identical inputs always yield identical output.
func Compute(children []*blocks.Block, menuID int64, itemsByClientID map[string]menus.MenuItem) (string, error) {
	data, err := Build(children, menuID, itemsByClientID)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("changeset: encode: %w", err)
	}
	return string(raw), nil
}

// SettingID formats the customizer setting id of a menu item.
func SettingID(id int64) string {
	return "nav_menu_item[" + strconv.FormatInt(id, 10) + "]"
}

func requestItem(entry Entry, item menus.MenuItem, menuID int64) RequestItem {
	req := RequestItem{
		Position:       entry.Position,
		Title:          entry.Block.Label(),
		URL:            entry.Block.URL(),
		Classes:        strings.Join(item.Classes, " "),
		XFN:            strings.Join(item.XFN, " "),
		NavMenuTermID:  menuID,
		MenuItemParent: entry.ParentID,
		Status:         StatusPublish,
	}
	if entry.Mapped {
		req.ItemFields = &ItemFields{
			ID:          item.ID,
			Type:        item.Type,
			Object:      item.Object,
			ObjectID:    item.ObjectID,
			Parent:      item.Parent,
			MenuOrder:   item.MenuOrder,
			Target:      item.Target,
			AttrTitle:   item.AttrTitle,
			Description: item.Description,
		}
	}
	return req
}
