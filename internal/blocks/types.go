package blocks

import (
	"fmt"
	"strings"
)

// Block is one node of the editor document tree. ClientID is generated by the
// editor and is only stable within an editing session.
type Block struct {
	ClientID    string         `json:"clientId"`
	Name        string         `json:"name"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	InnerBlocks []*Block       `json:"innerBlocks,omitempty"`
}

// Navigation link attributes read by the changeset serializer.
const (
	AttributeLabel = "label"
	AttributeURL   = "url"
)

// Attribute returns the string form of an attribute, or "" when absent.
func (b *Block) Attribute(key string) string {
	if b == nil || b.Attributes == nil {
		return ""
	}
	raw, ok := b.Attributes[key]
	if !ok || raw == nil {
		return ""
	}
	if str, ok := raw.(string); ok {
		return str
	}
	return fmt.Sprint(raw)
}

// Label is the navigation link label.
func (b *Block) Label() string {
	return b.Attribute(AttributeLabel)
}

// URL is the navigation link destination.
func (b *Block) URL() string {
	return b.Attribute(AttributeURL)
}

// Children returns the non-nil inner blocks.
func (b *Block) Children() []*Block {
	if b == nil || len(b.InnerBlocks) == 0 {
		return nil
	}
	out := make([]*Block, 0, len(b.InnerBlocks))
	for _, child := range b.InnerBlocks {
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Validate checks that every block below root carries a unique client id.
func Validate(root *Block) error {
	if root == nil {
		return ErrNavigationRootMissing
	}
	seen := map[string]struct{}{}
	return Walk(root, OrderDocument, func(b *Block) error {
		id := strings.TrimSpace(b.ClientID)
		if id == "" {
			return ErrClientIDRequired
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateClientID, id)
		}
		seen[id] = struct{}{}
		return nil
	})
}
