package menus

import (
	"context"
	"errors"
	"fmt"
)

// MappingStore persists the menu item to client id mapping of each post.
type MappingStore interface {
	Get(ctx context.Context, postID string) (Mapping, error)
	Set(ctx context.Context, postID string, mapping Mapping) error
}

// ItemStore caches menu item lists per query key.
type ItemStore interface {
	Get(ctx context.Context, queryKey string) ([]MenuItem, bool)
	Publish(ctx context.Context, kind, name string, records []MenuItem, queryKey string, invalidate bool)
}

// Lister fetches the full item list of a menu from the remote API.
type Lister interface {
	ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error)
}

// Entity coordinates used when publishing menu items.
const (
	EntityKind = "root"
	EntityName = "menuItem"
)

var (
	ErrPostIDRequired = errors.New("menus: post id is required")
	ErrMenuIDRequired = errors.New("menus: menu id is required")
	ErrListerRequired = errors.New("menus: item lister is required")
)

// NotFoundError is returned when a stored resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
