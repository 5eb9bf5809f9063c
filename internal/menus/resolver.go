package menus

import (
	"context"

	"github.com/goliatone/go-navsync/internal/identity"
)

// ItemResolver serves a menu's item list from the store, fetching it through
// the lister on a miss.
type ItemResolver struct {
	store  ItemStore
	lister Lister
}

// NewItemResolver wires a resolver. store defaults to NewDefaultItemStore.
func NewItemResolver(store ItemStore, lister Lister) *ItemResolver {
	if store == nil {
		store = NewDefaultItemStore()
	}
	return &ItemResolver{store: store, lister: lister}
}

// Store exposes the backing item store.
func (r *ItemResolver) Store() ItemStore {
	return r.store
}

// Resolve returns every item of menuID.
func (r *ItemResolver) Resolve(ctx context.Context, menuID int64) ([]MenuItem, error) {
	if menuID <= 0 {
		return nil, ErrMenuIDRequired
	}
	queryKey := identity.MenuItemsQueryKey(menuID)
	if items, ok := r.store.Get(ctx, queryKey); ok {
		return items, nil
	}
	if r.lister == nil {
		return nil, ErrListerRequired
	}

	items, err := r.lister.ListMenuItems(ctx, menuID)
	if err != nil {
		return nil, err
	}
	r.store.Publish(ctx, EntityKind, EntityName, items, queryKey, false)
	return cloneItems(items), nil
}
