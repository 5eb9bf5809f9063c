package navsync

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/identity"
	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// ReconcileResult reports the outcome of one reconciliation pass.
type ReconcileResult struct {
	Created int
	Mapping menus.Mapping
}

// Reconciler makes sure every block below the navigation container has a
// remote menu item. The mapping is extended in memory and committed once
// after the walk, so a failure part way through persists nothing. Passes for
// the same post never overlap.
type Reconciler struct {
	locks    *postLocks
	mappings menus.MappingStore
	resolver *menus.ItemResolver
	creator  Creator
	opts     options
	logger   interfaces.Logger
}

// NewReconciler wires a reconciler.
func NewReconciler(mappings menus.MappingStore, resolver *menus.ItemResolver, creator Creator, opts ...Option) (*Reconciler, error) {
	switch {
	case mappings == nil:
		return nil, ErrMappingStoreMissing
	case resolver == nil:
		return nil, ErrResolverMissing
	case creator == nil:
		return nil, ErrCreatorMissing
	}
	cfg := buildOptions(opts)
	return &Reconciler{
		locks:    newPostLocks(),
		mappings: mappings,
		resolver: resolver,
		creator:  creator,
		opts:     cfg,
		logger:   cfg.reconcileLogger(),
	}, nil
}

// Reconcile creates a placeholder item for every unmapped block of post and
// stores the extended mapping. It waits for any other pass on the same post.
func (r *Reconciler) Reconcile(ctx context.Context, post *menus.Post) (ReconcileResult, error) {
	if post == nil {
		return r.reconcile(ctx, post)
	}
	release, err := r.locks.acquire(ctx, post.ID)
	if err != nil {
		return ReconcileResult{}, wrapError(err, goerrors.CategoryInternal, "wait for navigation lock", TextCodeLockFailed)
	}
	defer release()
	return r.reconcile(ctx, post)
}

// reconcile expects the caller to hold the post lock.
func (r *Reconciler) reconcile(ctx context.Context, post *menus.Post) (_ ReconcileResult, err error) {
	defer func() {
		r.opts.recorder.ReconcileCompleted(err)
	}()

	nav, err := validatePost(post)
	if err != nil {
		return ReconcileResult{}, err
	}
	menuID := post.MenuID()
	logger := logging.WithNavigationContext(logging.FromContext(ctx, r.logger), post.ID, menuID)

	stored, err := r.mappings.Get(ctx, post.ID)
	if err != nil {
		return ReconcileResult{}, wrapError(err, goerrors.CategoryInternal, "load navigation mapping", TextCodeMappingFailed)
	}
	if _, err := r.resolver.Resolve(ctx, menuID); err != nil {
		return ReconcileResult{}, wrapError(err, goerrors.CategoryExternal, "resolve menu items", TextCodeResolveFailed)
	}

	mapping := stored.Clone()
	known := mapping.Invert()
	queryKey := identity.MenuItemsQueryKey(menuID)
	created := 0

	walkErr := blocks.Walk(nav, r.opts.order, func(block *blocks.Block) error {
		if _, ok := known[block.ClientID]; ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := r.creator.CreateMenuItem(ctx, menus.CreateMenuItemInput{
			Title:     r.opts.placeholderTitle,
			URL:       r.opts.placeholderURL,
			MenuOrder: 0,
			Menus:     menuID,
		})
		if err != nil {
			return wrapError(err, goerrors.CategoryExternal, "create menu item", TextCodeCreateFailed)
		}
		if item == nil || item.ID == 0 {
			return wrapError(ErrCreatedItemMissing, goerrors.CategoryExternal, "create menu item", TextCodeCreateFailed)
		}

		mapping[item.ID] = block.ClientID
		known[block.ClientID] = item.ID
		created++
		r.opts.recorder.ItemsCreatedAdd(1)

		items, err := r.resolver.Resolve(ctx, menuID)
		if err != nil {
			return wrapError(err, goerrors.CategoryExternal, "resolve menu items", TextCodeResolveFailed)
		}
		r.resolver.Store().Publish(ctx, menus.EntityKind, menus.EntityName, append(items, *item), queryKey, false)

		logger.Debug("navsync.reconcile.item_created", "client_id", block.ClientID, "menu_item_id", item.ID)
		return nil
	})
	if walkErr != nil {
		logger.Error("navsync.reconcile.failed", "created", created, "error", walkErr)
		return ReconcileResult{}, walkErr
	}

	if err := r.mappings.Set(ctx, post.ID, mapping); err != nil {
		logger.Error("navsync.reconcile.commit_failed", "error", err)
		return ReconcileResult{}, wrapError(err, goerrors.CategoryInternal, "store navigation mapping", TextCodeMappingFailed)
	}

	logger.Info("navsync.reconcile.completed", "blocks", blocks.Count(nav), "created", created, "mapped", len(mapping))
	return ReconcileResult{Created: created, Mapping: mapping.Clone()}, nil
}

func validatePost(post *menus.Post) (*blocks.Block, error) {
	var err error
	switch {
	case post == nil:
		err = ErrPostRequired
	case strings.TrimSpace(post.ID) == "":
		err = ErrPostIDRequired
	case post.MenuID() <= 0:
		err = ErrMenuIDRequired
	case post.NavigationBlock() == nil:
		err = ErrNavigationMissing
	}
	if err != nil {
		return nil, wrapError(err, goerrors.CategoryValidation, "navigation post invalid", TextCodeInvalidPost)
	}

	nav := post.NavigationBlock()
	if err := blocks.Validate(nav); err != nil {
		return nil, wrapError(err, goerrors.CategoryValidation, "navigation post invalid", TextCodeInvalidPost)
	}
	return nav, nil
}
