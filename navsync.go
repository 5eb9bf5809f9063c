package navsync

import (
	"context"

	"github.com/goliatone/go-navsync/internal/blocks"
	navigationcmd "github.com/goliatone/go-navsync/internal/commands/navigation"
	"github.com/goliatone/go-navsync/internal/di"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/navsync"
	"github.com/goliatone/go-navsync/internal/notices"
)

// Post exports the editor post record.
type Post = menus.Post

// PostMeta exports the post metadata carrying the menu id.
type PostMeta = menus.PostMeta

// Block exports the editor block tree node.
type Block = blocks.Block

// Mapping exports the menu item id to client id mapping.
type Mapping = menus.Mapping

// SaveOutcome exports the summary of a reconcile and save run.
type SaveOutcome = navsync.SaveOutcome

// ReconcileResult exports the result of a reconciliation pass.
type ReconcileResult = navsync.ReconcileResult

// Notice exports a stored editor notice.
type Notice = notices.Notice

// SaveNavigationCommand exports the save command message.
type SaveNavigationCommand = navigationcmd.SaveNavigationCommand

// ReconcileNavigationCommand exports the reconcile command message.
type ReconcileNavigationCommand = navigationcmd.ReconcileNavigationCommand

// Errors surfaced by the navigation workflow.
var (
	ErrPostRequired       = navsync.ErrPostRequired
	ErrMenuIDRequired     = navsync.ErrMenuIDRequired
	ErrNavigationMissing  = navsync.ErrNavigationMissing
	ErrNonceMissing       = navsync.ErrNonceMissing
	ErrNavigationNotSaved = navigationcmd.ErrNavigationNotSaved
)

// Module is the top level navigation sync facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// SaveNavigationPost reconciles the post's navigation tree with the remote
// menu and submits the resulting changeset.
func (m *Module) SaveNavigationPost(ctx context.Context, post *Post) (SaveOutcome, error) {
	return m.container.Service().SaveNavigationPost(ctx, post)
}

// Reconcile creates remote items for unmapped blocks without saving.
func (m *Module) Reconcile(ctx context.Context, post *Post) (ReconcileResult, error) {
	return m.container.Reconciler().Reconcile(ctx, post)
}

// SaveNavigation runs the save command, including command validation.
func (m *Module) SaveNavigation(ctx context.Context, cmd SaveNavigationCommand) error {
	return m.container.SaveNavigationHandler().Execute(ctx, cmd)
}

// ReconcileNavigation runs the reconcile command.
func (m *Module) ReconcileNavigation(ctx context.Context, cmd ReconcileNavigationCommand) error {
	return m.container.ReconcileNavigationHandler().Execute(ctx, cmd)
}

// Mapping returns the stored mapping of postID.
func (m *Module) Mapping(ctx context.Context, postID string) (Mapping, error) {
	return m.container.MappingStore().Get(ctx, postID)
}

// Notices returns the notices emitted so far, oldest first. It is empty when a
// custom notifier replaced the built-in store.
func (m *Module) Notices() []Notice {
	store := m.container.Notices()
	if store == nil {
		return nil
	}
	return store.List()
}
