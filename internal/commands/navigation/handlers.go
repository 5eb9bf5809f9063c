package navigationcmd

import (
	"context"

	"github.com/goliatone/go-navsync/internal/commands"
	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/navsync"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// SaveObserver receives the outcome of every save run.
type SaveObserver func(navsync.SaveOutcome)

// ReconcileObserver receives the result of every reconcile run.
type ReconcileObserver func(navsync.ReconcileResult)

// SaveNavigationHandler runs SaveNavigationCommand through the workflow service.
type SaveNavigationHandler struct {
	inner *commands.Handler[SaveNavigationCommand]
}

// NewSaveNavigationHandler wires the handler. observer may be nil.
func NewSaveNavigationHandler(service *navsync.Service, logger interfaces.Logger, observer SaveObserver, opts ...commands.HandlerOption[SaveNavigationCommand]) *SaveNavigationHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg SaveNavigationCommand) error {
		outcome, err := service.SaveNavigationPost(ctx, msg.Post)
		if observer != nil {
			observer(outcome)
		}
		if err != nil {
			return err
		}
		logging.WithNavigationContext(baseLogger, outcome.PostID, outcome.MenuID).
			Info("navigation.command.saved", "created", outcome.Created, "saved", outcome.Saved, "result", outcome.Result)
		if msg.RequireSaved && !outcome.Saved {
			return ErrNavigationNotSaved
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveNavigationCommand]{
		commands.WithLogger[SaveNavigationCommand](baseLogger),
		commands.WithOperation[SaveNavigationCommand]("navigation.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveNavigationHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveNavigationCommand].
func (h *SaveNavigationHandler) Execute(ctx context.Context, msg SaveNavigationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReconcileNavigationHandler runs ReconcileNavigationCommand.
type ReconcileNavigationHandler struct {
	inner *commands.Handler[ReconcileNavigationCommand]
}

// NewReconcileNavigationHandler wires the handler. observer may be nil.
func NewReconcileNavigationHandler(reconciler *navsync.Reconciler, logger interfaces.Logger, observer ReconcileObserver, opts ...commands.HandlerOption[ReconcileNavigationCommand]) *ReconcileNavigationHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ReconcileNavigationCommand) error {
		result, err := reconciler.Reconcile(ctx, msg.Post)
		if err != nil {
			return err
		}
		if observer != nil {
			observer(result)
		}
		logging.WithNavigationContext(baseLogger, msg.Post.ID, msg.Post.MenuID()).
			Info("navigation.command.reconciled", "created", result.Created, "mapped", len(result.Mapping))
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReconcileNavigationCommand]{
		commands.WithLogger[ReconcileNavigationCommand](baseLogger),
		commands.WithOperation[ReconcileNavigationCommand]("navigation.reconcile"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReconcileNavigationHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ReconcileNavigationCommand].
func (h *ReconcileNavigationHandler) Execute(ctx context.Context, msg ReconcileNavigationCommand) error {
	return h.inner.Execute(ctx, msg)
}
