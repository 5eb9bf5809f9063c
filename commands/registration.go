package commands

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	navigationcmd "github.com/goliatone/go-navsync/internal/commands/navigation"
	"github.com/goliatone/go-navsync/internal/di"
)

// ErrNoHandlers is returned when the container exposes no command handlers.
var ErrNoHandlers = errors.New("no command handlers registered; ensure the container is configured")

// ErrUnsupportedHandler is returned by GlobalDispatcher for unknown handler types.
var ErrUnsupportedHandler = errors.New("command handler type is not supported by the dispatcher")

// CommandRegistry records command handlers so hosts can expose them via CLI or HTTP.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe releases every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands registers the navigation handlers built by
// container with the optional registry and dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 2),
		Subscriptions: make([]CommandSubscription, 0, 2),
	}
	if container == nil {
		return result, ErrNoHandlers
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.SaveNavigationHandler(); handler != nil {
		register(handler)
	}
	if handler := container.ReconcileNavigationHandler(); handler != nil {
		register(handler)
	}

	if len(result.Handlers) == 0 {
		return result, ErrNoHandlers
	}
	return result, errs
}

// GlobalDispatcher subscribes navigation handlers on the go-command process
// dispatcher so hosts can dispatch commands by message type. Handlers run at
// most once per dispatch.
type GlobalDispatcher struct{}

// RegisterCommand satisfies CommandDispatcher.
func (GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *navigationcmd.SaveNavigationHandler:
		return dispatcher.SubscribeCommand[navigationcmd.SaveNavigationCommand](h, runner.WithMaxRetries(0)), nil
	case *navigationcmd.ReconcileNavigationHandler:
		return dispatcher.SubscribeCommand[navigationcmd.ReconcileNavigationCommand](h, runner.WithMaxRetries(0)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandler, handler)
	}
}
