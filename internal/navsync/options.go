package navsync

import (
	"strings"
	"time"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// Placeholder values sent when creating an item for an unmapped block.
const (
	DefaultPlaceholderTitle = "Placeholder"
	DefaultPlaceholderURL   = "Placeholder"
)

// Notice message keys and their fallback text.
const (
	MessageKeySaved      = "navigation.saved"
	MessageKeySaveFailed = "navigation.save_failed"

	DefaultSavedMessage      = "Navigation saved."
	DefaultSaveFailedMessage = "There was an error."
)

// Option configures the reconciler, saver and service.
type Option func(*options)

type options struct {
	order            blocks.Order
	placeholderTitle string
	placeholderURL   string
	loggerProvider   interfaces.LoggerProvider
	recorder         Recorder
	translator       interfaces.Translator
	locale           string
	now              func() time.Time
	newUUID          func() string
}

func defaultOptions() options {
	return options{
		order:            blocks.OrderDocument,
		placeholderTitle: DefaultPlaceholderTitle,
		placeholderURL:   DefaultPlaceholderURL,
		recorder:         noopRecorder{},
		now:              time.Now,
		newUUID:          newChangesetUUID,
	}
}

func buildOptions(opts []Option) options {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTraversalOrder selects the sibling order of the reconciliation walk.
func WithTraversalOrder(order blocks.Order) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithPlaceholder overrides the title and url of created items.
func WithPlaceholder(title, url string) Option {
	return func(o *options) {
		if strings.TrimSpace(title) != "" {
			o.placeholderTitle = title
		}
		if strings.TrimSpace(url) != "" {
			o.placeholderURL = url
		}
	}
}

// WithLoggerProvider sets the provider module loggers are taken from.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.loggerProvider = provider
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(recorder Recorder) Option {
	return func(o *options) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// WithTranslator localizes notice messages for locale.
func WithTranslator(translator interfaces.Translator, locale string) Option {
	return func(o *options) {
		o.translator = translator
		o.locale = locale
	}
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithChangesetUUID overrides the changeset identifier generator.
func WithChangesetUUID(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newUUID = fn
		}
	}
}

func (o options) reconcileLogger() interfaces.Logger {
	return logging.ReconcileLogger(o.loggerProvider)
}

func (o options) saveLogger() interfaces.Logger {
	return logging.SaveLogger(o.loggerProvider)
}

func (o options) moduleLogger() interfaces.Logger {
	return logging.ModuleLogger(o.loggerProvider, "")
}
