package navsync

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-navsync/internal/changeset"
	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/metrics"
	"github.com/goliatone/go-navsync/internal/remote"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// Customizer form field names, in submission order.
const (
	FieldCustomize       = "wp_customize"
	FieldTheme           = "customize_theme"
	FieldNonce           = "nonce"
	FieldChangesetUUID   = "customize_changeset_uuid"
	FieldAutosaved       = "customize_autosaved"
	FieldChangesetStatus = "customize_changeset_status"
	FieldAction          = "action"
	FieldCustomized      = "customized"

	actionCustomizeSave = "customize_save"
)

// Saver submits the navigation changeset and emits exactly one notice per
// attempt. It expects the post to be reconciled first.
type Saver struct {
	mappings  menus.MappingStore
	resolver  *menus.ItemResolver
	nonces    NonceFetcher
	submitter ChangesetSubmitter
	notifier  interfaces.Notifier
	opts      options
	logger    interfaces.Logger
}

// NewSaver wires a saver. A nil notifier discards notices.
func NewSaver(mappings menus.MappingStore, resolver *menus.ItemResolver, nonces NonceFetcher, submitter ChangesetSubmitter, notifier interfaces.Notifier, opts ...Option) (*Saver, error) {
	switch {
	case mappings == nil:
		return nil, ErrMappingStoreMissing
	case resolver == nil:
		return nil, ErrResolverMissing
	case nonces == nil:
		return nil, ErrNonceFetcherMissing
	case submitter == nil:
		return nil, ErrSubmitterMissing
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	cfg := buildOptions(opts)
	return &Saver{
		mappings:  mappings,
		resolver:  resolver,
		nonces:    nonces,
		submitter: submitter,
		notifier:  notifier,
		opts:      cfg,
		logger:    cfg.saveLogger(),
	}, nil
}

// Save reports whether the save endpoint accepted the changeset. Every failure
// collapses into the same generic error notice.
func (s *Saver) Save(ctx context.Context, post *menus.Post) bool {
	return s.save(ctx, post) == metrics.OutcomeSuccess
}

func (s *Saver) save(ctx context.Context, post *menus.Post) string {
	started := s.opts.now()
	logger := logging.FromContext(ctx, s.logger)
	if post != nil {
		logger = logging.WithNavigationContext(logger, post.ID, post.MenuID())
	}

	outcome := metrics.OutcomeSuccess
	if err := s.submit(ctx, post, logger); err != nil {
		outcome = classify(err)
		s.notifier.Error(ctx, s.message(MessageKeySaveFailed, DefaultSaveFailedMessage), snackbar())
		logger.Error("navsync.save.failed", "outcome", outcome, "error", err)
	} else {
		s.notifier.Success(ctx, s.message(MessageKeySaved, DefaultSavedMessage), snackbar())
		logger.Info("navsync.save.completed")
	}

	s.opts.recorder.SaveCompleted(outcome, s.opts.now().Sub(started))
	return outcome
}

func (s *Saver) submit(ctx context.Context, post *menus.Post, logger interfaces.Logger) error {
	nav, err := validatePost(post)
	if err != nil {
		return err
	}
	menuID := post.MenuID()

	items, err := s.resolver.Resolve(ctx, menuID)
	if err != nil {
		return err
	}
	mapping, err := s.mappings.Get(ctx, post.ID)
	if err != nil {
		return err
	}
	customized, err := changeset.Compute(nav.Children(), menuID, menus.ItemsByClientID(items, mapping))
	if err != nil {
		return err
	}

	nonce, err := s.nonces.FetchSaveNonce(ctx)
	if err != nil {
		return err
	}
	if nonce == nil || strings.TrimSpace(nonce.Nonce) == "" {
		return ErrNonceMissing
	}

	payload := remote.NewPayload().
		Add(FieldCustomize, "on").
		Add(FieldTheme, nonce.Stylesheet).
		Add(FieldNonce, nonce.Nonce).
		Add(FieldChangesetUUID, s.opts.newUUID()).
		Add(FieldAutosaved, "on").
		Add(FieldChangesetStatus, "publish").
		Add(FieldAction, actionCustomizeSave).
		Add(FieldCustomized, customized)

	logger.Debug("navsync.save.submitting", "items", len(items), "bytes", len(customized))
	resp, err := s.submitter.SubmitChangeset(ctx, payload)
	if err != nil {
		return err
	}
	if resp == nil || !resp.Success {
		return ErrSaveRejected
	}
	return nil
}

func (s *Saver) message(key, fallback string) string {
	if s.opts.translator == nil {
		return fallback
	}
	msg, err := s.opts.translator.Translate(s.opts.locale, key)
	if err != nil || msg == "" || msg == key {
		return fallback
	}
	return msg
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrNonceMissing):
		return metrics.OutcomeNonceMissing
	case errors.Is(err, ErrSaveRejected):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func snackbar() interfaces.NoticeOptions {
	return interfaces.NoticeOptions{Type: interfaces.NoticeTypeSnackbar}
}

func newChangesetUUID() string {
	return uuid.NewString()
}

type discardNotifier struct{}

func (discardNotifier) Success(context.Context, string, interfaces.NoticeOptions) {}
func (discardNotifier) Error(context.Context, string, interfaces.NoticeOptions)   {}
