package navsync

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/metrics"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// SaveOutcome summarises one reconcile and save run.
type SaveOutcome struct {
	PostID  string
	MenuID  int64
	Created int
	Mapping menus.Mapping
	Saved   bool
	Result  string
}

// Service runs reconciliation then save for a post. Runs for the same post
// never overlap.
type Service struct {
	reconciler *Reconciler
	saver      *Saver
	logger     interfaces.Logger
}

// NewService wires the workflow.
func NewService(reconciler *Reconciler, saver *Saver, opts ...Option) *Service {
	cfg := buildOptions(opts)
	return &Service{
		reconciler: reconciler,
		saver:      saver,
		logger:     cfg.moduleLogger(),
	}
}

// Reconciler exposes the reconciliation stage.
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}

// Saver exposes the save stage.
func (s *Service) Saver() *Saver {
	return s.saver
}

// SaveNavigationPost reconciles post and then saves it. Reconciliation errors
// are returned without a notice; save failures surface only through the
// notice and SaveOutcome.Saved.
func (s *Service) SaveNavigationPost(ctx context.Context, post *menus.Post) (SaveOutcome, error) {
	if post == nil {
		return SaveOutcome{}, wrapError(ErrPostRequired, goerrors.CategoryValidation, "navigation post invalid", TextCodeInvalidPost)
	}
	outcome := SaveOutcome{PostID: post.ID, MenuID: post.MenuID()}

	release, err := s.reconciler.locks.acquire(ctx, post.ID)
	if err != nil {
		return outcome, wrapError(err, goerrors.CategoryInternal, "wait for navigation lock", TextCodeLockFailed)
	}
	defer release()

	logger := logging.WithNavigationContext(logging.FromContext(ctx, s.logger), post.ID, post.MenuID())

	result, err := s.reconciler.reconcile(ctx, post)
	if err != nil {
		return outcome, err
	}
	outcome.Created = result.Created
	outcome.Mapping = result.Mapping

	outcome.Result = s.saver.save(ctx, post)
	outcome.Saved = outcome.Result == metrics.OutcomeSuccess

	logger.Info("navsync.workflow.completed", "created", outcome.Created, "saved", outcome.Saved)
	return outcome, nil
}
