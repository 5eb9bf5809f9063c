package notices

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

// Status is the severity of a notice.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Notice is one message surfaced to the editor.
type Notice struct {
	ID            string
	Status        Status
	Message       string
	Type          interfaces.NoticeType
	IsDismissible bool
	CreatedAt     time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the logger notices are echoed to.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		s.logger = logging.Ensure(logger)
	}
}

// Store keeps emitted notices in memory. A notice emitted with an ID that is
// already present replaces the previous one.
type Store struct {
	mu      sync.RWMutex
	notices []Notice
	now     func() time.Time
	logger  interfaces.Logger
}

var _ interfaces.Notifier = (*Store)(nil)

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Success(ctx context.Context, message string, opts interfaces.NoticeOptions) {
	s.add(ctx, StatusSuccess, message, opts)
}

func (s *Store) Error(ctx context.Context, message string, opts interfaces.NoticeOptions) {
	s.add(ctx, StatusError, message, opts)
}

// List returns the notices in emission order.
func (s *Store) List() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

func (s *Store) add(ctx context.Context, status Status, message string, opts interfaces.NoticeOptions) {
	if opts.Type == "" {
		opts.Type = interfaces.NoticeTypeDefault
	}
	notice := Notice{
		ID:            opts.ID,
		Status:        status,
		Message:       message,
		Type:          opts.Type,
		IsDismissible: opts.IsDismissible,
		CreatedAt:     s.now(),
	}
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}

	s.mu.Lock()
	replaced := false
	for i, existing := range s.notices {
		if existing.ID == notice.ID {
			s.notices = append(s.notices[:i], s.notices[i+1:]...)
			replaced = true
			break
		}
	}
	s.notices = append(s.notices, notice)
	s.mu.Unlock()

	logger := logging.FromContext(ctx, s.logger)
	args := []any{"notice_id", notice.ID, "type", string(notice.Type), "replaced", replaced}
	if status == StatusError {
		logger.Warn("navsync.notice.error", append(args, "message", message)...)
		return
	}
	logger.Info("navsync.notice.success", append(args, "message", message)...)
}
