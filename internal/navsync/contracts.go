package navsync

import (
	"context"
	"time"

	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/remote"
)

// Creator creates remote menu items.
type Creator interface {
	CreateMenuItem(ctx context.Context, input menus.CreateMenuItemInput) (*menus.MenuItem, error)
}

// NonceFetcher returns the customizer save nonce and active stylesheet.
type NonceFetcher interface {
	FetchSaveNonce(ctx context.Context) (*remote.SaveNonce, error)
}

// ChangesetSubmitter posts a save form to the admin-ajax endpoint.
type ChangesetSubmitter interface {
	SubmitChangeset(ctx context.Context, payload *remote.Payload) (*remote.SaveResponse, error)
}

// Recorder receives workflow measurements.
type Recorder interface {
	ItemsCreatedAdd(n int)
	ReconcileCompleted(err error)
	SaveCompleted(outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ItemsCreatedAdd(int)                 {}
func (noopRecorder) ReconcileCompleted(error)            {}
func (noopRecorder) SaveCompleted(string, time.Duration) {}
