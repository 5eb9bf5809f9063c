package navsync_test

import (
	"context"
	"errors"
	"testing"

	navsync "github.com/goliatone/go-navsync"
	"github.com/goliatone/go-navsync/pkg/testsupport"
)

func newModule(t *testing.T, fake *testsupport.FakeWordPress) *navsync.Module {
	t.Helper()
	cfg := navsync.DefaultConfig()
	cfg.Remote.BaseURL = fake.URL()

	module, err := navsync.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func post() *navsync.Post {
	return &navsync.Post{
		ID:   "post-9",
		Meta: navsync.PostMeta{MenuID: 7},
		Blocks: []*navsync.Block{{
			ClientID: "nav",
			Name:     "core/navigation",
			InnerBlocks: []*navsync.Block{
				{
					ClientID:   "parent",
					Attributes: map[string]any{"label": "Parent", "url": "/p"},
					InnerBlocks: []*navsync.Block{
						{ClientID: "child", Attributes: map[string]any{"label": "Child", "url": "/c"}},
					},
				},
			},
		}},
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := navsync.New(navsync.DefaultConfig()); !errors.Is(err, navsync.ErrRemoteBaseURLRequired) {
		t.Fatalf("expected ErrRemoteBaseURLRequired, got %v", err)
	}
}

func TestModuleSaveNavigationPost(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)
	module := newModule(t, fake)

	outcome, err := module.SaveNavigationPost(context.Background(), post())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !outcome.Saved || outcome.Created != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	mapping, err := module.Mapping(context.Background(), "post-9")
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected two mapped items, got %v", mapping)
	}

	notices := module.Notices()
	if len(notices) != 1 || notices[0].Message != "Navigation saved." {
		t.Fatalf("unexpected notices %+v", notices)
	}

	submissions := fake.Submissions()
	if len(submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(submissions))
	}
	if submissions[0]["nonce"] != fake.Nonce {
		t.Fatalf("expected nonce %q, got %q", fake.Nonce, submissions[0]["nonce"])
	}
}

func TestModuleSaveFailureSurfacesNotice(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)
	fake.SaveSuccess = false
	module := newModule(t, fake)

	outcome, err := module.SaveNavigationPost(context.Background(), post())
	if err != nil {
		t.Fatalf("expected save failure to be reported through the notice, got %v", err)
	}
	if outcome.Saved {
		t.Fatal("expected Saved to be false")
	}
	notices := module.Notices()
	if len(notices) != 1 || notices[0].Message != "There was an error." {
		t.Fatalf("unexpected notices %+v", notices)
	}

	err = module.SaveNavigation(context.Background(), navsync.SaveNavigationCommand{Post: post(), RequireSaved: true})
	if !errors.Is(err, navsync.ErrNavigationNotSaved) {
		t.Fatalf("expected ErrNavigationNotSaved, got %v", err)
	}
}

func TestModuleReconcileSkipsSave(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)
	module := newModule(t, fake)

	result, err := module.Reconcile(context.Background(), post())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("expected two created items, got %d", result.Created)
	}
	if err := module.ReconcileNavigation(context.Background(), navsync.ReconcileNavigationCommand{Post: post()}); err != nil {
		t.Fatalf("reconcile command: %v", err)
	}
	if fake.Creates() != 2 {
		t.Fatalf("expected the second pass to reuse mappings, got %d creates", fake.Creates())
	}
	if len(fake.Submissions()) != 0 || fake.NonceCalls() != 0 {
		t.Fatal("expected no save traffic")
	}
}

func TestModuleRejectsPostWithoutMenu(t *testing.T) {
	fake := testsupport.NewFakeWordPress()
	t.Cleanup(fake.Close)
	module := newModule(t, fake)

	p := post()
	p.Meta.MenuID = 0
	if _, err := module.SaveNavigationPost(context.Background(), p); !errors.Is(err, navsync.ErrMenuIDRequired) {
		t.Fatalf("expected ErrMenuIDRequired, got %v", err)
	}
	if fake.Creates() != 0 {
		t.Fatal("expected no remote calls")
	}
}
