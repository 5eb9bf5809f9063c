package navsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/notices"
	"github.com/goliatone/go-navsync/internal/remote"
)

var errTransport = errors.New("transport down")

type fakeRemote struct {
	mu          sync.Mutex
	nextID      int64
	items       []menus.MenuItem
	creates     []menus.CreateMenuItemInput
	lists       int
	failCreate  int
	createDelay time.Duration
	nonce       *remote.SaveNonce
	nonceErr    error
	saveResp    *remote.SaveResponse
	saveErr     error
	submissions []*remote.Payload
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		nextID:   100,
		nonce:    &remote.SaveNonce{Nonce: "nonce-1", Stylesheet: "twentytwenty"},
		saveResp: &remote.SaveResponse{Success: true},
	}
}

func (f *fakeRemote) CreateMenuItem(_ context.Context, input menus.CreateMenuItemInput) (*menus.MenuItem, error) {
	if f.createDelay > 0 {
		time.Sleep(f.createDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, input)
	if f.failCreate > 0 && len(f.creates) >= f.failCreate {
		return nil, errTransport
	}
	item := menus.MenuItem{
		ID:    f.nextID,
		Title: menus.RenderedText{Raw: input.Title},
		URL:   input.URL,
		Menus: input.Menus,
	}
	f.nextID++
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeRemote) ListMenuItems(_ context.Context, menuID int64) ([]menus.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []menus.MenuItem
	for _, item := range f.items {
		if item.Menus == menuID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) FetchSaveNonce(context.Context) (*remote.SaveNonce, error) {
	if f.nonceErr != nil {
		return nil, f.nonceErr
	}
	return f.nonce, nil
}

func (f *fakeRemote) SubmitChangeset(_ context.Context, payload *remote.Payload) (*remote.SaveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, payload)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.saveResp, nil
}

func (f *fakeRemote) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakeRemote) submissionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

type harness struct {
	remote   *fakeRemote
	mappings menus.MappingStore
	resolver *menus.ItemResolver
	notices  *notices.Store
	service  *Service
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		remote:   newFakeRemote(),
		mappings: menus.NewMemoryMappingStore(),
		notices:  notices.NewStore(),
	}
	h.resolver = menus.NewItemResolver(menus.NewCacheItemStore(0), h.remote)

	reconciler, err := NewReconciler(h.mappings, h.resolver, h.remote, opts...)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	saver, err := NewSaver(h.mappings, h.resolver, h.remote, h.remote, h.notices, opts...)
	if err != nil {
		t.Fatalf("new saver: %v", err)
	}
	h.service = NewService(reconciler, saver, opts...)
	return h
}

func navLink(id string, children ...*blocks.Block) *blocks.Block {
	return &blocks.Block{
		ClientID:    id,
		Name:        "core/navigation-link",
		Attributes:  map[string]any{"label": id, "url": "/" + id},
		InnerBlocks: children,
	}
}

func navPost(id string, menuID int64, children ...*blocks.Block) *menus.Post {
	return &menus.Post{
		ID:   id,
		Meta: menus.PostMeta{MenuID: menuID},
		Blocks: []*blocks.Block{{
			ClientID:    "navigation",
			Name:        "core/navigation",
			InnerBlocks: children,
		}},
	}
}
