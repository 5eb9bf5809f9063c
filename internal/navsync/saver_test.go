package navsync

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-navsync/internal/i18n"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/notices"
	"github.com/goliatone/go-navsync/internal/remote"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

func reconciled(t *testing.T, h *harness) *menus.Post {
	t.Helper()
	post := navPost("post-1", 7, navLink("home"), navLink("about", navLink("team")))
	if _, err := h.service.Reconciler().Reconcile(context.Background(), post); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	return post
}

func assertSingleNotice(t *testing.T, store *notices.Store, status notices.Status, message string) {
	t.Helper()
	list := store.List()
	if len(list) != 1 {
		t.Fatalf("expected exactly one notice, got %+v", list)
	}
	if list[0].Status != status || list[0].Message != message {
		t.Fatalf("unexpected notice %+v", list[0])
	}
	if list[0].Type != interfaces.NoticeTypeSnackbar {
		t.Fatalf("expected snackbar notice, got %q", list[0].Type)
	}
}

func TestSaveSubmitsOnceAndNotifiesSuccess(t *testing.T) {
	h := newHarness(t, WithChangesetUUID(func() string { return "uuid-1" }))
	post := reconciled(t, h)

	if !h.service.Saver().Save(context.Background(), post) {
		t.Fatal("expected save to succeed")
	}
	if h.remote.submissionCount() != 1 {
		t.Fatalf("expected one submission, got %d", h.remote.submissionCount())
	}
	assertSingleNotice(t, h.notices, notices.StatusSuccess, "Navigation saved.")

	payload := h.remote.submissions[0]
	wantOrder := []string{
		FieldCustomize, FieldTheme, FieldNonce, FieldChangesetUUID,
		FieldAutosaved, FieldChangesetStatus, FieldAction, FieldCustomized,
	}
	fields := payload.Fields()
	if len(fields) != len(wantOrder) {
		t.Fatalf("expected %d fields, got %d", len(wantOrder), len(fields))
	}
	for i, name := range wantOrder {
		if fields[i].Name != name {
			t.Fatalf("field %d: expected %q, got %q", i, name, fields[i].Name)
		}
	}
	if v, _ := payload.Get(FieldTheme); v != "twentytwenty" {
		t.Fatalf("unexpected theme %q", v)
	}
	if v, _ := payload.Get(FieldChangesetUUID); v != "uuid-1" {
		t.Fatalf("unexpected changeset uuid %q", v)
	}
	if v, _ := payload.Get(FieldAction); v != "customize_save" {
		t.Fatalf("unexpected action %q", v)
	}

	customized, _ := payload.Get(FieldCustomized)
	var settings map[string]json.RawMessage
	if err := json.Unmarshal([]byte(customized), &settings); err != nil {
		t.Fatalf("decode customized: %v", err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %s", customized)
	}
	if !strings.Contains(string(settings["nav_menu_item[102]"]), `"menu_item_parent":101`) {
		t.Fatalf("expected team nested under about, got %s", settings["nav_menu_item[102]"])
	}
}

func TestSaveWithoutNonceDoesNotSubmit(t *testing.T) {
	h := newHarness(t)
	post := reconciled(t, h)
	h.remote.nonce = &remote.SaveNonce{}

	if h.service.Saver().Save(context.Background(), post) {
		t.Fatal("expected save to fail")
	}
	if h.remote.submissionCount() != 0 {
		t.Fatalf("expected no submission, got %d", h.remote.submissionCount())
	}
	assertSingleNotice(t, h.notices, notices.StatusError, "There was an error.")
}

func TestSaveRejectedResponse(t *testing.T) {
	h := newHarness(t)
	post := reconciled(t, h)
	h.remote.saveResp = &remote.SaveResponse{Success: false}

	if h.service.Saver().Save(context.Background(), post) {
		t.Fatal("expected save to fail")
	}
	if h.remote.submissionCount() != 1 {
		t.Fatalf("expected exactly one submission, got %d", h.remote.submissionCount())
	}
	assertSingleNotice(t, h.notices, notices.StatusError, "There was an error.")
}

func TestSaveTransportError(t *testing.T) {
	h := newHarness(t)
	post := reconciled(t, h)
	h.remote.saveErr = errTransport

	if h.service.Saver().Save(context.Background(), post) {
		t.Fatal("expected save to fail")
	}
	if h.remote.submissionCount() != 1 {
		t.Fatalf("expected exactly one submission, got %d", h.remote.submissionCount())
	}
	assertSingleNotice(t, h.notices, notices.StatusError, "There was an error.")
}

func TestSaveLocalizesNotices(t *testing.T) {
	svc, err := i18n.NewDefaultService()
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}
	h := newHarness(t, WithTranslator(svc.Translator(), "es-MX"))
	post := reconciled(t, h)

	if !h.service.Saver().Save(context.Background(), post) {
		t.Fatal("expected save to succeed")
	}
	assertSingleNotice(t, h.notices, notices.StatusSuccess, "Navegación guardada.")
}

func TestClassifyOutcomes(t *testing.T) {
	if got := classify(ErrNonceMissing); got != "nonce_missing" {
		t.Fatalf("unexpected outcome %q", got)
	}
	if got := classify(ErrSaveRejected); got != "rejected" {
		t.Fatalf("unexpected outcome %q", got)
	}
	if got := classify(errTransport); got != "error" {
		t.Fatalf("unexpected outcome %q", got)
	}
}
