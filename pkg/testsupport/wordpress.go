package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// Default endpoint paths served by FakeWordPress.
const (
	MenuItemsPath = "/wp-json/__experimental/menu-items"
	SaveNoncePath = "/wp-json/__experimental/customizer-nonces/get-save-nonce"
	AdminAjaxPath = "/wp-admin/admin-ajax.php"
)

// FakeItem is a menu item held by FakeWordPress.
type FakeItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	MenuOrder int    `json:"menu_order"`
	Parent    int64  `json:"parent"`
	Menus     int64  `json:"menus"`
	Status    string `json:"status,omitempty"`
}

// FakeWordPress is an httptest server implementing the menu-items resource,
// the customizer save nonce endpoint and the admin-ajax save action.
type FakeWordPress struct {
	Server *httptest.Server

	mu          sync.Mutex
	nextID      int64
	items       []FakeItem
	creates     int
	lists       int
	nonceCalls  int
	submissions []map[string]string

	Nonce        string
	Stylesheet   string
	SaveSuccess  bool
	SaveStatus   int
	CreateStatus int
	PageSize     int
	Username     string
	Password     string
}

// NewFakeWordPress starts a server that hands out a nonce and accepts saves.
func NewFakeWordPress() *FakeWordPress {
	fake := &FakeWordPress{
		nextID:      100,
		Nonce:       "nonce-123",
		Stylesheet:  "twentytwenty",
		SaveSuccess: true,
		PageSize:    100,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+MenuItemsPath, fake.handleCreate)
	mux.HandleFunc("GET "+MenuItemsPath, fake.handleList)
	mux.HandleFunc("GET "+SaveNoncePath, fake.handleNonce)
	mux.HandleFunc("POST "+AdminAjaxPath, fake.handleSave)
	fake.Server = httptest.NewServer(fake.authorize(mux))
	return fake
}

// URL is the server base URL.
func (f *FakeWordPress) URL() string {
	return f.Server.URL
}

// Close stops the server.
func (f *FakeWordPress) Close() {
	f.Server.Close()
}

// Seed stores items as if they already existed remotely.
func (f *FakeWordPress) Seed(items ...FakeItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		if item.ID >= f.nextID {
			f.nextID = item.ID + 1
		}
		f.items = append(f.items, item)
	}
}

// Creates reports how many items were created through the API.
func (f *FakeWordPress) Creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

// Lists reports how many list requests were served.
func (f *FakeWordPress) Lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

// NonceCalls reports how many nonce requests were served.
func (f *FakeWordPress) NonceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonceCalls
}

// Submissions returns the form fields of every save request.
func (f *FakeWordPress) Submissions() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]string, len(f.submissions))
	copy(out, f.submissions)
	return out
}

func (f *FakeWordPress) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.Username != "" {
			user, pass, ok := r.BasicAuth()
			if !ok || user != f.Username || pass != f.Password {
				writeFakeJSON(w, http.StatusUnauthorized, map[string]any{"code": "rest_forbidden"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeWordPress) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input FakeItem
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeFakeJSON(w, http.StatusBadRequest, map[string]any{"code": "invalid_json"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateStatus != 0 {
		writeFakeJSON(w, f.CreateStatus, map[string]any{"code": "create_failed"})
		return
	}
	f.creates++
	input.ID = f.nextID
	f.nextID++
	if input.Status == "" {
		input.Status = "draft"
	}
	f.items = append(f.items, input)
	writeFakeJSON(w, http.StatusCreated, input)
}

func (f *FakeWordPress) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	menuID, _ := strconv.ParseInt(query.Get("menus"), 10, 64)
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++

	matched := make([]FakeItem, 0, len(f.items))
	for _, item := range f.items {
		if menuID == 0 || item.Menus == menuID {
			matched = append(matched, item)
		}
	}

	size := f.PageSize
	if size <= 0 {
		size = len(matched) + 1
	}
	totalPages := (len(matched) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))

	w.Header().Set("X-WP-Total", strconv.Itoa(len(matched)))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))
	writeFakeJSON(w, http.StatusOK, matched[start:end])
}

func (f *FakeWordPress) handleNonce(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonceCalls++
	if f.Nonce == "" {
		writeFakeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeFakeJSON(w, http.StatusOK, map[string]any{
		"nonce":      f.Nonce,
		"stylesheet": f.Stylesheet,
	})
}

func (f *FakeWordPress) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeFakeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}
	fields := make(map[string]string, len(r.MultipartForm.Value))
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, fields)
	if f.SaveStatus != 0 {
		w.WriteHeader(f.SaveStatus)
		return
	}
	writeFakeJSON(w, http.StatusOK, map[string]any{"success": f.SaveSuccess})
}

func writeFakeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
