package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

const (
	defaultPageSize  = 100
	maxItemPages     = 500
	defaultUserAgent = "go-navsync"
	maxErrorBody     = 64 << 10
)

// SaveNonce is the customizer nonce plus the active theme stylesheet.
type SaveNonce struct {
	Nonce      string
	Stylesheet string
}

// SaveResponse is the admin-ajax reply of a changeset submission.
type SaveResponse struct {
	Success bool
	Raw     []byte
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithBasicAuth sets the credentials sent with every request, typically an
// application password.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logging.Ensure(logger)
	}
}

// WithPageSize sets per_page for list requests.
func WithPageSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(agent) != "" {
			c.userAgent = agent
		}
	}
}

// Client talks to the menu-items REST resource and the customizer save
// endpoints of a WordPress site.
type Client struct {
	routes    *Routes
	http      *http.Client
	logger    interfaces.Logger
	username  string
	password  string
	pageSize  int
	userAgent string
}

// NewClient builds a client over routes.
func NewClient(routes *Routes, opts ...ClientOption) (*Client, error) {
	if routes == nil {
		return nil, ErrRoutesRequired
	}
	c := &Client{
		routes:    routes,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logging.NoOp(),
		pageSize:  defaultPageSize,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CreateMenuItem creates a single menu item and returns the stored record.
func (c *Client) CreateMenuItem(ctx context.Context, input menus.CreateMenuItemInput) (*menus.MenuItem, error) {
	const op = "create menu item"

	body, err := json.Marshal(input)
	if err != nil {
		return nil, wrapValidationError(err, op)
	}
	endpoint, err := c.routes.URL(RouteMenuItems, nil)
	if err != nil {
		return nil, wrapTransportError(err, op)
	}

	raw, _, err := c.do(ctx, op, http.MethodPost, endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, wrapTransportError(err, op)
	}

	var item menus.MenuItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, wrapTransportError(fmt.Errorf("%w: %v", ErrInvalidResponse, err), op)
	}
	if item.ID == 0 {
		return nil, wrapTransportError(fmt.Errorf("%w: %w", ErrInvalidResponse, ErrMissingIdentifier), op)
	}

	c.logger.Debug("menu item created", "menu_item_id", item.ID, "menu_id", input.Menus)
	return &item, nil
}

// ListMenuItems fetches every item of menuID, following X-WP-TotalPages.
func (c *Client) ListMenuItems(ctx context.Context, menuID int64) ([]menus.MenuItem, error) {
	const op = "list menu items"
	if menuID <= 0 {
		return nil, wrapValidationError(ErrMenuIDRequired, op)
	}

	items := make([]menus.MenuItem, 0)
	for page := 1; ; page++ {
		if page > maxItemPages {
			return nil, wrapTransportError(ErrTooManyItemPages, op)
		}
		query := url.Values{}
		query.Set("menus", strconv.FormatInt(menuID, 10))
		query.Set("per_page", strconv.Itoa(c.pageSize))
		query.Set("page", strconv.Itoa(page))

		endpoint, err := c.routes.URL(RouteMenuItems, query)
		if err != nil {
			return nil, wrapTransportError(err, op)
		}
		raw, header, err := c.do(ctx, op, http.MethodGet, endpoint, "", nil)
		if err != nil {
			return nil, wrapTransportError(err, op)
		}

		var batch []menus.MenuItem
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, wrapTransportError(fmt.Errorf("%w: %v", ErrInvalidResponse, err), op)
		}
		items = append(items, batch...)

		totalPages, _ := strconv.Atoi(header.Get("X-WP-TotalPages"))
		if page >= totalPages || len(batch) == 0 {
			break
		}
	}

	c.logger.Debug("menu items listed", "menu_id", menuID, "count", len(items))
	return items, nil
}

// FetchSaveNonce reads the customizer save nonce. A missing nonce is reported
// as an empty SaveNonce.Nonce rather than an error.
func (c *Client) FetchSaveNonce(ctx context.Context) (*SaveNonce, error) {
	const op = "fetch save nonce"

	endpoint, err := c.routes.URL(RouteSaveNonce, nil)
	if err != nil {
		return nil, wrapTransportError(err, op)
	}
	raw, _, err := c.do(ctx, op, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, wrapTransportError(err, op)
	}
	if !gjson.ValidBytes(raw) {
		return nil, wrapTransportError(ErrInvalidResponse, op)
	}

	result := gjson.ParseBytes(raw)
	return &SaveNonce{
		Nonce:      result.Get("nonce").String(),
		Stylesheet: result.Get("stylesheet").String(),
	}, nil
}

// SubmitChangeset posts payload to admin-ajax once.
func (c *Client) SubmitChangeset(ctx context.Context, payload *Payload) (*SaveResponse, error) {
	const op = "submit changeset"
	if payload == nil || payload.Len() == 0 {
		return nil, wrapValidationError(ErrPayloadRequired, op)
	}

	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, wrapValidationError(err, op)
	}
	endpoint, err := c.routes.URL(RouteAdminAjax, nil)
	if err != nil {
		return nil, wrapTransportError(err, op)
	}
	raw, _, err := c.do(ctx, op, http.MethodPost, endpoint, contentType, body)
	if err != nil {
		return nil, wrapTransportError(err, op)
	}
	if !gjson.ValidBytes(raw) {
		return nil, wrapTransportError(ErrInvalidResponse, op)
	}

	return &SaveResponse{
		Success: gjson.GetBytes(raw, "success").Bool(),
		Raw:     raw,
	}, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint, contentType string, body io.Reader) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed", "operation", op, "method", method, "error", err)
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("remote request rejected", "operation", op, "status", resp.StatusCode)
		return nil, resp.Header, newStatusError(op, resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Trace("remote request completed", "operation", op, "status", resp.StatusCode, "duration", time.Since(started))
	return raw, resp.Header, nil
}
