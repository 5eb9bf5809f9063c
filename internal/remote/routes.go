package remote

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// Route names registered with the go-urlkit manager.
const (
	RouteMenuItems = "menu_items"
	RouteSaveNonce = "save_nonce"
	RouteAdminAjax = "admin_ajax"

	routeGroup = "wordpress"
)

// Default endpoint paths relative to the site root.
const (
	DefaultMenuItemsPath = "/wp-json/__experimental/menu-items"
	DefaultSaveNoncePath = "/wp-json/__experimental/customizer-nonces/get-save-nonce"
	DefaultAdminAjaxPath = "/wp-admin/admin-ajax.php"
)

// RoutesConfig lists the site base URL and endpoint paths.
type RoutesConfig struct {
	BaseURL       string
	MenuItemsPath string
	SaveNoncePath string
	AdminAjaxPath string
}

func (c RoutesConfig) withDefaults() RoutesConfig {
	if strings.TrimSpace(c.MenuItemsPath) == "" {
		c.MenuItemsPath = DefaultMenuItemsPath
	}
	if strings.TrimSpace(c.SaveNoncePath) == "" {
		c.SaveNoncePath = DefaultSaveNoncePath
	}
	if strings.TrimSpace(c.AdminAjaxPath) == "" {
		c.AdminAjaxPath = DefaultAdminAjaxPath
	}
	return c
}

// Routes builds endpoint URLs through go-urlkit.
type Routes struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
}

// NewRoutes registers the endpoints of cfg under a single route group.
func NewRoutes(cfg RoutesConfig) (*Routes, error) {
	cfg = cfg.withDefaults()
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURLInvalid, cfg.BaseURL)
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    routeGroup,
				BaseURL: base,
				Paths: map[string]string{
					RouteMenuItems: ensureLeadingSlash(cfg.MenuItemsPath),
					RouteSaveNonce: ensureLeadingSlash(cfg.SaveNoncePath),
					RouteAdminAjax: ensureLeadingSlash(cfg.AdminAjaxPath),
				},
			},
		},
	})

	group, err := lookupGroup(manager, routeGroup)
	if err != nil {
		return nil, err
	}
	return &Routes{manager: manager, group: group}, nil
}

// URL builds the absolute URL of route with the given query.
func (r *Routes) URL(route string, query url.Values) (string, error) {
	if r == nil || r.group == nil {
		return "", fmt.Errorf("remote: routes not configured")
	}
	builder, err := safeBuilder(r.group, route)
	if err != nil {
		return "", err
	}
	for key, values := range query {
		for _, v := range values {
			builder.WithQuery(key, v)
		}
	}
	return builder.Build()
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("remote: route %q not registered: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("remote: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func ensureLeadingSlash(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
