package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-navsync/internal/blocks"
	"github.com/goliatone/go-navsync/internal/commands"
	navigationcmd "github.com/goliatone/go-navsync/internal/commands/navigation"
	"github.com/goliatone/go-navsync/internal/i18n"
	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/internal/logging/gologger"
	"github.com/goliatone/go-navsync/internal/menus"
	"github.com/goliatone/go-navsync/internal/metrics"
	"github.com/goliatone/go-navsync/internal/navsync"
	"github.com/goliatone/go-navsync/internal/notices"
	"github.com/goliatone/go-navsync/internal/remote"
	"github.com/goliatone/go-navsync/internal/runtimeconfig"
	"github.com/goliatone/go-navsync/internal/storage"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

const noticesModule = "navsync.notices"

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	httpClient     *http.Client
	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registerer prometheus.Registerer
	registry   *prometheus.Registry
	collectors *metrics.Collectors

	translator  interfaces.Translator
	notifier    interfaces.Notifier
	noticeStore *notices.Store

	mappings  menus.MappingStore
	itemStore menus.ItemStore
	resolver  *menus.ItemResolver
	routes    *remote.Routes
	client    *remote.Client

	reconciler *navsync.Reconciler
	saver      *navsync.Saver
	service    *navsync.Service

	saveHandler       *navigationcmd.SaveNavigationHandler
	reconcileHandler  *navigationcmd.ReconcileNavigationHandler
	saveObserver      navigationcmd.SaveObserver
	reconcileObserver navigationcmd.ReconcileObserver
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithHTTPClient overrides the client used for remote calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database for the mapping store. The container
// does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the mapping read cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRegisterer registers the metric collectors on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithTranslator overrides the notice translator.
func WithTranslator(translator interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = translator
	}
}

// WithNotifier replaces the in-memory notice store.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithMappingStore replaces the configured mapping store.
func WithMappingStore(store menus.MappingStore) Option {
	return func(c *Container) {
		c.mappings = store
	}
}

// WithItemStore replaces the menu item entity store.
func WithItemStore(store menus.ItemStore) Option {
	return func(c *Container) {
		c.itemStore = store
	}
}

// WithSaveObserver is called with the outcome of every save command.
func WithSaveObserver(observer navigationcmd.SaveObserver) Option {
	return func(c *Container) {
		c.saveObserver = observer
	}
}

// WithReconcileObserver is called with the result of every reconcile command.
func WithReconcileObserver(observer navigationcmd.ReconcileObserver) Option {
	return func(c *Container) {
		c.reconcileObserver = observer
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLoggerProvider,
		c.configureRemote,
		c.configureStorage,
		c.configureCache,
		c.configureMappings,
		c.configureTranslator,
		c.configureNotices,
		c.configureMetrics,
		c.configureNavigation,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	if !logCfg.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "noop":
	}
	return nil
}

func (c *Container) configureRemote() error {
	remoteCfg := c.Config.Remote
	routes, err := remote.NewRoutes(remote.RoutesConfig{
		BaseURL:       remoteCfg.BaseURL,
		MenuItemsPath: remoteCfg.MenuItemsPath,
		SaveNoncePath: remoteCfg.SaveNoncePath,
		AdminAjaxPath: remoteCfg.AdminAjaxPath,
	})
	if err != nil {
		return err
	}
	c.routes = routes

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: remoteCfg.Timeout}
	}

	clientOpts := []remote.ClientOption{
		remote.WithHTTPClient(httpClient),
		remote.WithLogger(logging.RemoteLogger(c.loggerProvider)),
		remote.WithPageSize(remoteCfg.PageSize),
		remote.WithUserAgent(remoteCfg.UserAgent),
	}
	if strings.TrimSpace(remoteCfg.Username) != "" {
		clientOpts = append(clientOpts, remote.WithBasicAuth(remoteCfg.Username, remoteCfg.Password))
	}
	client, err := remote.NewClient(routes, clientOpts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || c.mappings != nil {
		return nil
	}
	storageCfg := storage.Config{
		Provider: c.Config.Storage.Provider,
		DSN:      c.Config.Storage.DSN,
	}
	if storage.NormalizeProvider(storageCfg.Provider) == storage.ProviderMemory {
		return nil
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, storageCfg, logging.StorageLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCache() error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: mapping cache: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureMappings() error {
	if c.mappings == nil {
		if c.bunDB != nil {
			if err := storage.Migrate(context.Background(), c.bunDB); err != nil {
				return fmt.Errorf("di: migrate mappings: %w", err)
			}
			c.mappings = menus.NewBunMappingStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.mappings = menus.NewMemoryMappingStore()
		}
	}

	if c.itemStore == nil {
		c.itemStore = menus.NewCacheItemStore(c.Config.Cache.ItemTTL)
	}
	c.resolver = menus.NewItemResolver(c.itemStore, c.client)
	return nil
}

func (c *Container) configureTranslator() error {
	if c.translator != nil {
		return nil
	}

	var (
		svc i18n.Service
		err error
	)
	if path := strings.TrimSpace(c.Config.Notices.BundlePath); path != "" {
		bundle, loadErr := i18n.NewLoader(path).Load(context.Background())
		if loadErr != nil {
			return loadErr
		}
		svc, err = i18n.NewInMemoryService(bundle.Config, bundle.Translations)
	} else {
		svc, err = i18n.NewDefaultService()
	}
	if err != nil {
		return err
	}
	c.translator = svc.Translator()
	return nil
}

func (c *Container) configureNotices() error {
	if c.notifier != nil {
		if store, ok := c.notifier.(*notices.Store); ok {
			c.noticeStore = store
		}
		return nil
	}
	c.noticeStore = notices.NewStore(notices.WithLogger(logging.ModuleLogger(c.loggerProvider, noticesModule)))
	c.notifier = c.noticeStore
	return nil
}

func (c *Container) configureMetrics() error {
	if !c.Config.Metrics.Enabled {
		return nil
	}
	reg := c.registerer
	if reg == nil {
		c.registry = prometheus.NewRegistry()
		reg = c.registry
	}
	c.collectors = metrics.New(reg, c.Config.Metrics.Namespace)
	return nil
}

func (c *Container) configureNavigation() error {
	order, err := blocks.ParseOrder(traversalName(c.Config.Navigation.Traversal))
	if err != nil {
		return err
	}

	opts := []navsync.Option{
		navsync.WithTraversalOrder(order),
		navsync.WithPlaceholder(c.Config.Navigation.PlaceholderTitle, c.Config.Navigation.PlaceholderURL),
		navsync.WithLoggerProvider(c.loggerProvider),
		navsync.WithTranslator(c.translator, c.Config.Notices.Locale),
	}
	if c.collectors != nil {
		opts = append(opts, navsync.WithRecorder(c.collectors))
	}

	reconciler, err := navsync.NewReconciler(c.mappings, c.resolver, c.client, opts...)
	if err != nil {
		return err
	}
	saver, err := navsync.NewSaver(c.mappings, c.resolver, c.client, c.client, c.notifier, opts...)
	if err != nil {
		return err
	}
	c.reconciler = reconciler
	c.saver = saver
	c.service = navsync.NewService(reconciler, saver, opts...)

	commandLogger := commands.CommandLogger(c.loggerProvider, "navigation")
	var saveOpts []commands.HandlerOption[navigationcmd.SaveNavigationCommand]
	var reconcileOpts []commands.HandlerOption[navigationcmd.ReconcileNavigationCommand]
	if c.collectors != nil {
		saveOpts = append(saveOpts, commands.WithTelemetry[navigationcmd.SaveNavigationCommand](commands.RecorderTelemetry[navigationcmd.SaveNavigationCommand](c.collectors)))
		reconcileOpts = append(reconcileOpts, commands.WithTelemetry[navigationcmd.ReconcileNavigationCommand](commands.RecorderTelemetry[navigationcmd.ReconcileNavigationCommand](c.collectors)))
	}
	c.saveHandler = navigationcmd.NewSaveNavigationHandler(c.service, commandLogger, c.saveObserver, saveOpts...)
	c.reconcileHandler = navigationcmd.NewReconcileNavigationHandler(reconciler, commandLogger, c.reconcileObserver, reconcileOpts...)
	return nil
}

// traversalName maps config aliases onto blocks.ParseOrder names.
func traversalName(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "reverse", "stack", "reverse-siblings":
		return "reverse-siblings"
	default:
		return "document"
	}
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database backing the mapping store, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// Client returns the WordPress API client.
func (c *Container) Client() *remote.Client {
	return c.client
}

// MappingStore returns the mapping store.
func (c *Container) MappingStore() menus.MappingStore {
	return c.mappings
}

// Resolver returns the menu item resolver.
func (c *Container) Resolver() *menus.ItemResolver {
	return c.resolver
}

// Translator returns the notice translator.
func (c *Container) Translator() interfaces.Translator {
	return c.translator
}

// Notices returns the in-memory notice store, nil when WithNotifier replaced it
// with another implementation.
func (c *Container) Notices() *notices.Store {
	return c.noticeStore
}

// Metrics returns the collectors, nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Collectors {
	return c.collectors
}

// Gatherer exposes the container owned registry. It is nil when metrics are
// disabled or a registerer was supplied.
func (c *Container) Gatherer() prometheus.Gatherer {
	if c.registry == nil {
		return nil
	}
	return c.registry
}

// Reconciler returns the menu item reconciler.
func (c *Container) Reconciler() *navsync.Reconciler {
	return c.reconciler
}

// Saver returns the changeset saver.
func (c *Container) Saver() *navsync.Saver {
	return c.saver
}

// Service returns the combined reconcile and save workflow.
func (c *Container) Service() *navsync.Service {
	return c.service
}

// SaveNavigationHandler returns the save command handler.
func (c *Container) SaveNavigationHandler() *navigationcmd.SaveNavigationHandler {
	return c.saveHandler
}

// ReconcileNavigationHandler returns the reconcile command handler.
func (c *Container) ReconcileNavigationHandler() *navigationcmd.ReconcileNavigationHandler {
	return c.reconcileHandler
}

// Ping checks the mapping database when one is configured.
func (c *Container) Ping(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.bunDB.PingContext(pingCtx)
}
