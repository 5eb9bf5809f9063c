package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	navsync "github.com/goliatone/go-navsync"
	"github.com/goliatone/go-navsync/internal/di"
)

type saveHandler interface {
	Execute(ctx context.Context, msg navsync.SaveNavigationCommand) error
}

type reconcileHandler interface {
	Execute(ctx context.Context, msg navsync.ReconcileNavigationCommand) error
}

type handlerSet struct {
	save      saveHandler
	reconcile reconcileHandler
}

type moduleOptions struct {
	config navsync.Config
}

type moduleResources struct {
	handlers handlerSet
	notices  func() []navsync.Notice
	close    func() error

	lastSave      *navsync.SaveOutcome
	lastReconcile *navsync.ReconcileResult
}

var (
	moduleBuilder = buildModule
	lookupEnv     = os.LookupEnv
)

var stdin io.Reader = os.Stdin

var (
	errUnknownCmd  = errors.New("navsync: unknown command")
	errNoCommand   = errors.New("navsync: command required (save|reconcile)")
	errHandlerMiss = errors.New("navsync: command handler not configured")
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("navsync: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errNoCommand
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "save":
		return runSave(ctx, args[1:])
	case "reconcile":
		return runReconcile(ctx, args[1:])
	default:
		return fmt.Errorf("%w: %s", errUnknownCmd, args[0])
	}
}

type commonFlags struct {
	envFile   string
	postPath  string
	baseURL   string
	storage   string
	dsn       string
	locale    string
	traversal string
	logLevel  string
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	flags := &commonFlags{}
	fs.StringVar(&flags.envFile, "env", "", "env file with NAVSYNC_* settings (default .env when present)")
	fs.StringVar(&flags.postPath, "post", "", "post JSON document, - for stdin")
	fs.StringVar(&flags.baseURL, "base-url", "", "WordPress site URL")
	fs.StringVar(&flags.storage, "storage", "", "mapping storage provider (memory|sqlite|postgres)")
	fs.StringVar(&flags.dsn, "dsn", "", "mapping database DSN")
	fs.StringVar(&flags.locale, "locale", "", "notice locale")
	fs.StringVar(&flags.traversal, "traversal", "", "block traversal order (document|reverse-siblings)")
	fs.StringVar(&flags.logLevel, "log-level", "", "enable logging at the given level")
	return flags
}

func (f *commonFlags) config() (navsync.Config, error) {
	cfg := navsync.DefaultConfig()
	values, err := loadEnv(f.envFile, lookupEnv)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg, values); err != nil {
		return cfg, err
	}

	override := func(value string, target *string) {
		if strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	override(f.baseURL, &cfg.Remote.BaseURL)
	override(f.storage, &cfg.Storage.Provider)
	override(f.dsn, &cfg.Storage.DSN)
	override(f.locale, &cfg.Notices.Locale)
	override(f.traversal, &cfg.Navigation.Traversal)
	if level := strings.TrimSpace(f.logLevel); level != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func runSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	common := registerCommon(fs)
	requireSaved := fs.Bool("require-saved", false, "exit with an error when the save is rejected")
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := readPost(common.postPath, stdin)
	if err != nil {
		return err
	}
	resources, err := prepare(common)
	if err != nil {
		return err
	}
	defer resources.shutdown()
	if resources.handlers.save == nil {
		return errHandlerMiss
	}

	err = resources.handlers.save.Execute(ctx, navsync.SaveNavigationCommand{Post: post, RequireSaved: *requireSaved})
	resources.printNotices()
	if err != nil {
		return err
	}
	if outcome := resources.lastSave; outcome != nil {
		log.Printf("operation=save post_id=%s menu_id=%d created=%d saved=%t result=%s",
			outcome.PostID, outcome.MenuID, outcome.Created, outcome.Saved, outcome.Result)
	} else {
		log.Printf("operation=save post_id=%s", post.ID)
	}
	return nil
}

func runReconcile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	common := registerCommon(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	post, err := readPost(common.postPath, stdin)
	if err != nil {
		return err
	}
	resources, err := prepare(common)
	if err != nil {
		return err
	}
	defer resources.shutdown()
	if resources.handlers.reconcile == nil {
		return errHandlerMiss
	}

	if err := resources.handlers.reconcile.Execute(ctx, navsync.ReconcileNavigationCommand{Post: post}); err != nil {
		return err
	}
	if result := resources.lastReconcile; result != nil {
		log.Printf("operation=reconcile post_id=%s created=%d mapped=%d", post.ID, result.Created, len(result.Mapping))
	} else {
		log.Printf("operation=reconcile post_id=%s", post.ID)
	}
	return nil
}

func prepare(common *commonFlags) (*moduleResources, error) {
	cfg, err := common.config()
	if err != nil {
		return nil, err
	}
	return moduleBuilder(moduleOptions{config: cfg})
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	resources := &moduleResources{}
	module, err := navsync.New(opts.config,
		di.WithSaveObserver(func(outcome navsync.SaveOutcome) {
			resources.lastSave = &outcome
		}),
		di.WithReconcileObserver(func(result navsync.ReconcileResult) {
			resources.lastReconcile = &result
		}),
	)
	if err != nil {
		return nil, err
	}

	container := module.Container()
	resources.handlers = handlerSet{
		save:      container.SaveNavigationHandler(),
		reconcile: container.ReconcileNavigationHandler(),
	}
	resources.notices = module.Notices
	resources.close = module.Close
	return resources, nil
}

func (r *moduleResources) printNotices() {
	if r == nil || r.notices == nil {
		return
	}
	for _, notice := range r.notices() {
		log.Printf("notice status=%s message=%q", notice.Status, notice.Message)
	}
}

func (r *moduleResources) shutdown() {
	if r == nil || r.close == nil {
		return
	}
	if err := r.close(); err != nil {
		log.Printf("navsync: close: %v", err)
	}
}
