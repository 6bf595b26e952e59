package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/adapters/console"
	"github.com/okian/closet/internal/adapters/wardrobe"
	service "github.com/okian/closet/internal/app"
	"github.com/okian/closet/internal/config"
	"github.com/okian/closet/pkg/logger"
)

// env carries what every subcommand needs after the persistent pre-run.
type env struct {
	configPath string
	wardrobe   string
	db         string
	noColor    bool

	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "closet",
		Short: "Outfit compatibility and generation engine",
		Long: `closet scores and validates outfits, generates every valid outfit a wardrobe
allows and serves the result over HTTP.

Configuration is read from defaults, then the YAML file named by --config or
CLOSET_CONFIG, then CLOSET_* environment variables. Flags win over all of them.`,
		SilenceUsage:      true,
		PersistentPreRunE: e.setup,
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&e.wardrobe, "wardrobe", "w", "", "wardrobe YAML file or directory")
	root.PersistentFlags().StringVar(&e.db, "db", "", "wardrobe SQLite database (takes precedence over --wardrobe)")
	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "disable coloured output")

	root.AddCommand(
		newServeCmd(e),
		newScoreCmd(e),
		newGenerateCmd(e),
		newSearchCmd(e),
		newSeedCmd(e),
		newLoadtestCmd(),
	)
	return root
}

// setup initialises logging and loads configuration before any subcommand runs.
func (e *env) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.InitWriter(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	e.log = logger.Named("cli")

	if e.configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, e.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if e.wardrobe != "" {
		cfg.WardrobePath = e.wardrobe
	}
	if e.db != "" {
		cfg.WardrobeDB = e.db
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		e.log.Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	e.cfg = cfg
	return nil
}

func (e *env) printer(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout(), console.WithColor(!e.noColor))
}

// provider opens the configured wardrobe. The returned func releases it.
func (e *env) provider(ctx context.Context) (wardrobe.Provider, func(), error) {
	if e.cfg.WardrobeDB != "" {
		store, err := wardrobe.NewSQLiteStore(e.cfg.WardrobeDB)
		if err != nil {
			return nil, nil, err
		}
		e.log.Debug(ctx, "using sqlite wardrobe", logger.String("path", e.cfg.WardrobeDB))
		return store, func() {
			if err := store.Close(); err != nil {
				e.log.Error(ctx, "closing wardrobe database", logger.Error(err))
			}
		}, nil
	}
	e.log.Debug(ctx, "using yaml wardrobe", logger.String("path", e.cfg.WardrobePath))
	return wardrobe.NewYAMLProvider(e.cfg.WardrobePath), func() {}, nil
}

// service builds and starts a service over the configured wardrobe.
func (e *env) service(ctx context.Context, extra ...service.Option) (*service.Service, func(), error) {
	p, release, err := e.provider(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := []service.Option{
		service.WithLogger(logger.Get()),
		service.WithProvider(p),
		service.WithRetries(e.cfg.RandomRetries),
		service.WithAccessoryChance(e.cfg.AccessoryChance),
		service.WithOptionalLayers(e.cfg.OptionalLayers),
		service.WithSeed(e.cfg.RandomSeed),
		service.WithSearchWorkers(e.cfg.SearchWorkers),
		service.WithQueueSize(e.cfg.SearchQueueSize),
		service.WithSearchDebounce(e.cfg.SearchDebounce()),
		service.WithMemoSize(e.cfg.MemoSize),
		service.WithSnapshotInterval(e.cfg.SnapshotInterval()),
	}
	svc := service.New(append(opts, extra...)...)
	if err := svc.Start(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return svc, func() {
		svc.Stop()
		release()
	}, nil
}
