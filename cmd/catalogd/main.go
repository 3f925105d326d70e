package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andeanmarket/catalog-service/config"
	catalogrepo "github.com/andeanmarket/catalog-service/internal/catalog/repository"
	catalogusecase "github.com/andeanmarket/catalog-service/internal/catalog/usecase"
	"github.com/andeanmarket/catalog-service/internal/currency"
	"github.com/andeanmarket/catalog-service/internal/pricing"
	pricingrepo "github.com/andeanmarket/catalog-service/internal/pricing/repository"
	"github.com/andeanmarket/catalog-service/internal/remote"
	"github.com/andeanmarket/catalog-service/internal/server"
	"github.com/andeanmarket/catalog-service/internal/syncer"
	syncerrepo "github.com/andeanmarket/catalog-service/internal/syncer/repository"
	"github.com/andeanmarket/catalog-service/internal/translate"
	translaterepo "github.com/andeanmarket/catalog-service/internal/translate/repository"
	"github.com/andeanmarket/catalog-service/internal/warmup"
	"github.com/andeanmarket/catalog-service/pkg/db"
	"github.com/andeanmarket/catalog-service/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:          "catalogd",
		Short:        "Catalog mirror and localized storefront API",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), syncCmd(), translateCmd(), warmupCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command can need. Commands wire only what they use
// through the build* helpers.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	store  *catalogrepo.PGRepository
	sync   *syncer.Engine
	filler *translate.Filler
}

func loadConfig() *config.Config {
	// Missing .env is fine; the environment may carry everything already.
	_ = godotenv.Load()
	return config.LoadEnv()
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewZapLogger(&logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
}

func buildSyncEngine(cfg *config.Config, log logger.Logger) (*app, func(), error) {
	pg, err := db.NewPostgres(&cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = pg.Close() }

	store := catalogrepo.NewPGRepository(pg)
	runs := syncerrepo.NewPGRepository(pg)
	client := remote.NewHTTPClient(&cfg.Catalog)
	engine := syncer.NewEngine(client, store, runs, cfg.Catalog.PageSize, log)

	return &app{cfg: cfg, log: log, store: store, sync: engine}, cleanup, nil
}

func buildFiller(cfg *config.Config, log logger.Logger) (*app, func(), error) {
	pg, err := db.NewPostgres(&cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = pg.Close() }

	engine, err := translate.NewLibreEngine(&cfg.Translation)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	store := catalogrepo.NewPGRepository(pg)
	cache := translaterepo.NewPGRepository(pg)
	filler := translate.NewFiller(cache, store, engine, &cfg.Translation, log)

	return &app{cfg: cfg, log: log, store: store, filler: filler}, cleanup, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the background warmup scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := newLogger(cfg)
			defer log.Sync()

			pg, err := db.NewPostgres(&cfg.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			rdb, err := db.NewRedis(&cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			store := catalogrepo.NewPGRepository(pg)
			runs := syncerrepo.NewPGRepository(pg)
			margins := pricingrepo.NewPGRepository(pg)
			translations := translaterepo.NewPGRepository(pg)

			client := remote.NewHTTPClient(&cfg.Catalog)
			syncEngine := syncer.NewEngine(client, store, runs, cfg.Catalog.PageSize, log)

			translationEngine, err := translate.NewLibreEngine(&cfg.Translation)
			if err != nil {
				return err
			}
			filler := translate.NewFiller(translations, store, translationEngine, &cfg.Translation, log)

			resolver := pricing.NewResolver(margins, log)
			converter := currency.NewConverter(&cfg.Exchange, currency.NewHTTPRateSource(&cfg.Exchange), log)

			responseCache := warmup.NewRedisCache(rdb)
			uc := catalogusecase.NewService(
				store, translations, resolver, converter, client, responseCache,
				cfg.Translation.SourceLang, cfg.Themes, cfg.Warmup.CacheTTL, log,
			)

			scheduler := warmup.NewScheduler(uc, warmup.SchedulerConfig{
				Interval:      cfg.Warmup.Interval,
				Languages:     []string{cfg.Translation.SourceLang, cfg.Translation.TargetLang},
				Currencies:    []string{cfg.Exchange.NativeCurrency, cfg.Exchange.ForeignCurrency},
				TopCategories: cfg.Warmup.TopCategories,
				TopProducts:   cfg.Warmup.TopProducts,
			}, log)

			handler := server.NewHandler(uc, syncEngine, filler, scheduler,
				cfg.Translation.SourceLang, cfg.Exchange.NativeCurrency, log)
			srv := server.New(cfg.Server.HTTPPort, handler, log)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			scheduler.Start(ctx)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run() }()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				scheduler.Stop()
				return err
			case sig := <-quit:
				log.Info("shutting down", zap.String("signal", sig.String()))
			}

			cancel()
			scheduler.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := newLogger(cfg)
			defer log.Sync()

			if err := db.MigrateUp(&cfg.Postgres); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func syncCmd() *cobra.Command {
	var syncType string
	var remoteIDs []int64

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the remote catalog into the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := newLogger(cfg)
			defer log.Sync()

			a, cleanup, err := buildSyncEngine(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			var result *syncer.SyncResult
			switch syncType {
			case "full":
				result, err = a.sync.SyncAll(ctx)
			case "categories":
				result, err = a.sync.SyncCategories(ctx)
			case "products":
				result, err = a.sync.SyncProducts(ctx)
			case "variations":
				result, err = a.sync.SyncVariations(ctx)
			case "stock":
				result, err = a.sync.SyncStockAndPrices(ctx, remoteIDs)
			default:
				return fmt.Errorf("unknown sync type %q", syncType)
			}
			if err != nil {
				return err
			}
			log.Info("sync finished",
				zap.String("run_id", result.RunID),
				zap.String("status", result.Status),
				zap.Int("categories", result.CategoriesSynced),
				zap.Int("products", result.ProductsSynced),
				zap.Int("variations", result.VariationsSynced),
				zap.Int("errors", result.ErrorCount))
			return nil
		},
	}
	cmd.Flags().StringVar(&syncType, "type", "full", "full, categories, products, variations or stock")
	cmd.Flags().Int64SliceVar(&remoteIDs, "ids", nil, "remote product ids for --type=stock (empty means all published)")
	return cmd
}

func translateCmd() *cobra.Command {
	var force bool
	var repair bool

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Fill the translation cache for all categories and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := newLogger(cfg)
			defer log.Sync()

			a, cleanup, err := buildFiller(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			if repair {
				repaired, err := a.filler.RepairMarkupAll(cmd.Context())
				if err != nil {
					return err
				}
				log.Info("markup repair finished", zap.Int("repaired", repaired))
				return nil
			}

			stats, err := a.filler.FillAll(cmd.Context(), force)
			if err != nil {
				return err
			}
			log.Info("translation fill finished",
				zap.Int("translated", stats.Translated),
				zap.Int("skipped", stats.Skipped),
				zap.Int("errors", stats.Errors))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "retranslate entries that already exist")
	cmd.Flags().BoolVar(&repair, "repair", false, "re-clean mangled markup on cached descriptions without retranslating")
	return cmd
}

func warmupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warmup",
		Short: "Recompute and rewrite all response cache slots once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			log := newLogger(cfg)
			defer log.Sync()

			pg, err := db.NewPostgres(&cfg.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			rdb, err := db.NewRedis(&cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			store := catalogrepo.NewPGRepository(pg)
			margins := pricingrepo.NewPGRepository(pg)
			translations := translaterepo.NewPGRepository(pg)
			client := remote.NewHTTPClient(&cfg.Catalog)

			resolver := pricing.NewResolver(margins, log)
			converter := currency.NewConverter(&cfg.Exchange, currency.NewHTTPRateSource(&cfg.Exchange), log)
			responseCache := warmup.NewRedisCache(rdb)

			uc := catalogusecase.NewService(
				store, translations, resolver, converter, client, responseCache,
				cfg.Translation.SourceLang, cfg.Themes, cfg.Warmup.CacheTTL, log,
			)
			scheduler := warmup.NewScheduler(uc, warmup.SchedulerConfig{
				Interval:      cfg.Warmup.Interval,
				Languages:     []string{cfg.Translation.SourceLang, cfg.Translation.TargetLang},
				Currencies:    []string{cfg.Exchange.NativeCurrency, cfg.Exchange.ForeignCurrency},
				TopCategories: cfg.Warmup.TopCategories,
				TopProducts:   cfg.Warmup.TopProducts,
			}, log)

			results := scheduler.WarmupAll(cmd.Context())
			for task, ok := range results {
				log.Info("warmup task", zap.String("task", task), zap.Bool("ok", ok))
			}
			return nil
		},
	}
}
