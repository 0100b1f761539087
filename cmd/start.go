package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-sync/core/events"
	"inventory-sync/core/loader"
	"inventory-sync/core/logger"
	"inventory-sync/core/metrics"
	"inventory-sync/core/middleware/auth"
	"inventory-sync/core/middleware/rayid"
	"inventory-sync/core/storage"
	"inventory-sync/feature/integrity"
	"inventory-sync/feature/vehicle"

	_ "inventory-sync/docs/swagger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// @title Inventory Sync API
// @version 1.0
// @description Dealer feed to vehicle inventory synchronization: sync trigger, sync history and integrity checks.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inventory sync server",
	Long:  `Starts the HTTP server with the sync trigger, the integrity checks and the metrics endpoint. Runs the interval scheduler when FEED_AUTO_SYNC is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, database (optional) and storage
		a, err := bootstrap(false)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := storage.EnsureBucket(ctx, a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Region); err != nil {
			logg.Warn("Image bucket is not available", zap.String("bucket", a.cfg.Storage.Bucket), zap.Error(err))
		}

		// 2. Metrics and run events
		reg := metrics.NewRegistry()
		publisher := events.NewPublisher(a.cfg.Events)
		defer publisher.Close()

		// 3. Vehicle sync service
		svc, err := vehicle.NewService(vehicle.Deps{
			DB:      a.db,
			Feed:    a.cfg.Feed,
			Logger:  logg,
			Storage: a.storage,
			Bucket:  a.cfg.Storage.Bucket,
			Prefix:  a.cfg.Storage.Prefix,
			Metrics: reg,
			Events:  publisher,
		})
		if err != nil {
			logg.Fatal("Failed to create vehicle service", zap.Error(err))
		}
		if a.db != nil {
			if err := svc.Migrate(); err != nil {
				logg.Fatal("Failed to migrate inventory tables", zap.Error(err))
			}
		}

		// 4. Feature loader
		mgr := loader.NewManager(logg)
		mgr.Register(vehicle.NewFeature(svc))
		mgr.Register(integrity.NewFeature(a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Prefix, logg, a.db))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second,
		})

		// RayID first so every log line can be traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger is registered ahead of auth and stays public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{metricsPath}}))
		app.Get(metricsPath, adaptor.HTTPHandler(reg.Handler()))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Scheduler
		if a.cfg.Feed.AutoSync {
			interval, err := a.cfg.Feed.Interval()
			if err != nil {
				logg.Fatal("Invalid sync interval", zap.String("interval", a.cfg.Feed.SyncInterval), zap.Error(err))
			}
			if a.db == nil {
				logg.Warn("Auto sync requested without a database, scheduler not started")
			} else {
				scheduler := vehicle.NewScheduler(svc, interval, logg)
				scheduler.Start(ctx)
				defer scheduler.Stop()
			}
		}

		// 6. Server
		go func() {
			logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()), zap.Bool("auth", a.cfg.Server.AuthEnabled()))
			if err := app.Listen(a.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
