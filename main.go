package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"educa_backend/internals/configs"
	database "educa_backend/internals/databases"
	chatService "educa_backend/internals/features/chat/assistant/service"
	dirService "educa_backend/internals/features/schools/directory/service"
	geoService "educa_backend/internals/features/schools/geocoding/service"
	mapService "educa_backend/internals/features/schools/maps/service"
	authService "educa_backend/internals/features/users/auth/service"
	helper "educa_backend/internals/helpers"
	"educa_backend/internals/helpers/dbtime"
	"educa_backend/internals/helpers/media"
	middlewares "educa_backend/internals/middlewares"
	reqLogger "educa_backend/internals/middlewares/logger"
	routes "educa_backend/internals/route"
	"educa_backend/internals/seeds"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "educa",
		Short:         "Municipal school enrollment portal backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(ctxOf(cmd))
		},
	}
	root.AddCommand(newServeCmd(), newStatusCmd(), newBackupCmd(), newResetCmd())
	return root
}

// runtime is the wired core shared by every command.
type runtime struct {
	cfg configs.Config
	log *zap.Logger
	db  *gorm.DB
	dir *dirService.Directory
}

func bootstrap(ctx context.Context) (*runtime, error) {
	log, err := configs.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg := configs.LoadEnv()
	dbtime.SetZone(cfg.AppTimezone)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}
	store := dirService.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, err
	}

	seed, err := seeds.LoadDataset(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed dataset: %w", err)
	}
	dir := dirService.NewDirectory(store, seed, dirService.WithLogger(log))
	if err := dir.Load(ctx); err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: db, dir: dir}, nil
}

func (r *runtime) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Warn("close database", zap.Error(err))
	}
	_ = r.log.Sync()
}

/* ===================== serve ===================== */

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(ctxOf(cmd))
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, log := rt.cfg, rt.log

	database.WarmUpQueries(rt.db, log)

	store, err := media.NewStorageFromEnv(cfg)
	if err != nil {
		return fmt.Errorf("media storage: %w", err)
	}

	var streamer chatService.Streamer
	if gs, err := chatService.NewGenAIStreamer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
		log.Warn("chat assistant disabled", zap.Error(err))
	} else {
		streamer = gs
	}
	chat := chatService.NewManager(streamer, rt.dir.Schools, cfg.Municipality, chatService.WithManagerLogger(log))
	go chat.RunSweeper(ctx, 10*time.Minute)

	auth := authService.NewAuthService(authService.AdminAccount{
		UserName:     cfg.AdminUser,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, cfg.JWTSecret, cfg.JWTTTL)
	revoked := authService.NewRevocationStore(rt.db, cfg.JWTSecret)
	if err := revoked.Migrate(); err != nil {
		return fmt.Errorf("migrate revoked tokens: %w", err)
	}
	go revoked.RunPurger(ctx, time.Hour, log)

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             int(media.MaxUploadSize) + 1<<20,
		ErrorHandler:          middlewares.ErrorHandler(log),
	})

	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelDefault,
		// gzip would buffer the event stream
		Next: func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/chat") },
	}))
	app.Use(etag.New())
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(reqLogger.RequestContext(log, cfg.RequestTimeout, 2*time.Second))
	app.Use(reqLogger.LoggerMiddleware())

	if _, ok := store.(*media.LocalStorage); ok {
		app.Static("/media", cfg.MediaDir, fiber.Static{MaxAge: 86400})
	}

	routes.SetupRoutes(app, routes.Deps{
		Config:    cfg,
		DB:        rt.db,
		Directory: rt.dir,
		Media:     store,
		Geocoder:  geoService.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout),
		Markers: mapService.NewMarkerService(rt.dir, mapService.MapConfig{
			TileURL:     cfg.TileURL,
			Attribution: cfg.TileAttrib,
			Center:      cfg.MapCenter,
			Zoom:        cfg.MapZoom,
		}),
		Chat:    chat,
		Auth:    auth,
		Revoked: revoked,
		Log:     log,
	})

	app.Use(func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusNotFound, "Rota não encontrada")
	})

	app.Server().ReadTimeout = 15 * time.Second
	// streamed chat replies hold the connection open
	app.Server().WriteTimeout = cfg.ChatTimeout + 30*time.Second
	app.Server().IdleTimeout = 90 * time.Second

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		errc <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("shutdown", zap.Error(err))
	}
	return nil
}
