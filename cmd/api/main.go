package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"horti-admin/internal/blob"
	"horti-admin/internal/core/auth"
	"horti-admin/internal/core/cache"
	"horti-admin/internal/core/config"
	"horti-admin/internal/core/database"
	"horti-admin/internal/core/logger"
	"horti-admin/internal/core/server"
	"horti-admin/internal/events"
	"horti-admin/internal/repo"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.Rotate))
	defer cleanup()
	defer logger.RedirectStdLog(log.Named("stdlog"), zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                logger.ToStdLogger(log.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	var dict *cache.Cache
	if cfg.Redis.Addr != "" {
		dict = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.TTLSec)*time.Second)
		defer dict.Close()
		log.Info("dictionary cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	store, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("blob store", zap.Error(err))
	}
	log.Info("blob store ready", zap.String("driver", string(store.Driver())))

	hub := events.NewHub(log)
	go func() { _ = hub.Run(ctx) }()

	jwter := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}
	users := repo.NewUserRepo(db)
	groups := repo.NewGroupRepo(db)
	categories := repo.NewCategoryRepo(db)

	r := router.NewAPIEngine(router.Deps{
		Log:     log,
		JWT:     jwter,
		Limits:  cfg.Limits,
		Mode:    cfg.App.Mode,
		Origins: cfg.App.Origins,
		Hub:     hub,
		Services: router.Services{
			Auth:        service.NewAuthService(users, jwter, log),
			Users:       service.NewUserService(users, log),
			Groups:      service.NewGroupService(groups, dict, log),
			Categories:  service.NewCategoryService(categories, groups, dict),
			Sorts:       service.NewSortService(repo.NewSortRepo(db), categories, dict),
			Plantations: service.NewPlantationService(repo.NewPlantationRepo(db), log),
			Uploads:     service.NewUploadService(repo.NewUploadRepo(db), store, log),
		},
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	errc := make(chan error, 1)
	go func() { errc <- server.StartHTTP(srv, log) }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	log.Info("api stopped gracefully")
}
