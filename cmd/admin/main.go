// Command admin runs maintenance tasks against the configured database:
//
//	admin migrate
//	admin seed
//	admin create-user --email a@b.c --password secret --role Admin
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"horti-admin/internal/core/config"
	"horti-admin/internal/core/database"
	"horti-admin/internal/core/logger"
	"horti-admin/internal/domain"
	"horti-admin/internal/repo"
	"horti-admin/internal/service"
	"horti-admin/pkg/utils"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate       create or alter every table
  seed          insert the default Admin/User accounts
  create-user   create or reset one account (--email, --password, --role)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("admin command failed", zap.String("command", os.Args[1]), zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, cmd string, args []string) error {
	switch cmd {
	case "migrate":
		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migration done")
		return nil

	case "seed":
		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		n, err := service.NewUserService(repo.NewUserRepo(db), log).Seed(ctx)
		if err != nil {
			return err
		}
		log.Info("seed done", zap.Int("created", n))
		return nil

	case "create-user":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "plain password, at least 6 characters")
		role := fs.String("role", string(domain.RoleUser), "Admin or User")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *email == "" || len(*password) < utils.MinPasswordLen {
			return fmt.Errorf("create-user: --email and a --password of at least %d characters are required", utils.MinPasswordLen)
		}
		db, err := openDB(cfg, log)
		if err != nil {
			return err
		}
		u, err := service.NewUserService(repo.NewUserRepo(db), log).Save(ctx, service.UserInput{
			Email: *email, Password: *password, Role: domain.Role(*role),
		})
		if err != nil {
			return err
		}
		log.Info("account saved", zap.Uint("id", u.ID), zap.String("email", u.Email), zap.String("role", string(u.Role)))
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func openDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       2,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                logger.ToStdLogger(log.Named("gorm"), zapcore.WarnLevel),
	})
}
