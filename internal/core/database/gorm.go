package database

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"horti-admin/internal/domain"
)

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

type Opts struct {
	Driver             string // postgres | mysql | sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Log                *log.Logger // nil uses gorm's default writer
}

func dialector(o Opts, lg *log.Logger) (gorm.Dialector, error) {
	switch o.Driver {
	case "postgres":
		return postgres.Open(o.DSN), nil
	case "mysql":
		dsn := mysqlDSN(o.DSN, o.Username, o.Password)
		if lg != nil {
			lg.Println("[db] final mysql dsn =", maskDSN(dsn))
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(o.DSN), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, o.Driver)
}

func maskDSN(dsn string) string {
	if at := strings.Index(dsn, "@"); at > 0 {
		if colon := strings.Index(dsn[:at], ":"); colon > 0 {
			return dsn[:colon+1] + "****" + dsn[at:]
		}
	}
	return dsn
}

func logLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

func NewGorm(o Opts) (*gorm.DB, error) {
	dial, err := dialector(o, o.Log)
	if err != nil {
		return nil, err
	}
	gl := logger.Default.LogMode(logLevel(o.LogLevel))
	if o.Log != nil {
		gl = logger.New(o.Log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel(o.LogLevel),
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         gl,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.Driver == "sqlite" {
		// in-memory databases live on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	return db.Session(&gorm.Session{
		PrepareStmt:            o.Driver != "sqlite",
		CreateBatchSize:        200,
		SkipDefaultTransaction: true,
	}), nil
}

// Migrate creates or alters every table of the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// mysqlDSN turns a mysql:// or jdbc:mysql:// URL into a native driver DSN.
// Native DSNs pass through. Non-empty user/pass replace the URL credentials.
func mysqlDSN(raw, user, pass string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")
	if !strings.HasPrefix(raw, "mysql://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw // let the driver report it
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	for k, vs := range u.Query() {
		v := vs[0]
		switch k {
		case "user":
			cfg.User = v
		case "password":
			cfg.Passwd = v
		case "useSSL":
			switch strings.ToLower(v) {
			case "true", "1":
				cfg.TLSConfig = "true"
			case "skip-verify", "preferred":
				cfg.TLSConfig = strings.ToLower(v)
			default:
				cfg.TLSConfig = "false"
			}
		case "serverTimezone":
			if loc, err := time.LoadLocation(v); err == nil {
				cfg.Loc = loc
			}
		case "characterEncoding", "charset":
			cfg.Params["charset"] = v
		case "useUnicode", "zeroDateTimeBehavior":
			// JDBC-only
		default:
			cfg.Params[k] = v
		}
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Passwd = pass
	}
	return cfg.FormatDSN()
}
