package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
)

const (
	DefaultMaxConns        = 16
	DefaultMinConns        = 0
	DefaultApplicationName = "gaze-grc20-indexer"
)

var _ DB = (*pgxpool.Pool)(nil)

// DB is the subset of pgx used by repositories. Both pools and transactions satisfy it except
// for Begin on a tx, which starts a savepoint.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Config struct {
	Host     string `mapstructure:"host"`     // Default is 127.0.0.1
	Port     string `mapstructure:"port"`     // Default is 5432
	User     string `mapstructure:"user"`     // Default is empty
	Password string `mapstructure:"password"` // Default is empty
	DBName   string `mapstructure:"db_name"`  // Default is postgres
	SSLMode  string `mapstructure:"ssl_mode"` // Default is prefer
	URL      string `mapstructure:"url"`      // If URL is provided, other fields are ignored

	MaxConns        int32  `mapstructure:"max_conns"`        // Default is 16
	MinConns        int32  `mapstructure:"min_conns"`        // Default is 0
	ApplicationName string `mapstructure:"application_name"` // Default is gaze-grc20-indexer

	// Debug traces every query, otherwise only failed queries are logged.
	Debug bool `mapstructure:"debug"`
}

// NewPool connects a pool and checks the connection.
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse postgres config")
	}
	poolConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	poolConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)
	poolConfig.ConnConfig.Tracer = conf.queryTracer()
	poolConfig.ConnConfig.RuntimeParams["application_name"] = utils.Default(conf.ApplicationName, DefaultApplicationName)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(err, "failed to connect to postgres at %s", conf.redacted())
	}
	return pool, nil
}

// String returns the connection string, URL if set, otherwise a DSN built from the fields.
func (conf Config) String() string {
	if conf.URL != "" {
		return conf.URL
	}
	parts := []string{
		"host=" + utils.Default(conf.Host, "127.0.0.1"),
		"port=" + utils.Default(conf.Port, "5432"),
		"dbname=" + utils.Default(conf.DBName, "postgres"),
		"sslmode=" + utils.Default(conf.SSLMode, "prefer"),
	}
	if conf.User != "" {
		parts = append(parts, "user="+conf.User)
	}
	if conf.Password != "" {
		parts = append(parts, "password="+conf.Password)
	}
	return strings.Join(parts, " ")
}

func (conf Config) redacted() string {
	if conf.URL != "" {
		if cfg, err := pgconn.ParseConfig(conf.URL); err == nil {
			return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
		}
		return "<url>"
	}
	return fmt.Sprintf("%s:%s/%s", utils.Default(conf.Host, "127.0.0.1"), utils.Default(conf.Port, "5432"), utils.Default(conf.DBName, "postgres"))
}

func (conf Config) queryTracer() pgx.QueryTracer {
	level := tracelog.LogLevelError
	if conf.Debug {
		level = tracelog.LogLevelTrace
	}
	return &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With(slogx.String("package", "postgres"))),
		LogLevel: level,
	}
}
