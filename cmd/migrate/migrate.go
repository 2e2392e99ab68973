package migrate

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	grc20MigrationSource = "modules/grc20/database/postgresql/migrations"
	grc20MigrationTable  = "grc20_schema_migrations"
)

var supportedDrivers = map[string]struct{}{
	"postgres":   {},
	"postgresql": {},
}

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the GRC-20 database schema",
	}
	cmd.AddCommand(
		NewMigrateUpCommand(),
		NewMigrateDownCommand(),
	)
	return cmd
}

// targetOptions selects the database and the module schemas a migrate subcommand works on.
type targetOptions struct {
	DatabaseURL string
	GRC20       bool
	GRC20Source string
}

func (o *targetOptions) bindFlags(flags *pflag.FlagSet, direction string) {
	flags.StringVar(&o.DatabaseURL, "database", "", "Database url to run migration on")
	flags.BoolVar(&o.GRC20, "grc20", false, "Apply GRC20 "+direction+" migrations")
	flags.StringVar(&o.GRC20Source, "grc20-source", grc20MigrationSource, "Path to GRC20 migrations directory")
}

func (o *targetOptions) databaseURL() (*url.URL, error) {
	if o.DatabaseURL == "" {
		return nil, errors.New("--database is required")
	}
	u, err := url.Parse(o.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}
	if _, ok := supportedDrivers[u.Scheme]; !ok {
		return nil, errors.Errorf("unsupported database driver: %s", u.Scheme)
	}
	return u, nil
}

type migrationTarget struct {
	module string
	source string
	table  string
}

func (o *targetOptions) targets() []migrationTarget {
	var targets []migrationTarget
	if o.GRC20 {
		targets = append(targets, migrationTarget{module: "GRC20", source: o.GRC20Source, table: grc20MigrationTable})
	}
	return targets
}

// parseSteps reads the optional [N] argument. Zero means every migration.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse N")
	}
	if n < 0 {
		return 0, errors.New("N must be a positive integer")
	}
	return n, nil
}

// migrateFunc moves one schema; it receives the instance and the requested step count.
type migrateFunc func(m *migrate.Migrate, steps int) error

func runMigrations(databaseURL *url.URL, targets []migrationTarget, steps int, apply migrateFunc, noChangeMessage string) error {
	for _, target := range targets {
		dbURL := cloneURLWithQuery(databaseURL, url.Values{"x-migrations-table": {target.table}})
		m, err := migrate.New("file://"+target.source, dbURL.String())
		if err != nil {
			return errors.Wrapf(err, "failed to create Migrate instance for %s", target.module)
		}
		m.Log = newMigrationLogger(target.module)

		err = apply(m, steps)
		srcErr, dbErr := m.Close()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return errors.Wrapf(err, "failed to migrate %s", target.module)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("%s", noChangeMessage)
		}
		if srcErr != nil || dbErr != nil {
			return errors.Wrapf(errors.CombineErrors(srcErr, dbErr), "failed to close %s migrations", target.module)
		}
	}
	return nil
}

func cloneURLWithQuery(u *url.URL, newQuery url.Values) *url.URL {
	clone := *u
	query := clone.Query()
	for key, values := range newQuery {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	clone.RawQuery = query.Encode()
	return &clone
}
