package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*migrationLogger)(nil)

// migrationLogger forwards golang-migrate output to the structured logger.
type migrationLogger struct {
	ctx context.Context
}

func newMigrationLogger(module string) *migrationLogger {
	return &migrationLogger{
		ctx: logger.WithContext(context.Background(), slogx.String("package", "migrate"), slogx.String("module", module)),
	}
}

func (l *migrationLogger) Printf(format string, v ...any) {
	logger.InfoContext(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrationLogger) Verbose() bool {
	return false
}
