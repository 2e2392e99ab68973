// Package automaxprocs sets GOMAXPROCS to the container CPU quota.
package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// Init sets GOMAXPROCS with maxprocs and logs the change. An explicit GOMAXPROCS
// environment variable is honored.
func Init() error {
	ctx := logger.WithContext(context.Background(),
		slogx.String("package", "automaxprocs"),
		slogx.Int("prev_maxprocs", runtime.GOMAXPROCS(0)),
	)
	_, err := maxprocs.Set(maxprocs.Min(1), maxprocs.Logger(func(format string, args ...any) {
		var attrs []slog.Attr
		if _, ok := utils.Optional(args); ok {
			attrs = append(attrs, slogx.Int("set_maxprocs", runtime.GOMAXPROCS(0)))
		}
		if _, ok := os.LookupEnv("GOMAXPROCS"); ok {
			attrs = append(attrs, slogx.Bool("from_env", true))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf(format, args...), attrs...)
	}))
	return errors.WithStack(err)
}
