package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/indexer"
	"github.com/gaze-network/grc20-indexer/internal/config"
	"github.com/gaze-network/grc20-indexer/modules/grc20"
	"github.com/gaze-network/grc20-indexer/pkg/automaxprocs"
	"github.com/gaze-network/grc20-indexer/pkg/errorhandler"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/gaze-network/grc20-indexer/pkg/middleware/requestcontext"
	"github.com/gaze-network/grc20-indexer/pkg/middleware/requestlogger"
	"github.com/gaze-network/grc20-indexer/pkg/reportingclient"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Modules are the indexer modules that can be enabled with --modules.
var Modules = do.Package(
	do.LazyNamed(common.ModuleGRC20.String(), grc20.New),
)

const (
	shutdownTimeout = 60 * time.Second

	// forceExitGrace is added to shutdownTimeout before the process exits without a clean shutdown.
	forceExitGrace = 15 * time.Second
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start GRC-20 indexer service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd.Context(), config.Load())
		},
	}

	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Run only API server")
	flags.String("modules", "", "Enable specific modules to run. E.g. `grc20`")

	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

func runHandler(parent context.Context, conf config.Config) error {
	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.Provide(injector, newReportingClient)
	do.Provide(injector, newHTTPServer)

	// workers get their own context so that a signal lets them finish the current block
	workerCtx, stopWorkers := context.WithCancel(logger.WithContext(context.Background(), slogx.Stringer("network", conf.Network)))
	defer stopWorkers()

	modules := enabledModules(conf.EnableModules)
	workerErrs := make(chan error, len(modules))
	for _, module := range modules {
		worker, err := do.InvokeNamed[indexer.IndexerWorker](injector, module)
		if err != nil {
			if errors.Is(err, do.ErrServiceNotFound) {
				return errors.Errorf("Module %q is not supported", module)
			}
			return errors.Wrapf(err, "can't init module %q", module)
		}
		if conf.APIOnly {
			continue
		}
		go runWorker(logger.WithContext(workerCtx, slogx.String("module", module)), worker, stop, workerErrs)
	}

	app := do.MustInvoke[*fiber.App](injector)
	go serveHTTP(ctx, app, conf.HTTPServer.Port, stop)

	go func() {
		<-workerCtx.Done()
		defer stop()
		logger.InfoContext(ctx, "Indexer workers are stopped. Stopping application...")
	}()

	logger.InfoContext(workerCtx, "GRC-20 indexer started")
	<-ctx.Done()

	go forceExitOnTimeout()

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}
	return errors.WithStack(collectWorkerErrors(workerErrs))
}

// enabledModules normalizes the configured module names.
func enabledModules(modules []string) []string {
	modules = lo.Map(modules, func(item string, _ int) string { return strings.ToLower(strings.TrimSpace(item)) })
	modules = lo.Filter(modules, func(item string, _ int) bool { return item != "" })
	return lo.Uniq(modules)
}

// runWorker runs worker until it returns. A failure is sent to failures before the application is stopped.
func runWorker(ctx context.Context, worker indexer.IndexerWorker, stop context.CancelFunc, failures chan<- error) {
	defer stop()

	logger.InfoContext(ctx, "Starting indexer")
	if err := worker.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Indexer stopped with error", err)
		failures <- err
		return
	}
	logger.InfoContext(ctx, "Indexer stopped")
}

// collectWorkerErrors combines the failures already sent by workers, nil if there are none.
func collectWorkerErrors(failures <-chan error) error {
	var combined error
	for {
		select {
		case err := <-failures:
			combined = errors.CombineErrors(combined, errors.Wrap(err, "indexer failed"))
		default:
			return combined
		}
	}
}

func serveHTTP(ctx context.Context, app *fiber.App, port int, stop context.CancelFunc) {
	defer stop()

	logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", port))
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		logger.ErrorContext(ctx, "HTTP server stopped with error", err)
	}
}

func forceExitOnTimeout() {
	defer os.Exit(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
	case <-time.After(shutdownTimeout + forceExitGrace):
		logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
	}
}

func newReportingClient(i do.Injector) (*reportingclient.ReportingClient, error) {
	conf := do.MustInvoke[config.Config](i)
	if conf.Reporting.Disabled {
		return nil, nil
	}

	client, err := reportingclient.New(conf.Reporting)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return nil, errors.Wrap(err, "invalid reporting configuration")
		}
		return nil, errors.Wrap(err, "can't create reporting client")
	}
	return client, nil
}

func newHTTPServer(i do.Injector) (*fiber.App, error) {
	conf := do.MustInvoke[config.Config](i).HTTPServer

	requestContext, err := requestcontext.New(conf.RequestIP)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request ip configuration")
	}

	app := fiber.New(fiber.Config{
		AppName:               "Gaze GRC-20 Indexer",
		ErrorHandler:          errorhandler.NewHTTPErrorHandler(),
		DisableStartupMessage: true,
	})
	app.
		Use(favicon.New()).
		Use(cors.New()).
		Use(requestid.New()).
		Use(requestContext).
		Use(requestlogger.New(conf.Logger)).
		Use(fiberrecover.New(fiberrecover.Config{
			EnableStackTrace:  true,
			StackTraceHandler: logPanic,
		})).
		Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))

	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app, nil
}

func logPanic(c *fiber.Ctx, e interface{}) {
	buf := make([]byte, 4096)
	buf = buf[:runtime.Stack(buf, false)]
	logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
}
