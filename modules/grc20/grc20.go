package grc20

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/datasources"
	"github.com/gaze-network/grc20-indexer/core/indexer"
	"github.com/gaze-network/grc20-indexer/internal/config"
	"github.com/gaze-network/grc20-indexer/internal/postgres"
	"github.com/gaze-network/grc20-indexer/modules/grc20/api/httphandler"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/datagateway"
	grc20postgres "github.com/gaze-network/grc20-indexer/modules/grc20/internal/repository/postgres"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/usecase"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/reportingclient"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	var cleanupFuncs []func(context.Context) error
	var grc20Dg datagateway.GRC20DataGateway
	switch strings.ToLower(conf.Modules.GRC20.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.GRC20.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		grc20Dg = grc20postgres.NewRepository(pg)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for indexer is not supported", conf.Modules.GRC20.Database)
	}

	var ordinalsDatasource *datasources.OrdinalsDatasource
	switch strings.ToLower(conf.Modules.GRC20.Datasource) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.GRC20.OrdinalsPostgres)
		if err != nil {
			return nil, errors.Wrap(err, "can't create ordinals Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		ordinalsDatasource = datasources.NewOrdinals(pg, Protocol)
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q datasource is not supported", conf.Modules.GRC20.Datasource)
	}
	if err := ordinalsDatasource.CheckPrerequisites(ctx, conf.Network); err != nil {
		return nil, errors.Wrap(err, "upstream ordinals index is not usable")
	}

	var reportingClient ReportingClient
	if client := do.MustInvoke[*reportingclient.ReportingClient](injector); client != nil {
		if conf.Network == common.NetworkRegtest {
			logger.InfoContext(ctx, "Network is regtest, reporting is disabled")
		} else {
			reportingClient = client
		}
	}

	processor := NewProcessor(grc20Dg, ordinalsDatasource, reportingClient, conf.Network, cleanupFuncs)
	if err := processor.VerifyStates(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.Modules.GRC20.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			grc20HTTPHandler := httphandler.New(conf.Network, usecase.New(grc20Dg))
			if err := grc20HTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount GRC20 API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	indexer := indexer.New(processor, ordinalsDatasource, indexer.Config{
		PollingInterval: conf.Modules.GRC20.PollingInterval,
		RetryInterval:   conf.Modules.GRC20.RetryInterval,
	})
	return indexer, nil
}
