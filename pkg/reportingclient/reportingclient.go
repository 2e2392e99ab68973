package reportingclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/pkg/httpclient"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
)

const (
	DefaultRetries    = 10
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 30 * time.Second
)

type Config struct {
	Disabled bool `mapstructure:"disabled"`

	// URL is the full endpoint that receives block reports.
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`

	Retries    int           `mapstructure:"retries"`     // Default is 10
	RetryDelay time.Duration `mapstructure:"retry_delay"` // Default is 1s
	Timeout    time.Duration `mapstructure:"timeout"`     // Default is 30s
}

type ReportingClient struct {
	httpClient *httpclient.Client
	config     Config
}

func New(config Config) (*ReportingClient, error) {
	if config.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "reporting.url config is required if reporting is enabled")
	}
	if config.Name == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "reporting.name config is required if reporting is enabled")
	}
	if config.Retries < 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "reporting.retries must not be negative")
	}
	config.Retries = utils.Default(config.Retries, DefaultRetries)
	config.RetryDelay = utils.Default(config.RetryDelay, DefaultRetryDelay)

	httpClient, err := httpclient.New(config.URL, httpclient.Config{
		Timeout: utils.Default(config.Timeout, DefaultTimeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &ReportingClient{
		httpClient: httpClient,
		config:     config,
	}, nil
}

type SubmitBlockReportPayload struct {
	Name                string         `json:"name"`
	Type                string         `json:"type"`
	NodeType            string         `json:"node_type"`
	Network             common.Network `json:"network_type"`
	Version             string         `json:"version"`
	DBVersion           int            `json:"db_version"`
	EventHashVersion    int            `json:"event_hash_version"`
	BlockHeight         int64          `json:"block_height"`
	BlockHash           string         `json:"block_hash"`
	BlockEventHash      string         `json:"block_event_hash"`
	CumulativeEventHash string         `json:"cumulative_event_hash"`
}

// SubmitBlockReport posts the block report to the reporting endpoint. Failed attempts are
// retried with a fixed delay; when every attempt fails the report is dropped and nil is returned.
// Only a canceled context or an unencodable payload produce an error.
func (r *ReportingClient) SubmitBlockReport(ctx context.Context, payload SubmitBlockReportPayload) error {
	payload.Name = utils.Default(payload.Name, r.config.Name)
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}

	ctx = logger.WithContext(ctx, slog.String("package", "reportingclient"), slogx.Int64("block_height", payload.BlockHeight))
	for attempt := 1; attempt <= r.config.Retries; attempt++ {
		resp, err := r.httpClient.Post(ctx, "", httpclient.RequestOptions{
			Body: body,
		})
		switch {
		case err != nil:
			logger.WarnContext(ctx, "Failed to send block report", slogx.Error(err), slog.Int("attempt", attempt))
		case resp.StatusCode() == http.StatusOK:
			logger.DebugContext(ctx, "Block report submitted", slog.Any("payload", payload))
			return nil
		default:
			logger.WarnContext(ctx, "Block report rejected",
				slog.Int("attempt", attempt),
				slog.Int("status_code", resp.StatusCode()),
				slog.String("response_body", string(resp.Body())),
			)
		}

		if attempt == r.config.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(r.config.RetryDelay):
		}
	}

	logger.ErrorContext(ctx, "Giving up block report, all attempts failed", errors.Wrap(errs.Timeout, "reporting retries exhausted"), slog.Int("retries", r.config.Retries))
	return nil
}
