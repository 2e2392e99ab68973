package indexer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/datasources"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
)

const (
	// MaxReorgLookBack is the number of latest indexed blocks searched for a fork point.
	MaxReorgLookBack = 10

	// DefaultPollingInterval is the wait between polls when the indexer caught up with the datasource.
	DefaultPollingInterval = 5 * time.Second

	// DefaultRetryInterval is the wait before retrying a block that failed to process.
	DefaultRetryInterval = 10 * time.Second
)

type Config struct {
	PollingInterval time.Duration
	RetryInterval   time.Duration
}

// Indexer sequentially applies datasource blocks to the processor, one height at a time.
type Indexer struct {
	Processor  Processor
	Datasource datasources.Datasource

	pollingInterval time.Duration
	retryInterval   time.Duration
	failures        int

	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// New create new indexer
func New(processor Processor, datasource datasources.Datasource, config ...Config) *Indexer {
	var conf Config
	if len(config) > 0 {
		conf = config[0]
	}
	return &Indexer{
		Processor:  processor,
		Datasource: datasource,

		pollingInterval: utils.Default(conf.PollingInterval, DefaultPollingInterval),
		retryInterval:   utils.Default(conf.RetryInterval, DefaultRetryInterval),

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		if !i.started.Load() {
			err = errors.WithStack(i.Processor.Shutdown(ctx))
			return
		}
		select {
		case <-i.done:
		case <-time.After(180 * time.Second):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

// Run processes blocks until the indexer is shut down or the context is canceled.
// A block that fails to process is retried forever after RetryInterval, except when
// the failure is unrecoverable (e.g. a reorg deeper than MaxReorgLookBack).
func (i *Indexer) Run(ctx context.Context) (err error) {
	i.started.Store(true)
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
		slog.String("datasource", i.Datasource.Name()),
	)

	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			if err := i.Processor.Shutdown(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", err)
				return errors.Wrap(err, "processor shutdown failed")
			}
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		var wait time.Duration
		idle, err := i.process(ctx)
		switch {
		case err == nil:
			i.resetFailures()
			if idle {
				logger.DebugContext(ctx, "Waiting for new blocks")
				wait = i.pollingInterval
			}
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, errs.ReorgTooDeep):
			logger.ErrorContext(ctx, "Unrecoverable chain reorganization", err)
			if shutdownErr := i.Processor.Shutdown(ctx); shutdownErr != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", shutdownErr)
			}
			return errors.Wrap(err, "process failed")
		default:
			i.failures++
			consecutiveFailures.WithLabelValues(i.Processor.Name()).Set(float64(i.failures))
			processFailures.WithLabelValues(i.Processor.Name()).Inc()
			logger.ErrorContext(ctx, "Indexer failed while processing, retrying the same block", err,
				slog.Int("consecutive_failures", i.failures),
				slogx.Duration("retry_in", i.retryInterval),
			)
			wait = i.retryInterval
		}

		if wait > 0 {
			select {
			case <-i.quit:
			case <-ctx.Done():
			case <-time.After(wait):
			}
		}
	}
}

func (i *Indexer) resetFailures() {
	if i.failures > 0 {
		logger.Info("Indexer recovered from failures", slog.String("processor", i.Processor.Name()), slog.Int("failures", i.failures))
	}
	i.failures = 0
	consecutiveFailures.WithLabelValues(i.Processor.Name()).Set(0)
}

// process runs one iteration of the indexing loop. It returns idle=true when there is no new block to process.
func (i *Indexer) process(ctx context.Context) (idle bool, err error) {
	if err := i.Processor.ReconcileResidue(ctx); err != nil {
		return false, errors.Wrap(err, "failed to reconcile residue")
	}

	hasIndexed := true
	currentBlock, err := i.Processor.CurrentBlock(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return false, errors.Wrap(err, "failed to get indexer current block")
		}
		hasIndexed = false
		currentBlock = i.Processor.StartingBlock()
	}

	latest, err := i.Datasource.GetLatestBlockHeight(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get latest block height")
	}
	latestHeight.WithLabelValues(i.Processor.Name()).Set(float64(latest))

	nextHeight := currentBlock.Height + 1
	if nextHeight > latest {
		return true, nil
	}

	block, err := i.Datasource.GetBlockHeader(ctx, nextHeight)
	if err != nil {
		return false, errors.Wrapf(err, "failed to get block header, height: %d", nextHeight)
	}

	if hasIndexed {
		forkHeight, reorged, err := i.detectReorg(ctx, currentBlock)
		if err != nil {
			return false, errors.WithStack(err)
		}
		if reorged {
			start := time.Now()
			if err := i.Processor.RevertData(ctx, forkHeight); err != nil {
				return false, errors.Wrap(err, "failed to revert data")
			}
			logger.InfoContext(ctx, "Fixing chain reorganization completed",
				slogx.Int64("current_block", forkHeight),
				slogx.Duration("duration", time.Since(start)),
			)
			return false, nil
		}
	}

	ctx = logger.WithContext(ctx, slogx.Int64("height", block.Height))
	start := time.Now()
	if err := i.Processor.Process(ctx, block); err != nil {
		return false, errors.Wrapf(err, "failed to process block, height: %d", block.Height)
	}
	processDuration.WithLabelValues(i.Processor.Name()).Observe(time.Since(start).Seconds())
	indexedHeight.WithLabelValues(i.Processor.Name()).Set(float64(block.Height))

	logger.InfoContext(ctx, "Processed block successfully",
		slogx.String("event", "processed_block"),
		slogx.Int64("latest_height", latest),
		slogx.Duration("duration", time.Since(start)),
	)

	if reporter, ok := i.Processor.(Reporter); ok {
		if err := reporter.ReportBlock(ctx, block, latest); err != nil {
			logger.WarnContext(ctx, "Failed to report block", slogx.Error(err))
		}
	}
	return false, nil
}

// detectReorg compares the latest indexed block with the datasource. On mismatch it searches the
// latest MaxReorgLookBack indexed blocks, newest first, for the highest block that still matches.
func (i *Indexer) detectReorg(ctx context.Context, current types.BlockHeader) (forkHeight int64, reorged bool, err error) {
	remote, err := i.Datasource.GetBlockHeader(ctx, current.Height)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return 0, false, errors.Wrapf(err, "failed to get remote block header, height: %d", current.Height)
	}
	if err == nil && remote.IsEqual(current) {
		return 0, false, nil
	}

	logger.WarnContext(ctx, "Detected chain reorganization. Searching for fork point...",
		slogx.String("event", "reorg_detected"),
		slogx.Int64("height", current.Height),
		slogx.Stringer("current_hash", current.Hash),
		slogx.Stringer("remote_hash", remote.Hash),
	)
	reorgsDetected.WithLabelValues(i.Processor.Name()).Inc()

	start := time.Now()
	for n := int64(0); n < MaxReorgLookBack; n++ {
		targetHeight := current.Height - n
		indexedHeader, err := i.Processor.GetIndexedBlock(ctx, targetHeight)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				break
			}
			return 0, false, errors.Wrapf(err, "failed to get indexed block, height: %d", targetHeight)
		}

		remoteHeader, err := i.Datasource.GetBlockHeader(ctx, targetHeight)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				continue
			}
			return 0, false, errors.Wrapf(err, "failed to get remote block header, height: %d", targetHeight)
		}

		if indexedHeader.IsEqual(remoteHeader) {
			depth := current.Height - targetHeight
			reorgDepth.WithLabelValues(i.Processor.Name()).Observe(float64(depth))
			logger.InfoContext(ctx, "Found reorg fork point, starting to revert data...",
				slogx.String("event", "reorg_forkpoint"),
				slogx.Int64("fork_height", targetHeight),
				slogx.Int64("total_blocks", depth),
				slogx.Duration("search_duration", time.Since(start)),
			)
			return targetHeight, true, nil
		}
	}

	return 0, false, errors.Wrapf(errs.ReorgTooDeep, "no fork point found within the latest %d blocks of height %d", MaxReorgLookBack, current.Height)
}
