// Package supplycache keeps the remaining mint capacity of every deployed ticker in memory.
//
// The cache mirrors the remaining supply columns of the ticker table and is only written by
// the block processor, which applies heights strictly sequentially. It is not safe for
// concurrent use.
package supplycache

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/shopspring/decimal"
)

type Loader interface {
	GetTickers(ctx context.Context) ([]*entity.Ticker, error)
}

// Supply is a snapshot of the counters of one (tick, code).
type Supply struct {
	MaxTickSupply       decimal.Decimal
	MaxCodeSupply       decimal.Decimal
	TickRemainingSupply decimal.Decimal
	CodeRemainingSupply decimal.Decimal
	Decimals            uint16
}

type tickState struct {
	max       decimal.Decimal
	remaining decimal.Decimal
	codes     map[string]*codeState
}

type codeState struct {
	max       decimal.Decimal
	remaining decimal.Decimal
	decimals  uint16
}

type Cache struct {
	loader Loader
	ticks  map[string]*tickState
	size   int
}

func New(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		ticks:  make(map[string]*tickState),
	}
}

// Load replaces the whole cache with the tickers of the store.
func (c *Cache) Load(ctx context.Context) error {
	tickers, err := c.loader.GetTickers(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tickers")
	}

	ticks := make(map[string]*tickState)
	size := 0
	for _, ticker := range tickers {
		tick, ok := ticks[ticker.Tick]
		if !ok {
			tick = &tickState{
				max:       ticker.MaxTickSupply,
				remaining: ticker.TickRemainingSupply,
				codes:     make(map[string]*codeState),
			}
			ticks[ticker.Tick] = tick
		}
		// rows of the same tick are updated together, keep the most consumed value if they ever disagree
		if ticker.TickRemainingSupply.LessThan(tick.remaining) {
			tick.remaining = ticker.TickRemainingSupply
		}
		if _, ok := tick.codes[ticker.Code]; !ok {
			size++
		}
		tick.codes[ticker.Code] = &codeState{
			max:       ticker.MaxCodeSupply,
			remaining: ticker.CodeRemainingSupply,
			decimals:  ticker.Decimals,
		}
	}

	c.ticks = ticks
	c.size = size
	return nil
}

// Get returns the counters of (tick, code). ok is false if it is not deployed.
func (c *Cache) Get(tick, code string) (supply Supply, ok bool) {
	t, ok := c.ticks[tick]
	if !ok {
		return Supply{}, false
	}
	cs, ok := t.codes[code]
	if !ok {
		return Supply{}, false
	}
	return Supply{
		MaxTickSupply:       t.max,
		MaxCodeSupply:       cs.max,
		TickRemainingSupply: t.remaining,
		CodeRemainingSupply: cs.remaining,
		Decimals:            cs.decimals,
	}, true
}

// ApplyDelta adds deltaTick to the remaining supply of the tick (shared by all of its codes)
// and deltaCode to the remaining supply of (tick, code). Use negative deltas for mints.
func (c *Cache) ApplyDelta(tick, code string, deltaTick, deltaCode decimal.Decimal) error {
	t, ok := c.ticks[tick]
	if !ok {
		return errors.Wrapf(errs.NotFound, "tick %q is not deployed", tick)
	}
	cs, ok := t.codes[code]
	if !ok {
		return errors.Wrapf(errs.NotFound, "code %q of tick %q is not deployed", code, tick)
	}
	t.remaining = t.remaining.Add(deltaTick)
	cs.remaining = cs.remaining.Add(deltaCode)
	return nil
}

// Len returns the number of deployed (tick, code).
func (c *Cache) Len() int {
	return c.size
}
