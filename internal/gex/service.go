package gex

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dgnsrekt/deribit-gex/internal/batch"
	"github.com/dgnsrekt/deribit-gex/internal/cache"
	"github.com/dgnsrekt/deribit-gex/internal/deribit"
)

// Service drives the GEX pipeline: listing calls, batched ticker fetches,
// aggregation, and the TTL cache in front of it all.
//
// The cache is deliberately not single-flight: two requests for the same
// symbol racing a cold or stale entry both run the pipeline and both write;
// last write wins. Redundant upstream calls in that window are accepted.
type Service struct {
	client      deribit.Client
	cache       *cache.Store[*Result]
	concurrency int
	batchDelay  time.Duration
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

type Options struct {
	Concurrency int
	BatchDelay  time.Duration
	TTL         time.Duration
	// Now substitutes the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

func NewService(client deribit.Client, store *cache.Store[*Result], opts Options, logger *zap.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		client:      client,
		cache:       store,
		concurrency: opts.Concurrency,
		batchDelay:  opts.BatchDelay,
		ttl:         opts.TTL,
		now:         now,
		logger:      logger,
	}
}

// Snapshot returns the GEX result for a symbol, serving from cache while the
// stored entry is younger than the TTL. A fresh hit is returned verbatim,
// timestamp included. The symbol must already be validated by the caller.
func (s *Service) Snapshot(ctx context.Context, symbol string) (*Result, error) {
	if entry, ok := s.cache.Get(symbol); ok && s.now().Sub(entry.ComputedAt) < s.ttl {
		s.logger.Debug("cache hit",
			zap.String("symbol", symbol),
			zap.Time("computedAt", entry.ComputedAt),
		)
		return entry.Value, nil
	}

	result, err := s.Compute(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.cache.Put(symbol, result, result.LastUpdated)
	return result, nil
}

// Compute runs the full pipeline for a symbol, bypassing the cache.
func (s *Service) Compute(ctx context.Context, symbol string) (*Result, error) {
	start := s.now()

	// The two listing calls are independent; fetch them concurrently. Either
	// failing is fatal for the whole computation.
	var (
		instruments []deribit.Instrument
		summaries   []deribit.BookSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		instruments, err = s.client.GetInstruments(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = s.client.GetBookSummaries(gctx, symbol)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Only instruments with positive open interest move on.
	openInterest := make(map[string]float64, len(summaries))
	for _, summary := range summaries {
		if summary.OpenInterest > 0 {
			openInterest[summary.Name] = summary.OpenInterest
		}
	}

	active := make([]deribit.Instrument, 0, len(openInterest))
	for _, inst := range instruments {
		if _, ok := openInterest[inst.Name]; ok {
			active = append(active, inst)
		}
	}

	s.logger.Debug("fetching tickers",
		zap.String("symbol", symbol),
		zap.Int("instruments", len(instruments)),
		zap.Int("active", len(active)),
	)

	// One ticker fetch per active instrument. Individual failures degrade to
	// an absent snapshot for that instrument, never an error.
	tickers := batch.Run(ctx, active, func(ctx context.Context, inst deribit.Instrument) (*deribit.Ticker, error) {
		return s.client.GetTicker(ctx, inst.Name)
	}, s.concurrency, s.batchDelay)

	spot := spotFromTickers(tickers)
	strikes, expirations := aggregate(active, openInterest, tickers, spot)

	result := &Result{
		Currency:    symbol,
		SpotPrice:   spot,
		LastUpdated: s.now(),
		Expirations: expirations,
		Strikes:     strikes,
	}

	s.logger.Info("computed gex",
		zap.String("symbol", symbol),
		zap.Float64("spot", spot),
		zap.Int("strikes", len(strikes)),
		zap.Int("expirations", len(expirations)),
		zap.Duration("duration", s.now().Sub(start)),
	)

	return result, nil
}
