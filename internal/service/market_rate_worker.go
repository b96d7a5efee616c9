package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-coach/internal/websocket"
	"github.com/rs/zerolog"
)

// MarketRateWorker is a background worker that periodically refreshes market rates
type MarketRateWorker struct {
	rateService *MarketRateService
	publisher   websocket.EventPublisher
	logger      zerolog.Logger
	interval    time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	mu          sync.Mutex
	running     bool
}

// MarketRateWorkerConfig holds configuration for the market rate worker
type MarketRateWorkerConfig struct {
	Interval time.Duration // How often to refresh rates
}

// DefaultMarketRateWorkerConfig returns sensible defaults
func DefaultMarketRateWorkerConfig() MarketRateWorkerConfig {
	return MarketRateWorkerConfig{
		Interval: 6 * time.Hour,
	}
}

// NewMarketRateWorker creates a new market rate worker
func NewMarketRateWorker(
	rateService *MarketRateService,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config MarketRateWorkerConfig,
) *MarketRateWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultMarketRateWorkerConfig().Interval
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}

	return &MarketRateWorker{
		rateService: rateService,
		publisher:   publisher,
		logger:      logger.With().Str("component", "market_rate_worker").Logger(),
		interval:    config.Interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background refresh
func (w *MarketRateWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting market rate worker")

	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *MarketRateWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping market rate worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Market rate worker stopped")
}

func (w *MarketRateWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Refresh immediately on startup
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *MarketRateWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *MarketRateWorker) refresh(ctx context.Context) {
	startTime := time.Now()

	rates, err := w.rateService.Refresh(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to refresh market rates")
		return
	}

	w.publisher.PublishAll(websocket.MarketRatesRefreshed(rates))

	w.logger.Info().
		Int("options", len(rates.Options)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Refreshed market rates")
}

// IsRunning returns whether the worker is currently running
func (w *MarketRateWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
