package ws

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/deribit-gex/internal/gex"
)

// Streamer periodically pushes GEX snapshots to subscribed clients. It goes
// through the Service, so broadcasts within the TTL window re-serve the
// cached result and only stale symbols hit the upstream API.
type Streamer struct {
	hub      *Hub
	service  *gex.Service
	interval time.Duration
	logger   *zap.Logger
}

func NewStreamer(hub *Hub, service *gex.Service, interval time.Duration, logger *zap.Logger) *Streamer {
	return &Streamer{
		hub:      hub,
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the streaming loop. Call in a goroutine.
// Returns when context is cancelled.
func (s *Streamer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("streamer shutting down")
			return
		case <-ticker.C:
			s.broadcastAll(ctx)
		}
	}
}

func (s *Streamer) broadcastAll(ctx context.Context) {
	for _, symbol := range s.hub.ActiveSymbols() {
		result, err := s.service.Snapshot(ctx, symbol)
		if err != nil {
			s.logger.Warn("stream snapshot failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			continue
		}

		payload, err := json.Marshal(result)
		if err != nil {
			s.logger.Warn("stream encode failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			continue
		}

		s.hub.Broadcast(symbol, payload)
	}
}
