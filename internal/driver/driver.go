// Package driver generates synthetic order flow against an engine: bursts
// of concurrent submitters with randomized side, symbol, quantity, and
// price, paused briefly between bursts.
package driver

import (
	"context"
	"math"
	mrand "math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"matchbook/internal/book"
	"matchbook/internal/config"
	"matchbook/internal/engine"
)

// Run generates random orders against eng until cfg.SimulationSeconds
// elapses or ctx is cancelled, whichever comes first. A rejected order is
// logged and the run continues.
func Run(ctx context.Context, eng *engine.Engine, symbols []string, cfg config.Config, logger *zap.Logger) engine.Stats {
	deadline := time.Now().Add(time.Duration(cfg.SimulationSeconds) * time.Second)
	logger.Info("starting simulation", zap.Int("duration_seconds", cfg.SimulationSeconds), zap.Int("burst_size", cfg.BurstSize))

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return eng.Stats()
		default:
		}

		var wg sync.WaitGroup
		for i := 0; i < cfg.BurstSize; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				submitRandomOrder(eng, symbols, logger)
			}()
		}
		wg.Wait()

		pause := time.Duration(100+mrand.IntN(200)) * time.Millisecond
		select {
		case <-ctx.Done():
			return eng.Stats()
		case <-time.After(pause):
		}
	}

	logger.Info("simulation complete", zap.Any("stats", eng.Stats()))
	return eng.Stats()
}

func submitRandomOrder(eng *engine.Engine, symbols []string, logger *zap.Logger) {
	side := book.Bid
	if mrand.IntN(2) == 0 {
		side = book.Ask
	}
	symbol := symbols[mrand.IntN(len(symbols))]
	qty := int64(100 + mrand.IntN(901))
	basePrice := mrand.Float64()*90 + 10
	price := math.Round(basePrice*(mrand.Float64()*0.04+0.98)*100) / 100

	result, err := eng.Submit(side, symbol, qty, price)
	if err != nil {
		logger.Warn("order rejected", zap.Error(err))
		return
	}
	logger.Info("ADDED",
		zap.String("side", string(side)),
		zap.Int64("qty", qty),
		zap.String("symbol", symbol),
		zap.Float64("price", price),
		zap.String("status", string(result.Status)),
	)
}
