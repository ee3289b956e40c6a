package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"matchbook/internal/book"
)

// Engine is the matching orchestrator: per incoming order, it repeatedly
// calls FindAndConsume on the opposite-side index until the order is
// fully filled or no further crossing is possible, then inserts any
// residual on its own side and sweeps the opposite index.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
	onTrade  func(Trade)

	ordersReceived  atomic.Int64
	ordersMatched   atomic.Int64
	ordersCancelled atomic.Int64
	tradesExecuted  atomic.Int64
}

// NewEngine wires a registry and logger into an orchestrator. logger may
// be zap.NewNop() in tests.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// OnTrade registers a hook invoked synchronously for every trade this
// engine emits, after the resting order's state has settled. Used to
// fan matches out to the websocket trade tape without the core knowing
// about transport.
func (e *Engine) OnTrade(fn func(Trade)) { e.onTrade = fn }

// ParseSide accepts both the core's BID/ASK vocabulary and the more
// conversational BUY/SELL spelling, case-insensitively.
func ParseSide(s string) (book.Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "BID":
		return book.Bid, nil
	case "SELL", "ASK":
		return book.Ask, nil
	default:
		return "", errors.Wrapf(ErrUnknownSide, "side %q", s)
	}
}

// Submit validates an incoming order, attempts to cross it against the
// opposite-side book, inserts any residual on its own side, and sweeps
// the opposite side once. It returns an error only for input validation
// failures; all concurrency contention inside the core is resolved by
// CAS retries and never surfaces here.
func (e *Engine) Submit(side book.Side, symbol string, qty int64, price float64) (*SubmitResult, error) {
	if qty <= 0 {
		return nil, errors.Wrapf(ErrNonPositiveQuantity, "qty %d", qty)
	}
	if price <= 0 {
		return nil, errors.Wrapf(ErrNonPositivePrice, "price %.2f", price)
	}
	if side != book.Bid && side != book.Ask {
		return nil, errors.Wrapf(ErrUnknownSide, "side %q", side)
	}

	bids, asks, err := e.registry.BookPair(symbol)
	if err != nil {
		return nil, err
	}
	e.ordersReceived.Add(1)

	var ownBook, oppositeBook *book.SkipList
	var predicate func(float64) bool
	var restingTag, aggressorTag string
	switch side {
	case book.Bid:
		ownBook, oppositeBook = bids, asks
		predicate = func(p float64) bool { return p <= price }
		restingTag, aggressorTag = "SELL", "BUY"
	case book.Ask:
		ownBook, oppositeBook = asks, bids
		predicate = func(p float64) bool { return p >= price }
		restingTag, aggressorTag = "BUY", "SELL"
	}

	remaining := qty
	var trades []Trade
	for remaining > 0 {
		result := oppositeBook.FindAndConsume(predicate, remaining, restingTag)
		if result.MatchedQty == 0 {
			break
		}
		remaining -= result.MatchedQty

		trade := Trade{
			ID:            uuid.New().String(),
			Symbol:        symbol,
			Price:         result.Price,
			Quantity:      result.MatchedQty,
			Timestamp:     time.Now().UnixNano(),
			AggressorSide: side,
		}
		trades = append(trades, trade)
		e.tradesExecuted.Add(1)

		e.reportMatch(aggressorTag, symbol, result, remaining, qty, price)
		if e.onTrade != nil {
			e.onTrade(trade)
		}
	}
	oppositeBook.SweepDeleted()

	inserted := true
	if remaining > 0 {
		resting := book.NewRestingOrder(side, symbol, price, remaining)
		inserted = ownBook.Insert(resting)
	}
	if len(trades) > 0 {
		e.ordersMatched.Add(1)
	}

	status := StatusAccepted
	switch {
	case remaining == 0:
		status = StatusFilled
	case remaining < qty:
		status = StatusPartialFill
	}

	return &SubmitResult{
		OrderID:      uuid.New().String(),
		Side:         side,
		Symbol:       symbol,
		Price:        price,
		OriginalQty:  qty,
		FilledQty:    qty - remaining,
		RemainingQty: remaining,
		Inserted:     inserted,
		Status:       status,
		Trades:       trades,
	}, nil
}

// reportMatch renders a human-readable trade line and writes it through
// the structured logger, with the same data attached as fields for
// anything consuming structured logs instead.
func (e *Engine) reportMatch(aggressorTag, symbol string, result book.MatchResult, aggressorRemaining, aggressorOrig int64, aggressorPrice float64) {
	line := fmt.Sprintf(
		"MATCHED: %d shares of %s at $%.2f\n  %s ORDER: %d/%d left for %s @ %.2f\n  %s",
		result.MatchedQty, symbol, result.Price,
		aggressorTag, aggressorRemaining, aggressorOrig, symbol, aggressorPrice,
		result.Description,
	)
	e.logger.Info(line,
		zap.Int64("matched_qty", result.MatchedQty),
		zap.String("symbol", symbol),
		zap.Float64("price", result.Price),
	)
}

// CancelOrder always fails: the core has no cancel-by-id API, since
// resting orders leave a book only by depletion. The method exists so
// callers get an explicit error instead of a missing endpoint.
func (e *Engine) CancelOrder(orderID string) error {
	return errors.New("cancel is not supported: resting orders leave a book only by depletion")
}

// Stats is a point-in-time snapshot of the engine's counters, used by the
// /health endpoint, the simulation driver, and tests.
type Stats struct {
	OrdersReceived  int64
	OrdersMatched   int64
	OrdersCancelled int64
	TradesExecuted  int64
}

func (e *Engine) Stats() Stats {
	return Stats{
		OrdersReceived:  e.ordersReceived.Load(),
		OrdersMatched:   e.ordersMatched.Load(),
		OrdersCancelled: e.ordersCancelled.Load(),
		TradesExecuted:  e.tradesExecuted.Load(),
	}
}

// Registry exposes the engine's backing registry for read-only reporting
// (book snapshots, symbol listing) without handing out mutation access.
func (e *Engine) Registry() *Registry { return e.registry }
