package engine

import "matchbook/internal/book"

// Status summarizes the outcome of a submitted order for reporting
// purposes; the core itself has no notion of order status, only
// remaining quantity and the deleted flag.
type Status string

const (
	StatusAccepted    Status = "ACCEPTED"
	StatusPartialFill Status = "PARTIAL_FILL"
	StatusFilled      Status = "FILLED"
	StatusRejected    Status = "REJECTED"
)

// Trade is an executed match. Its price is always the resting order's
// price — price improvement accrues to the aggressor.
type Trade struct {
	ID            string    `json:"trade_id"`
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Quantity      int64     `json:"quantity"`
	Timestamp     int64     `json:"timestamp"`
	AggressorSide book.Side `json:"aggressor_side"`
}

// SubmitResult is what Submit hands back to a caller: the fill outcome of
// one incoming order.
type SubmitResult struct {
	OrderID      string    `json:"order_id"`
	Side         book.Side `json:"side"`
	Symbol       string    `json:"symbol"`
	Price        float64   `json:"price"`
	OriginalQty  int64     `json:"original_qty"`
	FilledQty    int64     `json:"filled_qty"`
	RemainingQty int64     `json:"remaining_qty"`
	Inserted     bool      `json:"inserted"`
	Status       Status    `json:"status"`
	Trades       []Trade   `json:"trades,omitempty"`
}

// PriceLevelSnapshot is an aggregated, point-in-time view of one price in
// a book, used by reporting and the HTTP order-book endpoint.
type PriceLevelSnapshot struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// BookSnapshot is a point-in-time view of both sides of a symbol's book.
type BookSnapshot struct {
	Symbol string               `json:"symbol"`
	Bids   []PriceLevelSnapshot `json:"bids"`
	Asks   []PriceLevelSnapshot `json:"asks"`
}
