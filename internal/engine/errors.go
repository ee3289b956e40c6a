package engine

import "github.com/pkg/errors"

// Input errors are raised at the engine boundary before anything touches
// an index: unknown symbol, non-positive quantity, non-positive price, an
// unrecognized side. Concurrency retries inside the core are never
// surfaced as errors; FindAndConsume and SweepDeleted cannot fail.
var (
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNonPositivePrice    = errors.New("price must be positive")
	ErrUnknownSide         = errors.New("side must be BUY or SELL")
)
