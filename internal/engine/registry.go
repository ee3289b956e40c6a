package engine

import (
	"sync"

	"github.com/pkg/errors"

	"matchbook/internal/book"
)

// bookPair is one symbol's two price-ordered indexes: bids ordered
// descending (highest price first), asks ordered ascending (lowest price
// first).
type bookPair struct {
	bids *book.SkipList
	asks *book.SkipList
}

func newBookPair() *bookPair {
	return &bookPair{
		bids: book.NewSkipList(false, book.MaxLevel),
		asks: book.NewSkipList(true, book.MaxLevel),
	}
}

// Registry maps symbol to its book pair. It can run in two modes: a fixed
// universe, pre-registered at construction, that rejects unknown symbols,
// or a dynamic universe that creates book pairs on first use.
// Cross-symbol operations never contend:
// each symbol owns an independent lock-free pair of indexes; the
// registry's own mutex only guards the map of pairs, not matching.
type Registry struct {
	mu     sync.RWMutex
	books  map[string]*bookPair
	fixed  bool
	symbol []string
}

// NewRegistry builds a registry. A non-empty symbols slice pins the
// universe: BookPair on any other symbol returns ErrUnknownSymbol. An
// empty or nil slice means symbols register themselves on first use.
func NewRegistry(symbols []string) *Registry {
	r := &Registry{books: make(map[string]*bookPair)}
	if len(symbols) > 0 {
		r.fixed = true
		r.symbol = append([]string(nil), symbols...)
		for _, s := range symbols {
			r.books[s] = newBookPair()
		}
	}
	return r
}

// Symbols returns the registry's known universe. In fixed mode this is
// the stable list passed to NewRegistry, in original order; in dynamic
// mode it is a snapshot of symbols seen so far.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fixed {
		return append([]string(nil), r.symbol...)
	}
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	return out
}

// BookPair returns the bid and ask indexes for symbol, creating them on
// demand in dynamic mode. In fixed mode an unrecognized symbol raises a
// classified input error before anything is touched.
func (r *Registry) BookPair(symbol string) (bids, asks *book.SkipList, err error) {
	r.mu.RLock()
	bp, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return bp.bids, bp.asks, nil
	}
	if r.fixed {
		return nil, nil, errors.Wrapf(ErrUnknownSymbol, "symbol %q", symbol)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if bp, ok := r.books[symbol]; ok {
		return bp.bids, bp.asks, nil
	}
	bp = newBookPair()
	r.books[symbol] = bp
	return bp.bids, bp.asks, nil
}

// Snapshot renders a point-in-time view of both sides of symbol's book,
// aggregating resting quantity per price. depth caps the number of price
// levels returned on each side (0 means unlimited).
func (r *Registry) Snapshot(symbol string, depth int) (*BookSnapshot, error) {
	bids, asks, err := r.BookPair(symbol)
	if err != nil {
		return nil, err
	}
	return &BookSnapshot{
		Symbol: symbol,
		Bids:   levels(bids, depth),
		Asks:   levels(asks, depth),
	}, nil
}

// levels walks a level-0 chain aggregating consecutive same-price,
// undeleted, positive-quantity orders into PriceLevelSnapshot entries.
func levels(sl *book.SkipList, depth int) []PriceLevelSnapshot {
	var out []PriceLevelSnapshot
	for v := sl.Head().Next(); v.Valid(); v = v.Next() {
		order := v.Order()
		if order.Deleted() {
			continue
		}
		qty := order.RemainingQty()
		if qty <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Price == order.Price {
			out[n-1].Quantity += qty
			continue
		}
		if depth > 0 && len(out) == depth {
			continue
		}
		out = append(out, PriceLevelSnapshot{Price: order.Price, Quantity: qty})
	}
	return out
}
