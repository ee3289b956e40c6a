package book

import (
	"fmt"
	mrand "math/rand/v2"
)

// MaxLevel is the default cap on a node's level, drawn by a geometric
// distribution with mean ~1.
const MaxLevel = 32

// SkipList is a lock-free, probabilistically balanced ordered index over
// resting orders, keyed by price. Ascending lists serve the ask book
// (lowest price first); descending lists serve the bid book.
//
// insert splices nodes with plain atomic stores rather than per-level CAS.
// This is a deliberate, tolerated data race: the matching walk only reads
// forward pointers at level 0 and tolerates a transiently out-of-order
// segment during a concurrent insert. Hardening this into a fully
// lock-free structure would mean per-level CAS with re-search on failure.
type SkipList struct {
	ascending bool
	maxLevel  int
	head      *node
}

// NewSkipList constructs an index. ascending determines comparison
// direction; maxLevel defaults to MaxLevel when <= 0.
func NewSkipList(ascending bool, maxLevel int) *SkipList {
	if maxLevel <= 0 {
		maxLevel = MaxLevel
	}
	return &SkipList{
		ascending: ascending,
		maxLevel:  maxLevel,
		head:      newNode(nil, maxLevel),
	}
}

// Head returns a read-only iteration handle starting at the sentinel.
func (sl *SkipList) Head() View { return View{sl.head} }

func randomLevel(maxLevel int) int {
	level := 0
	for mrand.IntN(2) == 1 && level < maxLevel {
		level++
	}
	return level
}

// before reports whether price a sorts strictly ahead of price b in this
// list's matching direction.
func (sl *SkipList) before(a, b float64) bool {
	if sl.ascending {
		return a < b
	}
	return a > b
}

// Insert links order into every level up to a randomly drawn level L.
// Returns false if a node carrying the identical order record (same
// pointer) is met on the search path, which includes the first node at
// or after order's price; a copy further along a run of equal prices is
// not detected. Duplicate detection is by record identity, never by
// (side, price, qty) equality.
func (sl *SkipList) Insert(order *RestingOrder) bool {
	level := randomLevel(sl.maxLevel)
	update := make([]*node, sl.maxLevel+1)

	current := sl.head
	for i := sl.maxLevel; i >= 0; i-- {
		for {
			next := current.next[i].Load()
			if next == nil {
				break
			}
			if next.order == order {
				return false
			}
			if sl.before(next.order.Price, order.Price) {
				current = next
				continue
			}
			break
		}
		update[i] = current
	}

	if n := update[0].next[0].Load(); n != nil && n.order == order {
		return false
	}

	newNode := newNode(order, level)
	for i := 0; i <= level; i++ {
		newNode.next[i].Store(update[i].next[i].Load())
		update[i].next[i].Store(newNode)
	}
	return true
}

// MatchResult is returned by FindAndConsume. MatchedQty == 0 means no
// resting order crossed the incoming order on this call.
type MatchResult struct {
	MatchedQty  int64
	Price       float64
	Description string
	Matched     bool
}

// FindAndConsume walks the index from the best price, consuming at most
// one resting order. Callers loop until MatchedQty == 0.
//
// The claim (the deleted flag flipped false->true) is a per-node,
// spinless mutex for matching: exactly one matcher may consume from a
// node at a time. Quantity updates are CAS'd so two matchers racing over
// overlapping slices of the same node still serialize correctly.
func (sl *SkipList) FindAndConsume(pricePredicate func(price float64) bool, wantedQty int64, sideTag string) MatchResult {
	current := sl.head.next[0].Load()
	for current != nil {
		order := current.order
		if !order.deleted.Load() {
			if !pricePredicate(order.Price) {
				// Index is price-ordered in the matching direction; no
				// later node can satisfy the predicate either.
				break
			}
			if order.deleted.CompareAndSwap(false, true) {
				if result, ok := consume(order, wantedQty, sideTag); ok {
					return result
				}
				// Claimed node turned out empty; fall through and advance.
			}
			// Claim lost to a peer matcher, or claimed-then-empty: advance
			// without terminating the walk.
		}
		current = current.next[0].Load()
	}
	return MatchResult{}
}

// consume runs the consumption loop on a node this goroutine has already
// claimed (deleted == true, held exclusively for matching purposes). It
// returns ok == false only when the node was already empty when claimed.
func consume(order *RestingOrder, wantedQty int64, sideTag string) (MatchResult, bool) {
	for {
		available := order.remainingQty.Load()
		if available <= 0 {
			order.deleted.Store(true)
			return MatchResult{}, false
		}
		matched := available
		if wantedQty < matched {
			matched = wantedQty
		}
		if !order.remainingQty.CompareAndSwap(available, available-matched) {
			continue
		}
		left := order.remainingQty.Load()
		if left > 0 {
			order.deleted.CompareAndSwap(true, false)
		} else {
			order.deleted.Store(true)
		}
		return MatchResult{
			MatchedQty:  matched,
			Price:       order.Price,
			Description: describeResting(sideTag, order, left),
			Matched:     true,
		}, true
	}
}

func describeResting(sideTag string, order *RestingOrder, left int64) string {
	return fmt.Sprintf("%s ORDER: %d/%d left for %s @ %.2f", sideTag, left, order.OriginalQty, order.Symbol, order.Price)
}

// SweepDeleted physically unlinks every node whose order is marked
// deleted. Not linearizable against concurrent inserts — callers run it
// after their own matching pass completes, as a maintenance step rather
// than a hot-path cost. Re-traversing every level to find each marked
// node's predecessor is O(n*maxLevel); that is intentional here.
func (sl *SkipList) SweepDeleted() {
	current := sl.head.next[0].Load()
	prev := sl.head
	for current != nil {
		if current.order.deleted.Load() {
			for i := 0; i <= sl.maxLevel; i++ {
				p := sl.head
				c := sl.head.next[i].Load()
				for c != nil && c != current {
					p = c
					c = c.next[i].Load()
				}
				if c == current {
					p.next[i].CompareAndSwap(current, current.next[i].Load())
				}
			}
			current = prev.next[0].Load()
			continue
		}
		prev = current
		current = current.next[0].Load()
	}
}
