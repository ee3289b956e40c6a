package book

import (
	"sync"
	"testing"
)

func TestInsertOrdering(t *testing.T) {
	sl := NewSkipList(true, MaxLevel)
	prices := []float64{12.00, 9.00, 10.50, 9.50, 11.00}
	for _, p := range prices {
		sl.Insert(NewRestingOrder(Ask, "TICK0", p, 10))
	}

	var got []float64
	for v := sl.Head().Next(); v.Valid(); v = v.Next() {
		got = append(got, v.Order().Price)
	}

	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("ascending index not sorted: %v", got)
		}
	}
	if len(got) != len(prices) {
		t.Fatalf("expected %d nodes, got %d", len(prices), len(got))
	}
}

func TestInsertDescending(t *testing.T) {
	sl := NewSkipList(false, MaxLevel)
	prices := []float64{9.00, 12.00, 10.50}
	for _, p := range prices {
		sl.Insert(NewRestingOrder(Bid, "TICK0", p, 10))
	}
	var got []float64
	for v := sl.Head().Next(); v.Valid(); v = v.Next() {
		got = append(got, v.Order().Price)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] < got[i] {
			t.Fatalf("descending index not sorted: %v", got)
		}
	}
}

func TestInsertDuplicateIdentityRejected(t *testing.T) {
	sl := NewSkipList(true, MaxLevel)
	o := NewRestingOrder(Ask, "TICK0", 10.0, 50)
	if !sl.Insert(o) {
		t.Fatalf("first insert should succeed")
	}
	if sl.Insert(o) {
		t.Fatalf("inserting the same record twice should return false")
	}
}

func TestInsertDistinctEqualValueNotDeduplicated(t *testing.T) {
	sl := NewSkipList(true, MaxLevel)
	a := NewRestingOrder(Ask, "TICK0", 10.0, 50)
	b := NewRestingOrder(Ask, "TICK0", 10.0, 50)
	if !sl.Insert(a) || !sl.Insert(b) {
		t.Fatalf("two distinct records with equal (side,price,qty) must both insert")
	}
	count := 0
	for v := sl.Head().Next(); v.Valid(); v = v.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 nodes, got %d", count)
	}
}

// Exact cross: one resting ASK is fully consumed by one matching BID.
func TestFindAndConsumeExactCross(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	asks.Insert(NewRestingOrder(Ask, "TICK0", 10.00, 50))

	result := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 50, "SELL")
	if result.MatchedQty != 50 || result.Price != 10.00 {
		t.Fatalf("unexpected result: %+v", result)
	}

	asks.SweepDeleted()
	if asks.Head().Next().Valid() {
		t.Fatalf("ask book should be empty after sweep")
	}
}

// Aggressor partially filled, remainder crosses nothing further.
func TestFindAndConsumePartialAggressor(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	asks.Insert(NewRestingOrder(Ask, "TICK0", 9.00, 30))

	result := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 100, "SELL")
	if result.MatchedQty != 30 || result.Price != 9.00 {
		t.Fatalf("unexpected first match: %+v", result)
	}
	second := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 70, "SELL")
	if second.MatchedQty != 0 {
		t.Fatalf("expected no further match, got %+v", second)
	}
}

// Resting order partially filled, stays live with remaining_qty set.
func TestFindAndConsumePartialResting(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	resting := NewRestingOrder(Ask, "TICK0", 10.00, 200)
	asks.Insert(resting)

	result := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 75, "SELL")
	if result.MatchedQty != 75 {
		t.Fatalf("expected matched 75, got %+v", result)
	}
	if resting.RemainingQty() != 125 {
		t.Fatalf("expected remaining 125, got %d", resting.RemainingQty())
	}
	if resting.Deleted() {
		t.Fatalf("partially filled resting order must be live (deleted=false)")
	}
}

// Walk terminates at the first non-matching price without claiming it.
func TestFindAndConsumeStopsAtNonMatchingPrice(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	far := NewRestingOrder(Ask, "TICK0", 12.00, 50)
	near := NewRestingOrder(Ask, "TICK0", 9.00, 50)
	asks.Insert(far)
	asks.Insert(near)

	result := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 100, "SELL")
	if result.MatchedQty != 50 || result.Price != 9.00 {
		t.Fatalf("expected match against 9.00, got %+v", result)
	}
	if far.Deleted() {
		t.Fatalf("the 12.00 ask must never be claimed")
	}
}

func TestFindAndConsumeNoMatchOnEmptyBook(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	result := asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 100, "SELL")
	if result.MatchedQty != 0 {
		t.Fatalf("expected no match, got %+v", result)
	}
}

func TestSweepIdempotent(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	asks.Insert(NewRestingOrder(Ask, "TICK0", 10.00, 10))
	asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 10, "SELL")
	asks.SweepDeleted()
	asks.SweepDeleted() // idempotent: second sweep is a no-op
	if asks.Head().Next().Valid() {
		t.Fatalf("book should stay empty across repeated sweeps")
	}
}

// Concurrent aggressors against one resting order must sum to exactly
// its quantity with no double-fill and no torn reads.
func TestConcurrentAggressorsNoDoubleFill(t *testing.T) {
	asks := NewSkipList(true, MaxLevel)
	resting := NewRestingOrder(Ask, "TICK0", 10.00, 100)
	asks.Insert(resting)

	var wg sync.WaitGroup
	results := make([]MatchResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = asks.FindAndConsume(func(p float64) bool { return p <= 10.00 }, 60, "SELL")
		}(i)
	}
	wg.Wait()

	total := results[0].MatchedQty + results[1].MatchedQty
	if total != 100 {
		t.Fatalf("expected matched quantities to sum to 100, got %d (results=%+v)", total, results)
	}
	if resting.RemainingQty() != 0 {
		t.Fatalf("resting order should be fully depleted, remaining=%d", resting.RemainingQty())
	}
}

func TestConcurrentInsertsAllVisible(t *testing.T) {
	sl := NewSkipList(true, MaxLevel)
	var wg sync.WaitGroup
	n := 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sl.Insert(NewRestingOrder(Ask, "TICK0", float64(i%50)+1, 10))
		}(i)
	}
	wg.Wait()

	count := 0
	for v := sl.Head().Next(); v.Valid(); v = v.Next() {
		count++
	}
	if count != n {
		t.Fatalf("expected %d nodes reachable from head, got %d", n, count)
	}
}
