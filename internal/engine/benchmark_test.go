package engine

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"matchbook/internal/book"
)

func BenchmarkSubmit(b *testing.B) {
	e := newTestEngine("TICK0")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := book.Bid
		if i%2 == 0 {
			side = book.Ask
		}
		price := 150.00 + float64(i%100)/100
		e.Submit(side, "TICK0", 100, price)
	}
}

func BenchmarkSubmitConcurrent(b *testing.B) {
	e := newTestEngine("TICK0")
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			side := book.Bid
			if i%2 == 0 {
				side = book.Ask
			}
			price := 150.00 + float64(i%100)/100
			e.Submit(side, "TICK0", 100, price)
			i++
		}
	})
}

// TestThroughput measures sustained throughput with many concurrent
// submitters against a shared symbol.
func TestThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping throughput measurement in -short mode")
	}
	e := newTestEngine("TICK0")

	numOrders := 20000
	numWorkers := 10
	ordersPerWorker := numOrders / numWorkers

	var wg sync.WaitGroup
	var totalOrders atomic.Int64

	start := time.Now()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < ordersPerWorker; i++ {
				side := book.Bid
				if i%2 == 0 {
					side = book.Ask
				}
				price := float64(150 + rand.Intn(100))
				if _, err := e.Submit(side, "TICK0", 100, price); err == nil {
					totalOrders.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	t.Logf("processed %d orders in %s (%.0f orders/sec)", totalOrders.Load(), elapsed, float64(totalOrders.Load())/elapsed.Seconds())
}

func TestConcurrentAccessDoesNotPanic(t *testing.T) {
	e := newTestEngine("TICK0")

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				side := book.Bid
				if i%2 == 0 {
					side = book.Ask
				}
				price := float64(150 + (id*10+i)%100)
				e.Submit(side, "TICK0", 100, price)
			}
		}(g)
	}
	wg.Wait()
}
