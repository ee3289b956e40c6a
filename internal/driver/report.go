package driver

import (
	"fmt"
	"strings"

	"matchbook/internal/engine"
)

// Report renders the end-of-run book state for every symbol that still
// has resting orders.
func Report(reg *engine.Registry, symbols []string) string {
	var b strings.Builder
	b.WriteString("\nRemaining orders in the book:\n")

	for _, symbol := range symbols {
		snap, err := reg.Snapshot(symbol, 0)
		if err != nil || (len(snap.Bids) == 0 && len(snap.Asks) == 0) {
			continue
		}
		fmt.Fprintf(&b, "\nSymbol: %s\n", symbol)
		if len(snap.Bids) > 0 {
			b.WriteString("  Bids:\n")
			for _, lvl := range snap.Bids {
				fmt.Fprintf(&b, "    %d shares @ $%.2f\n", lvl.Quantity, lvl.Price)
			}
		}
		if len(snap.Asks) > 0 {
			b.WriteString("  Asks:\n")
			for _, lvl := range snap.Asks {
				fmt.Fprintf(&b, "    %d shares @ $%.2f\n", lvl.Quantity, lvl.Price)
			}
		}
	}
	return b.String()
}
