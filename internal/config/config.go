// Package config centralizes the handful of knobs this engine takes:
// listen address, the symbol universe, and simulation parameters. There
// is no config file — everything is bound from CLI flags with defaults
// baked in as constants.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	DefaultNumSymbols        = 1024
	DefaultSimulationSeconds = 30
	DefaultBurstSize         = 5
	DefaultListenAddr        = ":8080"
)

// Config holds everything the CLI, the HTTP server, and the simulation
// driver need.
type Config struct {
	ListenAddr        string
	NumSymbols        int
	SimulationSeconds int
	BurstSize         int
}

// Default returns the configuration used when no flags are supplied.
func Default() Config {
	return Config{
		ListenAddr:        DefaultListenAddr,
		NumSymbols:        DefaultNumSymbols,
		SimulationSeconds: DefaultSimulationSeconds,
		BurstSize:         DefaultBurstSize,
	}
}

// BindFlags registers this config's fields onto a flag set, the way
// cobra commands bind pflag.FlagSet values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "HTTP listen address")
	fs.IntVar(&c.NumSymbols, "symbols", c.NumSymbols, "size of the fixed symbol universe (TICK0..TICKN-1)")
	fs.IntVar(&c.SimulationSeconds, "duration", c.SimulationSeconds, "simulation duration in seconds")
	fs.IntVar(&c.BurstSize, "burst", c.BurstSize, "concurrent submitters per burst during simulation")
}

// Symbols renders the fixed universe TICK0..TICK{N-1}.
func (c Config) Symbols() []string {
	symbols := make([]string, c.NumSymbols)
	for i := range symbols {
		symbols[i] = ticker(i)
	}
	return symbols
}

func ticker(i int) string {
	return fmt.Sprintf("TICK%d", i)
}
