// Command matchctl is the CLI front end for the matching engine: start
// the HTTP surface, run the random-order simulation, or inspect a
// symbol's book.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matchbook/internal/api"
	"matchbook/internal/config"
	"matchbook/internal/driver"
	"matchbook/internal/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "matchctl",
		Short: "Concurrent skip-list order matching engine",
	}
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(&cfg), newSimulateCmd(&cfg), newBookCmd(&cfg))
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := mustLogger()
			defer logger.Sync()

			reg := engine.NewRegistry(cfg.Symbols())
			eng := engine.NewEngine(reg, logger)
			srv := api.NewServer(eng, logger)

			return srv.Start(cfg.ListenAddr)
		},
	}
}

func newSimulateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [duration-seconds]",
		Short: "Run the random order-submission load generator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := mustLogger()
			defer logger.Sync()

			if len(args) == 1 {
				var seconds int
				if _, err := fmt.Sscanf(args[0], "%d", &seconds); err != nil || seconds <= 0 {
					logger.Warn("invalid duration argument, using default", zap.String("arg", args[0]), zap.Int("default_seconds", cfg.SimulationSeconds))
				} else {
					cfg.SimulationSeconds = seconds
				}
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			symbols := cfg.Symbols()
			reg := engine.NewRegistry(symbols)
			eng := engine.NewEngine(reg, logger)

			driver.Run(ctx, eng, symbols, *cfg, logger)
			fmt.Println(driver.Report(reg, symbols))
			return nil
		},
	}
}

func newBookCmd(cfg *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "book <symbol>",
		Short: "Print a symbol's order book from a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/orderbook/%s", addr, args[0]))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			var pretty map[string]interface{}
			if err := json.Unmarshal(body, &pretty); err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(pretty, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "server", "localhost:8080", "address of a running matchctl serve instance")
	return cmd
}

func mustLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
