// Package api is the HTTP surface around the engine: order submission,
// book snapshots, a Prometheus /metrics endpoint, and a websocket trade
// tape, routed across the full multi-symbol registry.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchbook/internal/engine"
)

// Server holds the HTTP router and the engine it fronts.
type Server struct {
	engine    *engine.Engine
	router    *mux.Router
	logger    *zap.Logger
	startTime time.Time
	metrics   *metrics
	tradeHub  *hub[engine.Trade]
	upgrader  websocket.Upgrader
}

// NewServer wires routes, a Prometheus registry, and a trade-tape hub
// around eng.
func NewServer(eng *engine.Engine, logger *zap.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		engine:    eng,
		router:    mux.NewRouter(),
		logger:    logger,
		startTime: time.Now(),
		metrics:   newMetrics(reg),
		tradeHub:  newHub[engine.Trade](),
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	s.registerRoutes(reg)

	eng.OnTrade(func(t engine.Trade) {
		s.metrics.tradesExecuted.Inc()
		s.metrics.matchedQty.Observe(float64(t.Quantity))
		s.tradeHub.Broadcast(t)
	})

	return s
}

func (s *Server) registerRoutes(reg *prometheus.Registry) {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/{order_id}", s.handleCancelOrder).Methods("DELETE")
	api.HandleFunc("/orderbook/{symbol}", s.handleGetOrderBook).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	s.router.HandleFunc("/ws/trades", s.handleTradeStream)
}

// Start runs the HTTP server; blocks until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router directly, for tests built on httptest.
func (s *Server) Handler() http.Handler { return s.router }
