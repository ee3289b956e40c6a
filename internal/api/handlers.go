package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchbook/internal/engine"
)

// SubmitOrderRequest is the JSON request body for POST /api/v1/orders.
type SubmitOrderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.ordersRejected.Inc()
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		s.metrics.ordersRejected.Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Submit(side, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		s.metrics.ordersRejected.Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ordersReceived.Inc()
	if len(result.Trades) > 0 {
		s.metrics.ordersMatched.Inc()
	}

	statusCode := http.StatusCreated
	switch result.Status {
	case engine.StatusFilled:
		statusCode = http.StatusOK
	case engine.StatusPartialFill:
		statusCode = http.StatusAccepted
	}
	respondJSON(w, statusCode, result)
}

// handleCancelOrder always rejects: the core has no cancel-by-id API, and
// this route exists only to give clients a stable endpoint to call.
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.engine.CancelOrder(vars["order_id"]); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"order_id": vars["order_id"], "status": "CANCELLED"})
}

func (s *Server) handleGetOrderBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	depth := 10
	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		if d, err := strconv.Atoi(depthStr); err == nil && d > 0 {
			depth = d
		}
	}

	snapshot, err := s.engine.Registry().Snapshot(symbol, depth)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"uptime_seconds":   int64(time.Since(s.startTime).Seconds()),
		"orders_processed": stats.OrdersReceived,
	})
}

// handleTradeStream upgrades to a websocket and streams every trade this
// engine emits as JSON, fanned out through the trade hub.
func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := s.tradeHub.Subscribe(32)
	defer s.tradeHub.Unsubscribe(sub)

	for trade := range sub.ch {
		if err := conn.WriteJSON(trade); err != nil {
			return
		}
	}
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}
