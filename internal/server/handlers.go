package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dgnsrekt/deribit-gex/internal/config"
	"github.com/dgnsrekt/deribit-gex/internal/gex"
)

type Server struct {
	service *gex.Service
	config  *config.Config
	logger  *zap.Logger
}

func NewServer(service *gex.Service, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetGex serves the GEX result for ?currency=SYM (default BTC). The
// allow-list check runs before any cache or upstream access.
func (s *Server) GetGex(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "BTC"
	}
	symbol := strings.ToUpper(currency)

	if !s.config.AllowedSymbol(symbol) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Invalid currency. Must be one of: " + strings.Join(s.config.Symbols, ", "),
		})
		return
	}

	s.logger.Debug("gex request", zap.String("symbol", symbol))

	result, err := s.service.Snapshot(r.Context(), symbol)
	if err != nil {
		s.logger.Error("gex computation failed",
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetHealth reports liveness and the configured allow-list.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"symbols": s.config.Symbols,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
