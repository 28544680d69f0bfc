package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myntr-ai/myntr/internal/models"
	"github.com/myntr-ai/myntr/internal/services/advice"
)

// handleAnalyze handles POST /analyze.
// A body that cannot be decoded is answered with the fallback advice, never an error status.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var query models.FinancialQuery
	if err := decodeJSON(w, r, &query); err != nil {
		s.logger.Warn().Err(err).Msg("Malformed analyze request, returning fallback advice")
		WriteJSON(w, http.StatusOK, advice.FallbackAdvice())
		return
	}

	WriteJSON(w, http.StatusOK, s.app.AdviceService.Analyze(r.Context(), query))
}

// handleMarketData handles GET /market-data/{symbol}.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Market data lookup failed")
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Symbol %s not found or error occurred", symbol))
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}
