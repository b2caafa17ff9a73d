package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"assetra/internal/domain"
	"assetra/internal/ledger"
	"assetra/internal/marketplace"
)

// Handler carries the marketplace service for the HTTP endpoints.
type Handler struct {
	svc    *marketplace.Service
	logger *zap.Logger
}

// NewHandler creates an API handler.
func NewHandler(svc *marketplace.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateToken onboards a new token.
// POST /tokens
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var spec domain.TokenSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.OnboardToken(r.Context(), spec)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, token)
}

// GetTokens returns every token.
// GET /tokens
func (h *Handler) GetTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Tokens())
}

// GetListedTokens returns tokens available for trading.
// GET /tokens/listed
func (h *Handler) GetListedTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListedTokens())
}

// GetNSETokens returns the NSE demonstration catalog.
// GET /tokens/nse
func (h *Handler) GetNSETokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.NSETokens())
}

// ListToken lists a token for trading at a given price.
// POST /tokens/{id}/list
func (h *Handler) ListToken(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "id")

	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.ListForTrading(r.Context(), tokenID, body.Price)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// GetTokenTrades returns the trade history of a token.
// GET /tokens/{id}/trades
func (h *Handler) GetTokenTrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TokenTrades(chi.URLParam(r, "id")))
}

// CreateTrade settles a trade.
// POST /trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var spec domain.TradeSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.svc.ExecuteTrade(r.Context(), spec)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

// GetUserTokens returns tokens owned or bought by a user.
// GET /users/{id}/tokens
func (h *Handler) GetUserTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.UserTokens(chi.URLParam(r, "id")))
}

// GetUserTrades returns a user's trade history.
// GET /users/{id}/trades
func (h *Handler) GetUserTrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.UserTrades(chi.URLParam(r, "id")))
}

// SearchTokens filters listed tokens.
// GET /marketplace/search?q=...&type=...
func (h *Handler) SearchTokens(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	typ := domain.TokenType(r.URL.Query().Get("type"))

	if typ != "" && typ != domain.TokenTypeAll && !typ.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown token type")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Search(query, typ))
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps ledger errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientSupply):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidTrade):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	// Slices render as [] rather than null when empty.
	json.NewEncoder(w).Encode(normalize(v))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// normalize replaces nil slices with empty ones for JSON output.
func normalize(v interface{}) interface{} {
	switch s := v.(type) {
	case []*domain.Token:
		if s == nil {
			return []*domain.Token{}
		}
	case []*domain.Trade:
		if s == nil {
			return []*domain.Trade{}
		}
	}
	return v
}
