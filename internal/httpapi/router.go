package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/board"
	"github.com/kasazen/chess-chat/internal/coach"
	"github.com/kasazen/chess-chat/internal/script"
)

// Coach answers coaching questions; satisfied by *coach.Pipeline.
type Coach interface {
	Ask(ctx context.Context, req coach.Request) (script.ActionScript, error)
}

// AskRequest is the /ask body: a position, a free-text question and the
// moves played so far (SAN).
type AskRequest struct {
	FEN     string   `json:"fen"`
	Message string   `json:"message"`
	History []string `json:"history"`
}

// Handler hosts the coaching endpoint.
type Handler struct {
	coach Coach
	log   zerolog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(log zerolog.Logger, c Coach) http.Handler {
	h := &Handler{coach: c, log: log}

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(h.health))
	mux.Handle("/readyz", http.HandlerFunc(h.health))
	mux.Handle("/ask", http.HandlerFunc(h.ask))

	return CORS(RequestID(AccessLog(log, mux)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ask runs the pipeline. By contract it answers 200 with a best-effort
// script in every case except a body that can't be read or a starting
// position that can't be loaded; errors ride in the explanation text.
func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	out, err := h.coach.Ask(r.Context(), coach.Request{
		FEN:      req.FEN,
		Question: req.Message,
		History:  req.History,
	})
	if err != nil {
		if errors.Is(err, board.ErrInvalidPosition) {
			http.Error(w, "invalid FEN: "+err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Msg("ask failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, out)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
