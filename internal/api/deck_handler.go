package api

import (
	"log/slog"
	"net/http"

	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
)

// DeckHandler serves saved flashcard decks.
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks service.DeckService, logger *slog.Logger) *DeckHandler {
	if decks == nil {
		panic("decks cannot be nil for DeckHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for DeckHandler")
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /flashcards/decks/{userId}
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load decks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// DeleteDeck handles DELETE /decks/{deckId}?userId=
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, err := pathParam(r, "deckId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	userID, err := requiredQuery(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID),
		slog.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}
