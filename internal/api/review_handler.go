package api

import (
	"log/slog"
	"net/http"

	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/review"
)

// ReviewHandler serves progress, due-card and stats requests.
type ReviewHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews review.Service, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("reviews cannot be nil for ReviewHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// UpdateProgress handles POST /progress/update-progress
func (h *ReviewHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateProgressRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	record, err := h.reviews.SubmitReview(r.Context(), req.UserID, req.CardID, req.Topic, domain.Feedback(req.Feedback))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save progress")
		return
	}

	log.Debug("progress saved",
		slog.String("user_id", req.UserID),
		slog.String("card_id", req.CardID),
		slog.Int("interval_hours", record.IntervalHours))
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{
		CardID:        record.CardID,
		Score:         int(record.Score),
		IntervalHours: record.IntervalHours,
		NextReview:    record.NextReview,
	})
}

// Summary handles GET /progress/summary/{userId}
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.reviews.Summary(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress summary")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// DueToday handles GET /due/today/{userId}. The optional limit query value
// is clamped by the service.
func (h *ReviewHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items, err := h.reviews.DueCards(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load due cards")
		return
	}

	log.Debug("due cards loaded",
		slog.String("user_id", userID),
		slog.Int("count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// Stats handles GET /stats/{userId}
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.reviews.UserStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
