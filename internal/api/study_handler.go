package api

import (
	"log/slog"
	"net/http"

	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/study"
)

// StudyHandler serves the AI study assistant and text extraction.
type StudyHandler struct {
	study  study.Service
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(svc study.Service, logger *slog.Logger) *StudyHandler {
	if svc == nil {
		panic("study service cannot be nil for StudyHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for StudyHandler")
	}
	return &StudyHandler{
		study:  svc,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// SolveDoubt handles POST /ai/solve-doubt
func (h *StudyHandler) SolveDoubt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SolveDoubtRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	solution, err := h.study.SolveDoubt(r.Context(), req.QuestionText, req.ImageURL)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to solve doubt")
		return
	}

	log.Debug("doubt solved",
		slog.String("subject", solution.Subject),
		slog.Int("steps", len(solution.Steps)),
		slog.Bool("from_image", req.QuestionText == ""))
	shared.RespondWithJSON(w, r, http.StatusOK, solution)
}

// GeneratePlan handles POST /ai/generate-plan
func (h *StudyHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req GeneratePlanRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	plan, err := h.study.GeneratePlan(r.Context(), req.UserID, req.WeakTopics, req.AvailableHours)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate study plan")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// GenerateFlashcards handles POST /ai/generate-flashcards
func (h *StudyHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req GenerateFlashcardsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	set, err := h.study.GenerateFlashcards(r.Context(), req.UserID, req.Topic)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate flashcards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// ExtractText handles POST /ocr/extract-text
func (h *StudyHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	var req ExtractTextRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	text, err := h.study.ExtractText(r.Context(), req.ImageURL)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to extract text")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ExtractTextResponse{Text: text})
}
