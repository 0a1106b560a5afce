package api

import (
	"log/slog"
	"net/http"

	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service/habit"
)

// HabitHandler serves habit CRUD, check-ins and stats.
type HabitHandler struct {
	habits habit.Service
	logger *slog.Logger
}

// NewHabitHandler creates a new HabitHandler
func NewHabitHandler(habits habit.Service, logger *slog.Logger) *HabitHandler {
	if habits == nil {
		panic("habits cannot be nil for HabitHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for HabitHandler")
	}
	return &HabitHandler{
		habits: habits,
		logger: logger.With(slog.String("component", "habit_handler")),
	}
}

// CreateHabit handles POST /habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateHabitRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	created, err := h.habits.Create(r.Context(), req.UserID, req.settings())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create habit")
		return
	}

	log.Info("habit created",
		slog.String("habit_id", created.ID),
		slog.String("user_id", req.UserID))
	shared.RespondWithJSON(w, r, http.StatusCreated, HabitResponse{Habit: created, Message: habit.MsgHabitCreated})
}

// ListHabits handles GET /habits/{userId}?activeOnly=
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	activeOnly, err := queryBool(r, "activeOnly")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	habits, err := h.habits.List(r.Context(), userID, activeOnly)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load habits")
		return
	}

	msg := habit.MsgHabitsLoaded
	if len(habits) == 0 {
		msg = habit.MsgNoHabits
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HabitListResponse{Habits: habits, Message: msg})
}

// UpdateHabit handles PATCH /habits/{habitId}
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := pathParam(r, "habitId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateHabitRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.habits.Update(r.Context(), req.UserID, habitID, req.HabitPatch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update habit")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HabitResponse{Habit: updated})
}

// DeleteHabit handles DELETE /habits/{habitId}?userId=
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID, err := pathParam(r, "habitId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	userID, err := requiredQuery(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.habits.Delete(r.Context(), userID, habitID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete habit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckIn handles POST /habits/check-in
func (h *HabitHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CheckInRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := h.habits.RecordCheckIn(r.Context(), req.UserID, req.HabitID, req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record check-in")
		return
	}

	log.Debug("check-in recorded",
		slog.String("habit_id", req.HabitID),
		slog.Int("current_streak", result.CurrentStreak),
		slog.Bool("missed_yesterday", result.MissedYesterday))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Stats handles GET /habits/stats/{userId}/{habitId}
func (h *HabitHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	habitID, err := pathParam(r, "habitId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.habits.Stats(r.Context(), userID, habitID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load habit stats")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
