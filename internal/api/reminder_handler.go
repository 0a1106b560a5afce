package api

import (
	"log/slog"
	"net/http"

	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
)

// ReminderHandler serves daily reminder settings.
type ReminderHandler struct {
	reminders reminder.Service
	logger    *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminders reminder.Service, logger *slog.Logger) *ReminderHandler {
	if reminders == nil {
		panic("reminders cannot be nil for ReminderHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ReminderHandler")
	}
	return &ReminderHandler{
		reminders: reminders,
		logger:    logger.With(slog.String("component", "reminder_handler")),
	}
}

// SetReminder handles POST /reminders/set
func (h *ReminderHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	var req SetReminderRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	saved, err := h.reminders.Set(r.Context(), req.UserID, req.PushToken, req.TimeOfDay, enabled)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save reminder")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, saved)
}

// GetReminder handles GET /reminders/{userId}
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	userID, err := pathParam(r, "userId")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	found, err := h.reminders.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load reminder")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, found)
}
