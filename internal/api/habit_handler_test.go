package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prepmate/prepmate-api/internal/api"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/service/habit"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateHabit() map[string]any {
	return map[string]any{
		"user_id":    "u1",
		"title":      "Review 5 flashcards",
		"goal_type":  "cards",
		"goal_value": 5,
		"frequency":  "daily",
		"stack_cue":  "after morning tea",
		"timezone":   "Asia/Kolkata",
	}
}

func TestCreateHabit(t *testing.T) {
	t.Run("created with defaults", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		var got domain.HabitSettings
		svcs.habit.CreateFn = func(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error) {
			assert.Equal(t, "u1", userID)
			got = settings
			return &domain.Habit{ID: "h1", UserID: userID, HabitSettings: settings}, nil
		}

		w := doRequest(t, router, http.MethodPost, "/api/habits", validCreateHabit())
		require.Equal(t, http.StatusCreated, w.Code)

		assert.True(t, got.Active)
		assert.Equal(t, domain.GoalCards, got.GoalType)
		assert.Equal(t, 5, got.GoalValue)
		assert.Equal(t, "after morning tea", got.StackCue)

		resp := decodeBody[api.HabitResponse](t, w)
		assert.Equal(t, "h1", resp.Habit.ID)
		assert.Equal(t, habit.MsgHabitCreated, resp.Message)
	})

	t.Run("explicitly inactive", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.CreateFn = func(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error) {
			assert.False(t, settings.Active)
			return &domain.Habit{ID: "h1", HabitSettings: settings}, nil
		}
		body := validCreateHabit()
		body["active"] = false

		w := doRequest(t, router, http.MethodPost, "/api/habits", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	tests := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"goal type", "goal_type", "pages", "Invalid goal_type: invalid value"},
		{"goal value too large", "goal_value", 1001, "Invalid goal_value: too large"},
		{"custom day", "custom_days", []string{"Mon", "Funday"}, "Invalid custom_days[1]: invalid value"},
		{"timezone", "timezone", "Mars/Olympus", "Invalid timezone: unknown timezone"},
		{"missing title", "title", "", "Invalid title: required field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			body := validCreateHabit()
			body[tc.field] = tc.value

			w := doRequest(t, router, http.MethodPost, "/api/habits", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, errorBody(t, w).Error)
		})
	}
}

func TestListHabits(t *testing.T) {
	t.Run("active only", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.ListFn = func(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
			assert.True(t, activeOnly)
			return []*domain.Habit{{ID: "h1", UserID: userID}}, nil
		}

		w := doRequest(t, router, http.MethodGet, "/api/habits/u1?activeOnly=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[api.HabitListResponse](t, w)
		assert.Len(t, resp.Habits, 1)
		assert.Equal(t, habit.MsgHabitsLoaded, resp.Message)
	})

	t.Run("none yet", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.ListFn = func(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
			assert.False(t, activeOnly)
			return []*domain.Habit{}, nil
		}

		w := doRequest(t, router, http.MethodGet, "/api/habits/u1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, habit.MsgNoHabits, decodeBody[api.HabitListResponse](t, w).Message)
	})

	t.Run("bad flag", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := doRequest(t, router, http.MethodGet, "/api/habits/u1?activeOnly=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateHabit(t *testing.T) {
	router, svcs := newTestRouter(t)
	svcs.habit.UpdateFn = func(ctx context.Context, userID, habitID string, patch domain.HabitPatch) (*domain.Habit, error) {
		assert.Equal(t, "u1", userID)
		assert.Equal(t, "h1", habitID)
		require.NotNil(t, patch.GoalValue)
		assert.Equal(t, 3, *patch.GoalValue)
		assert.Nil(t, patch.Title)
		h := &domain.Habit{ID: habitID, UserID: userID}
		h.GoalValue = *patch.GoalValue
		return h, nil
	}

	w := doRequest(t, router, http.MethodPatch, "/api/habits/h1", map[string]any{"user_id": "u1", "goal_value": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decodeBody[api.HabitResponse](t, w).Habit.GoalValue)

	w = doRequest(t, router, http.MethodPatch, "/api/habits/h1", map[string]any{"goal_value": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid user_id: required field", errorBody(t, w).Error)
}

func TestDeleteHabit(t *testing.T) {
	router, svcs := newTestRouter(t)
	svcs.habit.DeleteFn = func(ctx context.Context, userID, habitID string) error {
		if userID != "u1" {
			return service.ErrNotOwned
		}
		return nil
	}

	assert.Equal(t, http.StatusNoContent, doRequest(t, router, http.MethodDelete, "/api/habits/h1?userId=u1", nil).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, router, http.MethodDelete, "/api/habits/h1?userId=u2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, http.MethodDelete, "/api/habits/h1", nil).Code)
}

func TestHabitCheckIn(t *testing.T) {
	completedAt := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	t.Run("recorded", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.RecordCheckInFn = func(ctx context.Context, userID, habitID string, in domain.CheckInInput) (*habit.CheckInResult, error) {
			assert.True(t, in.Completed)
			assert.Equal(t, domain.MoodGreat, in.Mood)
			require.NotNil(t, in.TimeSpent)
			assert.Equal(t, 15, *in.TimeSpent)
			assert.True(t, completedAt.Equal(in.CompletedAt))
			return &habit.CheckInResult{CurrentStreak: 1, LongestStreak: 4, MissedYesterday: true, Message: habit.MsgRecovered}, nil
		}

		w := doRequest(t, router, http.MethodPost, "/api/habits/check-in", map[string]any{
			"user_id": "u1", "habit_id": "h1", "completed": true,
			"mood": "great", "time_spent": 15, "completed_at": completedAt.Format(time.RFC3339),
		})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[habit.CheckInResult](t, w)
		assert.True(t, resp.MissedYesterday)
		assert.Equal(t, habit.MsgRecovered, resp.Message)
	})

	t.Run("completion time defaults to zero for the service to fill", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.RecordCheckInFn = func(ctx context.Context, userID, habitID string, in domain.CheckInInput) (*habit.CheckInResult, error) {
			assert.False(t, in.Completed)
			assert.True(t, in.CompletedAt.IsZero())
			return &habit.CheckInResult{Message: habit.MsgNotCompleted}, nil
		}

		w := doRequest(t, router, http.MethodPost, "/api/habits/check-in", map[string]any{
			"user_id": "u1", "habit_id": "h1", "completed": false,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"completed missing", map[string]any{"user_id": "u1", "habit_id": "h1"}, "Invalid completed: required field"},
		{"mood", map[string]any{"user_id": "u1", "habit_id": "h1", "completed": true, "mood": "meh"}, "Invalid mood: invalid value"},
		{"time spent", map[string]any{"user_id": "u1", "habit_id": "h1", "completed": true, "time_spent": 2000}, "Invalid time_spent: too large"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			w := doRequest(t, router, http.MethodPost, "/api/habits/check-in", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, errorBody(t, w).Error)
		})
	}

	t.Run("unknown habit", func(t *testing.T) {
		router, svcs := newTestRouter(t)
		svcs.habit.DefaultError = store.ErrHabitNotFound
		w := doRequest(t, router, http.MethodPost, "/api/habits/check-in", map[string]any{
			"user_id": "u1", "habit_id": "nope", "completed": true,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Habit not found", errorBody(t, w).Error)
	})
}

func TestHabitStats(t *testing.T) {
	router, svcs := newTestRouter(t)
	svcs.habit.StatsFn = func(ctx context.Context, userID, habitID string) (*habit.Stats, error) {
		assert.Equal(t, "u1", userID)
		assert.Equal(t, "h1", habitID)
		return &habit.Stats{HabitID: habitID, CurrentStreak: 2, CompletionRate: 80}, nil
	}

	w := doRequest(t, router, http.MethodGet, "/api/habits/stats/u1/h1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[habit.Stats](t, w)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.EqualValues(t, 80, stats.CompletionRate)
}
