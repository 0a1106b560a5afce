package habit

import (
	"context"
	"log/slog"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/domain/streak"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/store"
)

const serviceName = "habit"

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	stores store.Stores
	tx     store.Transactor
	clock  service.Clock
	window time.Duration
	logger *slog.Logger
}

// NewService creates the habit Service. A nil clock uses the system clock.
func NewService(
	stores store.Stores,
	tx store.Transactor,
	clock service.Clock,
	cfg Config,
	logger *slog.Logger,
) Service {
	if stores.Habits == nil {
		panic("habit store cannot be nil")
	}
	if stores.CheckIns == nil {
		panic("check-in store cannot be nil")
	}
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if cfg.StatsWindowDays <= 0 {
		cfg.StatsWindowDays = DefaultStatsWindowDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		stores: stores,
		tx:     tx,
		clock:  service.OrSystem(clock),
		window: time.Duration(cfg.StatsWindowDays) * 24 * time.Hour,
		logger: logger.With(slog.String("component", "habit_service")),
	}
}

// owned loads a habit with load and verifies userID owns it.
func owned(
	ctx context.Context,
	log *slog.Logger,
	load func(context.Context, string) (*domain.Habit, error),
	userID, habitID string,
) (*domain.Habit, error) {
	h, err := load(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h.UserID != userID {
		log.Warn("user does not own habit",
			slog.String("user_id", userID),
			slog.String("habit_id", habitID),
			slog.String("owner_id", h.UserID))
		return nil, service.ErrNotOwned
	}
	return h, nil
}

func validateIDs(userID, habitID string) error {
	if userID == "" {
		return domain.ErrEmptyUserID
	}
	if habitID == "" {
		return domain.ErrEmptyHabitID
	}
	return nil
}

func (s *serviceImpl) Create(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	h, err := domain.NewHabit(userID, settings, s.clock.Now())
	if err != nil {
		log.Debug("habit rejected", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.stores.Habits.Create(ctx, h); err != nil {
		return nil, service.Wrap(serviceName, "create", "failed to create habit", err)
	}
	return h, nil
}

func (s *serviceImpl) List(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	habits, err := s.stores.Habits.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list habits",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, service.Wrap(serviceName, "list", "failed to list habits", err)
	}
	return habits, nil
}

func (s *serviceImpl) Update(
	ctx context.Context,
	userID, habitID string,
	patch domain.HabitPatch,
) (*domain.Habit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := validateIDs(userID, habitID); err != nil {
		return nil, err
	}

	var updated *domain.Habit
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		h, err := owned(ctx, log, tx.Habits.GetForUpdate, userID, habitID)
		if err != nil {
			return err
		}
		if err := h.Apply(patch, s.clock.Now()); err != nil {
			return err
		}
		if err := tx.Habits.Update(ctx, h); err != nil {
			return err
		}
		updated = h
		return nil
	})
	if err != nil {
		return nil, service.Wrap(serviceName, "update", "failed to update habit", err)
	}
	return updated, nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, habitID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := validateIDs(userID, habitID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		if _, err := owned(ctx, log, tx.Habits.GetForUpdate, userID, habitID); err != nil {
			return err
		}
		return tx.Habits.Delete(ctx, habitID)
	})
	if err != nil {
		return service.Wrap(serviceName, "delete", "failed to delete habit", err)
	}
	return nil
}

func (s *serviceImpl) RecordCheckIn(
	ctx context.Context,
	userID, habitID string,
	in domain.CheckInInput,
) (*CheckInResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := validateIDs(userID, habitID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if in.CompletedAt.IsZero() {
		in.CompletedAt = now
	}
	// Validate the check-in before touching the store.
	checkIn, err := domain.NewCheckIn(habitID, userID, in, now)
	if err != nil {
		return nil, err
	}

	var result *CheckInResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		h, err := owned(ctx, log, tx.Habits.GetForUpdate, userID, habitID)
		if err != nil {
			return err
		}

		next, outcome := streak.Apply(streak.State{
			CurrentStreak:   h.CurrentStreak,
			LongestStreak:   h.LongestStreak,
			LastCompletedAt: h.LastCompletedAt,
			MissedYesterday: h.MissedYesterday,
		}, streak.Event{
			Completed:   checkIn.Completed,
			CompletedAt: checkIn.CompletedAt,
		}, h.Location())

		if outcome != streak.OutcomeSameDay {
			h.CurrentStreak = next.CurrentStreak
			h.LongestStreak = next.LongestStreak
			h.LastCompletedAt = next.LastCompletedAt
			h.MissedYesterday = next.MissedYesterday
			h.UpdatedAt = now.UTC()
			if err := tx.Habits.Update(ctx, h); err != nil {
				return err
			}
		}

		if err := tx.CheckIns.Create(ctx, checkIn); err != nil {
			return err
		}

		result = &CheckInResult{
			CheckIn:         checkIn,
			CurrentStreak:   h.CurrentStreak,
			LongestStreak:   h.LongestStreak,
			MissedYesterday: h.MissedYesterday,
			Outcome:         outcome,
			Message:         CheckInMessage(checkIn.Completed, h.MissedYesterday),
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record check-in",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("habit_id", habitID))
		return nil, service.Wrap(serviceName, "record_check_in", "failed to record check-in", err)
	}

	log.Info("check-in recorded",
		slog.String("habit_id", habitID),
		slog.String("outcome", result.Outcome.String()),
		slog.Int("current_streak", result.CurrentStreak),
		slog.Int("longest_streak", result.LongestStreak))
	return result, nil
}

func (s *serviceImpl) Stats(ctx context.Context, userID, habitID string) (*Stats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := validateIDs(userID, habitID); err != nil {
		return nil, err
	}

	h, err := owned(ctx, log, s.stores.Habits.GetByID, userID, habitID)
	if err != nil {
		return nil, service.Wrap(serviceName, "stats", "failed to load habit", err)
	}

	counts, err := s.stores.CheckIns.Counts(ctx, habitID)
	if err != nil {
		return nil, service.Wrap(serviceName, "stats", "failed to count check-ins", err)
	}
	recent, err := s.stores.CheckIns.ListByHabit(ctx, habitID, s.clock.Now().Add(-s.window))
	if err != nil {
		return nil, service.Wrap(serviceName, "stats", "failed to list recent check-ins", err)
	}

	return &Stats{
		HabitID:           h.ID,
		CurrentStreak:     h.CurrentStreak,
		LongestStreak:     h.LongestStreak,
		TotalCheckIns:     counts.Total,
		CompletedCheckIns: counts.Completed,
		CompletionRate:    counts.CompletionRate(),
		RecentCheckIns:    recent,
		MissedYesterday:   h.MissedYesterday,
	}, nil
}
