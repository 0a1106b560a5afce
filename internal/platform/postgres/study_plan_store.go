package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresStudyPlanStore implements the store.StudyPlanStore interface.
type PostgresStudyPlanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyPlanStore creates a new PostgreSQL implementation of the StudyPlanStore interface.
func NewPostgresStudyPlanStore(db store.DBTX, logger *slog.Logger) *PostgresStudyPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudyPlanStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_plan_store")),
	}
}

var _ store.StudyPlanStore = (*PostgresStudyPlanStore)(nil)

// Create implements store.StudyPlanStore.Create
func (s *PostgresStudyPlanStore) Create(ctx context.Context, plan *domain.StudyPlan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topics, err := json.Marshal(plan.WeakTopics)
	if err != nil {
		return fmt.Errorf("failed to encode weak topics: %w", err)
	}
	items, err := json.Marshal(plan.Items)
	if err != nil {
		return fmt.Errorf("failed to encode plan items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO study_plans (id, user_id, weak_topics, available_hours, items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		plan.ID, plan.UserID, string(topics), plan.AvailableHours, string(items), plan.CreatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to create study plan",
			slog.String("error", err.Error()),
			slog.String("user_id", plan.UserID))
		return storeError("study_plan", "create", err)
	}

	log.Info("study plan created",
		slog.String("plan_id", plan.ID),
		slog.String("user_id", plan.UserID),
		slog.Int("items", len(plan.Items)))
	return nil
}

// GetByID implements store.StudyPlanStore.GetByID
func (s *PostgresStudyPlanStore) GetByID(ctx context.Context, id string) (*domain.StudyPlan, error) {
	var plan domain.StudyPlan
	var topics, items []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, weak_topics, available_hours, items, created_at
		FROM study_plans WHERE id = $1`, id,
	).Scan(&plan.ID, &plan.UserID, &topics, &plan.AvailableHours, &items, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStudyPlanNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get study plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id))
		return nil, storeError("study_plan", "get", err)
	}

	if err := json.Unmarshal(topics, &plan.WeakTopics); err != nil {
		return nil, fmt.Errorf("failed to decode weak topics of plan %s: %w", id, err)
	}
	if err := json.Unmarshal(items, &plan.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of plan %s: %w", id, err)
	}
	return &plan, nil
}
