package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/store"
)

// StudyPlanStore implements store.StudyPlanStore on SQLite.
type StudyPlanStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewStudyPlanStore creates a StudyPlanStore bound to db.
func NewStudyPlanStore(db sqlx.ExtContext, logger *slog.Logger) *StudyPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyPlanStore{db: db, logger: logger.With(slog.String("component", "study_plan_store"))}
}

var _ store.StudyPlanStore = (*StudyPlanStore)(nil)

type studyPlanRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	WeakTopics     string    `db:"weak_topics"`
	AvailableHours float64   `db:"available_hours"`
	Items          string    `db:"items"`
	CreatedAt      time.Time `db:"created_at"`
}

// Create implements store.StudyPlanStore.Create
func (s *StudyPlanStore) Create(ctx context.Context, plan *domain.StudyPlan) error {
	topics, err := json.Marshal(plan.WeakTopics)
	if err != nil {
		return fmt.Errorf("failed to encode weak topics: %w", err)
	}
	items, err := json.Marshal(plan.Items)
	if err != nil {
		return fmt.Errorf("failed to encode plan items: %w", err)
	}

	_, err = sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO study_plans (id, user_id, weak_topics, available_hours, items, created_at)
		VALUES (:id, :user_id, :weak_topics, :available_hours, :items, :created_at)`,
		studyPlanRow{
			ID:             plan.ID,
			UserID:         plan.UserID,
			WeakTopics:     string(topics),
			AvailableHours: plan.AvailableHours,
			Items:          string(items),
			CreatedAt:      plan.CreatedAt.UTC(),
		})
	if err != nil {
		return storeError("study_plan", "create", err)
	}
	return nil
}

// GetByID implements store.StudyPlanStore.GetByID
func (s *StudyPlanStore) GetByID(ctx context.Context, id string) (*domain.StudyPlan, error) {
	var row studyPlanRow
	err := sqlx.GetContext(ctx, s.db, &row,
		`SELECT id, user_id, weak_topics, available_hours, items, created_at FROM study_plans WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStudyPlanNotFound
		}
		return nil, storeError("study_plan", "get", err)
	}

	plan := &domain.StudyPlan{
		ID:             row.ID,
		UserID:         row.UserID,
		AvailableHours: row.AvailableHours,
		CreatedAt:      row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.WeakTopics), &plan.WeakTopics); err != nil {
		return nil, fmt.Errorf("failed to decode weak topics of plan %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(row.Items), &plan.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of plan %s: %w", id, err)
	}
	return plan, nil
}
