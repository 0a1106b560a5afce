package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// ProgressStore implements store.ProgressStore on SQLite.
type ProgressStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewProgressStore creates a ProgressStore bound to db, which may be a
// *sqlx.DB or a *sqlx.Tx.
func NewProgressStore(db sqlx.ExtContext, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{db: db, logger: logger.With(slog.String("component", "progress_store"))}
}

var _ store.ProgressStore = (*ProgressStore)(nil)

const progressColumns = `user_id, card_id, topic, score, interval_hours,
	last_reviewed, next_review, created_at, updated_at`

// Get implements store.ProgressStore.Get
func (s *ProgressStore) Get(ctx context.Context, userID, cardID string) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	err := sqlx.GetContext(ctx, s.db, &rec,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? AND card_id = ?`,
		userID, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return nil, storeError("progress", "get", err)
	}
	return &rec, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *ProgressStore) Upsert(ctx context.Context, rec *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := rec.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("card_id", rec.CardID))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			topic = excluded.topic,
			score = excluded.score,
			interval_hours = excluded.interval_hours,
			last_reviewed = excluded.last_reviewed,
			next_review = excluded.next_review,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.CardID, rec.Topic, int(rec.Score), rec.IntervalHours,
		rec.LastReviewed.UTC(), rec.NextReview.UTC(), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", rec.UserID),
			slog.String("card_id", rec.CardID))
		return storeError("progress", "upsert", err)
	}
	return nil
}

// ListDue implements store.ProgressStore.ListDue
func (s *ProgressStore) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]*domain.ProgressRecord, error) {
	records := []*domain.ProgressRecord{}
	err := sqlx.SelectContext(ctx, s.db, &records, `
		SELECT `+progressColumns+`
		FROM progress
		WHERE user_id = ? AND next_review <= ?
		ORDER BY next_review ASC, card_id ASC
		LIMIT ?`,
		userID, now.UTC(), limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query due progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("progress", "list_due", err)
	}
	return records, nil
}

// CountDue implements store.ProgressStore.CountDue
func (s *ProgressStore) CountDue(ctx context.Context, userID string, now time.Time) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM progress WHERE user_id = ? AND next_review <= ?`,
		userID, now.UTC())
	if err != nil {
		return 0, storeError("progress", "count_due", err)
	}
	return count, nil
}

// CountByScore implements store.ProgressStore.CountByScore
func (s *ProgressStore) CountByScore(ctx context.Context, userID string) (domain.ScoreCounts, error) {
	var rows []struct {
		Score int `db:"score"`
		N     int `db:"n"`
	}
	var counts domain.ScoreCounts
	err := sqlx.SelectContext(ctx, s.db, &rows,
		`SELECT score, COUNT(*) AS n FROM progress WHERE user_id = ? GROUP BY score`,
		userID)
	if err != nil {
		return counts, storeError("progress", "count_by_score", err)
	}
	for _, r := range rows {
		counts.Add(domain.Score(r.Score), r.N)
	}
	return counts, nil
}

// NextDue implements store.ProgressStore.NextDue
func (s *ProgressStore) NextDue(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	err := sqlx.GetContext(ctx, s.db, &rec, `
		SELECT `+progressColumns+`
		FROM progress
		WHERE user_id = ?
		ORDER BY next_review ASC, card_id ASC
		LIMIT 1`,
		userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, storeError("progress", "next_due", err)
	}
	return &rec, nil
}

// Lock implements store.ProgressStore.Lock. The single-connection pool
// already makes each transaction exclusive, so there is nothing to acquire.
func (s *ProgressStore) Lock(context.Context, string, string) error {
	return nil
}
