package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `user_id, card_id, topic, score, interval_hours,
	last_reviewed, next_review, created_at, updated_at`

func scanProgress(row interface{ Scan(...any) error }) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	var score int
	if err := row.Scan(
		&rec.UserID,
		&rec.CardID,
		&rec.Topic,
		&score,
		&rec.IntervalHours,
		&rec.LastReviewed,
		&rec.NextReview,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Score = domain.Score(score)
	return &rec, nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, userID, cardID string) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + progressColumns + ` FROM progress WHERE user_id = $1 AND card_id = $2`
	rec, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress record not found",
				slog.String("user_id", userID),
				slog.String("card_id", cardID))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return nil, storeError("progress", "get", err)
	}
	return rec, nil
}

// Upsert implements store.ProgressStore.Upsert
// The record is validated before writing. An existing row keeps its created_at.
func (s *PostgresProgressStore) Upsert(ctx context.Context, rec *domain.ProgressRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rec.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("card_id", rec.CardID))
		return err
	}

	query := `
		INSERT INTO progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			topic = EXCLUDED.topic,
			score = EXCLUDED.score,
			interval_hours = EXCLUDED.interval_hours,
			last_reviewed = EXCLUDED.last_reviewed,
			next_review = EXCLUDED.next_review,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.UserID,
		rec.CardID,
		rec.Topic,
		int(rec.Score),
		rec.IntervalHours,
		rec.LastReviewed.UTC(),
		rec.NextReview.UTC(),
		rec.CreatedAt.UTC(),
		rec.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to upsert progress record",
			slog.String("error", err.Error()),
			slog.String("user_id", rec.UserID),
			slog.String("card_id", rec.CardID))
		return storeError("progress", "upsert", err)
	}

	log.Debug("progress record upserted",
		slog.String("user_id", rec.UserID),
		slog.String("card_id", rec.CardID),
		slog.Int("interval_hours", rec.IntervalHours))
	return nil
}

// ListDue implements store.ProgressStore.ListDue
func (s *PostgresProgressStore) ListDue(
	ctx context.Context,
	userID string,
	now time.Time,
	limit int,
) ([]*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + progressColumns + `
		FROM progress
		WHERE user_id = $1 AND next_review <= $2
		ORDER BY next_review ASC, card_id ASC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, now.UTC(), limit)
	if err != nil {
		log.Error("failed to query due progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("progress", "list_due", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.ProgressRecord, 0, limit)
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, storeError("progress", "list_due", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("progress", "list_due", err)
	}

	log.Debug("due progress retrieved",
		slog.String("user_id", userID),
		slog.Int("count", len(records)))
	return records, nil
}

// CountDue implements store.ProgressStore.CountDue
func (s *PostgresProgressStore) CountDue(ctx context.Context, userID string, now time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM progress WHERE user_id = $1 AND next_review <= $2`,
		userID, now.UTC(),
	).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count due progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return 0, storeError("progress", "count_due", err)
	}
	return count, nil
}

// CountByScore implements store.ProgressStore.CountByScore
func (s *PostgresProgressStore) CountByScore(ctx context.Context, userID string) (domain.ScoreCounts, error) {
	var counts domain.ScoreCounts

	rows, err := s.db.QueryContext(ctx,
		`SELECT score, COUNT(*) FROM progress WHERE user_id = $1 GROUP BY score`,
		userID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count progress by score",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return counts, storeError("progress", "count_by_score", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var score, n int
		if err := rows.Scan(&score, &n); err != nil {
			return counts, storeError("progress", "count_by_score", err)
		}
		counts.Add(domain.Score(score), n)
	}
	if err := rows.Err(); err != nil {
		return counts, storeError("progress", "count_by_score", err)
	}
	return counts, nil
}

// NextDue implements store.ProgressStore.NextDue
func (s *PostgresProgressStore) NextDue(ctx context.Context, userID string) (*domain.ProgressRecord, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM progress
		WHERE user_id = $1
		ORDER BY next_review ASC, card_id ASC
		LIMIT 1
	`
	rec, err := scanProgress(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get next due progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, storeError("progress", "next_due", err)
	}
	return rec, nil
}

// Lock implements store.ProgressStore.Lock using a transaction-scoped
// advisory lock keyed on the (user, card) pair.
func (s *PostgresProgressStore) Lock(ctx context.Context, userID, cardID string) error {
	_, err := s.db.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		fmt.Sprintf("progress:%d:%s:%s", len(userID), userID, cardID),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to acquire progress lock",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return storeError("progress", "lock", err)
	}
	return nil
}
