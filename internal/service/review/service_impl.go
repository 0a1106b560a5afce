package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/domain/srs"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/store"
)

const serviceName = "review"

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	stores store.Stores
	tx     store.Transactor
	srs    srs.Service
	clock  service.Clock
	cfg    Config
	logger *slog.Logger
}

// NewService creates the review Service. stores is used for reads; tx binds
// the stores used by SubmitReview to a transaction. A nil clock uses the
// system clock.
func NewService(
	stores store.Stores,
	tx store.Transactor,
	srsService srs.Service,
	clock service.Clock,
	cfg Config,
	logger *slog.Logger,
) Service {
	if stores.Progress == nil {
		panic("progress store cannot be nil")
	}
	if stores.Decks == nil {
		panic("deck store cannot be nil")
	}
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if srsService == nil {
		srsService = srs.NewDefaultService()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		stores: stores,
		tx:     tx,
		srs:    srsService,
		clock:  service.OrSystem(clock),
		cfg:    cfg.withDefaults(),
		logger: logger.With(slog.String("component", "review_service")),
	}
}

func (s *serviceImpl) DueCards(ctx context.Context, userID string, limit int) ([]DueItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	limit = s.cfg.clamp(limit)
	now := s.clock.Now()

	records, err := s.stores.Progress.ListDue(ctx, userID, now, limit)
	if err != nil {
		log.Error("failed to list due records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, service.NewServiceError(serviceName, "due_cards", "failed to list due records", err)
	}

	if len(records) > 0 {
		items := make([]DueItem, 0, len(records))
		for _, rec := range records {
			next := rec.NextReview
			items = append(items, DueItem{
				CardID:        rec.CardID,
				Topic:         rec.Topic,
				NextReview:    &next,
				IntervalHours: rec.IntervalHours,
				Score:         rec.Score,
			})
		}
		log.Debug("resolved due cards",
			slog.String("user_id", userID),
			slog.Int("count", len(items)))
		return items, nil
	}

	deck, err := s.stores.Decks.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			log.Debug("no due cards and no decks", slog.String("user_id", userID))
			return []DueItem{}, nil
		}
		log.Error("failed to load fallback deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, service.NewServiceError(serviceName, "due_cards", "failed to load fallback deck", err)
	}

	n := min(limit, len(deck.Cards))
	items := make([]DueItem, 0, n)
	for i, card := range deck.Cards[:n] {
		items = append(items, DueItem{
			CardID:   domain.FallbackCardID(deck.ID, i),
			Topic:    deck.Topic,
			Question: card.Question,
			Answer:   card.Answer,
			DeckID:   deck.ID,
			Fallback: true,
		})
	}
	log.Debug("resolved due cards from latest deck",
		slog.String("user_id", userID),
		slog.String("deck_id", deck.ID),
		slog.Int("count", len(items)))
	return items, nil
}

func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID, topic string,
	feedback domain.Feedback,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	if cardID == "" {
		return nil, domain.ErrEmptyCardID
	}
	score, err := feedback.Score()
	if err != nil {
		log.Warn("invalid review feedback",
			slog.String("user_id", userID),
			slog.String("card_id", cardID),
			slog.String("feedback", string(feedback)))
		return nil, err
	}

	var saved *domain.ProgressRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		if err := tx.Progress.Lock(ctx, userID, cardID); err != nil {
			return err
		}

		prev, err := tx.Progress.Get(ctx, userID, cardID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return err
			}
			prev = nil
		}

		next, err := s.srs.CalculateNextReview(prev, srs.Review{
			UserID: userID,
			CardID: cardID,
			Topic:  topic,
			Score:  score,
		}, s.clock.Now())
		if err != nil {
			return err
		}

		if err := tx.Progress.Upsert(ctx, next); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
			slog.String("card_id", cardID))
		return nil, service.Wrap(serviceName, "submit_review", "failed to record review", err)
	}

	log.Info("review recorded",
		slog.String("user_id", userID),
		slog.String("card_id", cardID),
		slog.Int("score", int(saved.Score)),
		slog.Int("interval_hours", saved.IntervalHours),
		slog.Time("next_review", saved.NextReview))
	return saved, nil
}

func (s *serviceImpl) Summary(ctx context.Context, userID string) (domain.ProgressSummary, error) {
	if userID == "" {
		return domain.ProgressSummary{}, domain.ErrEmptyUserID
	}

	rec, err := s.stores.Progress.NextDue(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return domain.ProgressSummary{}, nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load next review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return domain.ProgressSummary{}, service.NewServiceError(serviceName, "summary", "failed to load next review", err)
	}

	next := rec.NextReview
	return domain.ProgressSummary{Topic: rec.Topic, NextReview: &next}, nil
}

func (s *serviceImpl) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	fail := func(msg string, err error) (*UserStats, error) {
		logger.FromContextOrDefault(ctx, s.logger).Error(msg,
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, service.NewServiceError(serviceName, "user_stats", msg, err)
	}

	scores, err := s.stores.Progress.CountByScore(ctx, userID)
	if err != nil {
		return fail("failed to count scores", err)
	}
	due, err := s.stores.Progress.CountDue(ctx, userID, s.clock.Now())
	if err != nil {
		return fail("failed to count due records", err)
	}
	decks, err := s.stores.Decks.CountByUser(ctx, userID)
	if err != nil {
		return fail("failed to count decks", err)
	}
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalReviewed: scores.Total(),
		DueNow:        due,
		Scores:        scores,
		DeckCount:     decks,
		NextReview:    summary.NextReview,
	}, nil
}
