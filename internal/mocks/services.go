package mocks

import (
	"context"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/service/habit"
	"github.com/prepmate/prepmate-api/internal/service/reminder"
	"github.com/prepmate/prepmate-api/internal/service/review"
	"github.com/prepmate/prepmate-api/internal/service/study"
)

// MockReviewService implements review.Service for testing.
type MockReviewService struct {
	DueCardsFn     func(ctx context.Context, userID string, limit int) ([]review.DueItem, error)
	SubmitReviewFn func(ctx context.Context, userID, cardID, topic string, feedback domain.Feedback) (*domain.ProgressRecord, error)
	SummaryFn      func(ctx context.Context, userID string) (domain.ProgressSummary, error)
	UserStatsFn    func(ctx context.Context, userID string) (*review.UserStats, error)

	DefaultError error
}

var _ review.Service = (*MockReviewService)(nil)

// DueCards implements review.Service.DueCards
func (m *MockReviewService) DueCards(ctx context.Context, userID string, limit int) ([]review.DueItem, error) {
	if m.DueCardsFn != nil {
		return m.DueCardsFn(ctx, userID, limit)
	}
	return nil, m.DefaultError
}

// SubmitReview implements review.Service.SubmitReview
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID, topic string,
	feedback domain.Feedback,
) (*domain.ProgressRecord, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, userID, cardID, topic, feedback)
	}
	return nil, m.DefaultError
}

// Summary implements review.Service.Summary
func (m *MockReviewService) Summary(ctx context.Context, userID string) (domain.ProgressSummary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(ctx, userID)
	}
	return domain.ProgressSummary{}, m.DefaultError
}

// UserStats implements review.Service.UserStats
func (m *MockReviewService) UserStats(ctx context.Context, userID string) (*review.UserStats, error) {
	if m.UserStatsFn != nil {
		return m.UserStatsFn(ctx, userID)
	}
	return nil, m.DefaultError
}

// MockDeckService implements service.DeckService for testing.
type MockDeckService struct {
	ListDecksFn  func(ctx context.Context, userID string) ([]*domain.Deck, error)
	DeleteDeckFn func(ctx context.Context, userID, deckID string) error
	SaveDeckFn   func(ctx context.Context, userID, topic string, cards []domain.Flashcard) (*domain.Deck, error)

	DefaultError error
}

var _ service.DeckService = (*MockDeckService)(nil)

// ListDecks implements service.DeckService.ListDecks
func (m *MockDeckService) ListDecks(ctx context.Context, userID string) ([]*domain.Deck, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, userID)
	}
	return nil, m.DefaultError
}

// DeleteDeck implements service.DeckService.DeleteDeck
func (m *MockDeckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	if m.DeleteDeckFn != nil {
		return m.DeleteDeckFn(ctx, userID, deckID)
	}
	return m.DefaultError
}

// SaveDeck implements service.DeckService.SaveDeck
func (m *MockDeckService) SaveDeck(
	ctx context.Context,
	userID, topic string,
	cards []domain.Flashcard,
) (*domain.Deck, error) {
	if m.SaveDeckFn != nil {
		return m.SaveDeckFn(ctx, userID, topic, cards)
	}
	return nil, m.DefaultError
}

// MockHabitService implements habit.Service for testing.
type MockHabitService struct {
	CreateFn        func(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error)
	ListFn          func(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error)
	UpdateFn        func(ctx context.Context, userID, habitID string, patch domain.HabitPatch) (*domain.Habit, error)
	DeleteFn        func(ctx context.Context, userID, habitID string) error
	RecordCheckInFn func(ctx context.Context, userID, habitID string, in domain.CheckInInput) (*habit.CheckInResult, error)
	StatsFn         func(ctx context.Context, userID, habitID string) (*habit.Stats, error)

	DefaultError error
}

var _ habit.Service = (*MockHabitService)(nil)

// Create implements habit.Service.Create
func (m *MockHabitService) Create(ctx context.Context, userID string, settings domain.HabitSettings) (*domain.Habit, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, settings)
	}
	return nil, m.DefaultError
}

// List implements habit.Service.List
func (m *MockHabitService) List(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, activeOnly)
	}
	return nil, m.DefaultError
}

// Update implements habit.Service.Update
func (m *MockHabitService) Update(
	ctx context.Context,
	userID, habitID string,
	patch domain.HabitPatch,
) (*domain.Habit, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, habitID, patch)
	}
	return nil, m.DefaultError
}

// Delete implements habit.Service.Delete
func (m *MockHabitService) Delete(ctx context.Context, userID, habitID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, habitID)
	}
	return m.DefaultError
}

// RecordCheckIn implements habit.Service.RecordCheckIn
func (m *MockHabitService) RecordCheckIn(
	ctx context.Context,
	userID, habitID string,
	in domain.CheckInInput,
) (*habit.CheckInResult, error) {
	if m.RecordCheckInFn != nil {
		return m.RecordCheckInFn(ctx, userID, habitID, in)
	}
	return nil, m.DefaultError
}

// Stats implements habit.Service.Stats
func (m *MockHabitService) Stats(ctx context.Context, userID, habitID string) (*habit.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID, habitID)
	}
	return nil, m.DefaultError
}

// MockReminderService implements reminder.Service for testing.
type MockReminderService struct {
	SetFn func(ctx context.Context, userID, pushToken, timeOfDay string, enabled bool) (*domain.Reminder, error)
	GetFn func(ctx context.Context, userID string) (*domain.Reminder, error)

	DefaultError error
}

var _ reminder.Service = (*MockReminderService)(nil)

// Set implements reminder.Service.Set
func (m *MockReminderService) Set(
	ctx context.Context,
	userID, pushToken, timeOfDay string,
	enabled bool,
) (*domain.Reminder, error) {
	if m.SetFn != nil {
		return m.SetFn(ctx, userID, pushToken, timeOfDay, enabled)
	}
	return nil, m.DefaultError
}

// Get implements reminder.Service.Get
func (m *MockReminderService) Get(ctx context.Context, userID string) (*domain.Reminder, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, m.DefaultError
}

// MockStudyService implements study.Service for testing.
type MockStudyService struct {
	GenerateFlashcardsFn func(ctx context.Context, userID, topic string) (*study.FlashcardSet, error)
	GeneratePlanFn       func(ctx context.Context, userID string, weakTopics []string, hours float64) (*domain.StudyPlan, error)
	SolveDoubtFn         func(ctx context.Context, questionText, imageURL string) (*study.Solution, error)
	ExtractTextFn        func(ctx context.Context, imageURL string) (string, error)

	DefaultError error
}

var _ study.Service = (*MockStudyService)(nil)

// GenerateFlashcards implements study.Service.GenerateFlashcards
func (m *MockStudyService) GenerateFlashcards(ctx context.Context, userID, topic string) (*study.FlashcardSet, error) {
	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, userID, topic)
	}
	return nil, m.DefaultError
}

// GeneratePlan implements study.Service.GeneratePlan
func (m *MockStudyService) GeneratePlan(
	ctx context.Context,
	userID string,
	weakTopics []string,
	hours float64,
) (*domain.StudyPlan, error) {
	if m.GeneratePlanFn != nil {
		return m.GeneratePlanFn(ctx, userID, weakTopics, hours)
	}
	return nil, m.DefaultError
}

// SolveDoubt implements study.Service.SolveDoubt
func (m *MockStudyService) SolveDoubt(ctx context.Context, questionText, imageURL string) (*study.Solution, error) {
	if m.SolveDoubtFn != nil {
		return m.SolveDoubtFn(ctx, questionText, imageURL)
	}
	return nil, m.DefaultError
}

// ExtractText implements study.Service.ExtractText
func (m *MockStudyService) ExtractText(ctx context.Context, imageURL string) (string, error) {
	if m.ExtractTextFn != nil {
		return m.ExtractTextFn(ctx, imageURL)
	}
	return "", m.DefaultError
}
