package study_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/prepmate/prepmate-api/internal/mocks"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/service/study"
	"github.com/prepmate/prepmate-api/internal/store"
	"github.com/prepmate/prepmate-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    study.Service
	gen    *mocks.MockGenerator
	stores store.Stores
	clock  *testutils.Clock
}

func newFixture(t *testing.T, gen *mocks.MockGenerator) fixture {
	t.Helper()
	stores, _ := testutils.NewSQLiteStores(t)
	clock := testutils.NewClock(time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC))
	decks := service.NewDeckService(stores.Decks, clock, logger.DiscardLogger())
	svc := study.NewService(gen, gen, decks, stores.StudyPlans, clock, logger.DiscardLogger())
	return fixture{svc: svc, gen: gen, stores: stores, clock: clock}
}

const opticsReply = `{"topic": "Optics", "flashcards": [
	{"question": "What is refraction?", "answer": "Bending of light"},
	{"question": "SI unit of power of lens?", "answer": "Dioptre"}]}`

func TestGenerateFlashcards(t *testing.T) {
	ctx := context.Background()

	t.Run("parsed and saved", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(opticsReply))

		set, err := f.svc.GenerateFlashcards(ctx, "user-1", "  Optics ")
		require.NoError(t, err)
		assert.Equal(t, "Optics", set.Topic)
		require.Len(t, set.Flashcards, 2)
		require.NotEmpty(t, set.DeckID)

		deck, err := f.stores.Decks.GetByID(ctx, set.DeckID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", deck.UserID)
		assert.Equal(t, set.Flashcards, deck.Cards)

		prompts := f.gen.Prompts()
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], `for topic "Optics"`)
	})

	t.Run("anonymous request is not saved", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(opticsReply))

		set, err := f.svc.GenerateFlashcards(ctx, "", "Optics")
		require.NoError(t, err)
		assert.Empty(t, set.DeckID)
		assert.Len(t, set.Flashcards, 2)
	})

	t.Run("unparseable reply falls back to one card", func(t *testing.T) {
		raw := "Sorry, here are some notes on optics."
		f := newFixture(t, mocks.NewMockGeneratorWithReply(raw))

		set, err := f.svc.GenerateFlashcards(ctx, "user-1", "Optics")
		require.NoError(t, err)
		assert.Equal(t, "Optics", set.Topic)
		assert.Equal(t, []domain.Flashcard{{Question: study.UnparsedQuestion, Answer: raw}}, set.Flashcards)
		assert.NotEmpty(t, set.DeckID)
	})

	t.Run("empty topic", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(opticsReply))

		_, err := f.svc.GenerateFlashcards(ctx, "user-1", "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyTopic)
		assert.Empty(t, f.gen.Prompts())
	})

	t.Run("generation failure", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithError(generation.ErrTransientFailure))

		_, err := f.svc.GenerateFlashcards(ctx, "user-1", "Optics")
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrTransientFailure)

		var svcErr *service.ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "generate_flashcards", svcErr.Operation)
	})
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("parsed plan is persisted", func(t *testing.T) {
		reply := `Plan: [{"topic": "Optics", "duration": 90, "difficulty": "hard"},
			{"topic": "Genetics", "duration": 30, "difficulty": "easy"}]`
		f := newFixture(t, mocks.NewMockGeneratorWithReply(reply))

		plan, err := f.svc.GeneratePlan(ctx, "user-1", []string{"Optics", " ", "Genetics"}, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Optics", "Genetics"}, plan.WeakTopics)
		assert.Equal(t, []domain.PlanItem{
			{Topic: "Optics", Duration: 90, Difficulty: "hard"},
			{Topic: "Genetics", Duration: 30, Difficulty: "easy"},
		}, plan.Items)
		assert.Equal(t, f.clock.Now(), plan.CreatedAt)

		saved, err := f.stores.StudyPlans.GetByID(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, plan.Items, saved.Items)
		assert.Equal(t, 2.0, saved.AvailableHours)

		prompts := f.gen.Prompts()
		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "Optics, Genetics in 2 hours")
	})

	t.Run("unparseable reply splits time evenly", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply("Just study hard!"))

		plan, err := f.svc.GeneratePlan(ctx, "user-1", []string{"Optics", "Genetics", "Calculus"}, 3)
		require.NoError(t, err)
		assert.Equal(t, []domain.PlanItem{
			{Topic: "Optics", Duration: 60, Difficulty: domain.DefaultDifficulty},
			{Topic: "Genetics", Duration: 60, Difficulty: domain.DefaultDifficulty},
			{Topic: "Calculus", Duration: 60, Difficulty: domain.DefaultDifficulty},
		}, plan.Items)

		_, err = f.stores.StudyPlans.GetByID(ctx, plan.ID)
		assert.NoError(t, err)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply("[]"))

		_, err := f.svc.GeneratePlan(ctx, "", []string{"Optics"}, 1)
		assert.ErrorIs(t, err, domain.ErrEmptyUserID)
		_, err = f.svc.GeneratePlan(ctx, "user-1", []string{" "}, 1)
		assert.ErrorIs(t, err, domain.ErrNoWeakTopics)
		_, err = f.svc.GeneratePlan(ctx, "user-1", []string{"Optics"}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidAvailableHours)
		assert.Empty(t, f.gen.Prompts())
	})

	t.Run("generation failure", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithError(generation.ErrContentBlocked))

		_, err := f.svc.GeneratePlan(ctx, "user-1", []string{"Optics"}, 1)
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
	})
}

func TestSolveDoubt(t *testing.T) {
	ctx := context.Background()
	answer := "Chalo samjhte hain.\n1. F = ma\n2. F = 2 x 10 = 20 N\nSubject: Physics"

	t.Run("text question", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(answer))

		sol, err := f.svc.SolveDoubt(ctx, "  What force accelerates 2 kg at 10 m/s2? ", "")
		require.NoError(t, err)
		assert.Equal(t, "What force accelerates 2 kg at 10 m/s2?", sol.Question)
		assert.Equal(t, answer, sol.AIAnswer)
		assert.Equal(t, []string{"1. F = ma", "2. F = 2 x 10 = 20 N"}, sol.Steps)
		assert.Equal(t, study.SubjectPhysics, sol.Subject)
		assert.Empty(t, f.gen.ImageURLs())
	})

	t.Run("question read from image", func(t *testing.T) {
		gen := mocks.NewMockGeneratorWithReply("Cells divide by mitosis.")
		gen.ExtractedText = "  How does a cell divide?\n"
		f := newFixture(t, gen)

		sol, err := f.svc.SolveDoubt(ctx, "", "https://example.com/q.png")
		require.NoError(t, err)
		assert.Equal(t, "How does a cell divide?", sol.Question)
		assert.Equal(t, []string{"Cells divide by mitosis."}, sol.Steps)
		assert.Equal(t, study.SubjectBiology, sol.Subject)
		assert.Equal(t, []string{"https://example.com/q.png"}, gen.ImageURLs())
	})

	t.Run("text takes precedence over image", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(answer))

		_, err := f.svc.SolveDoubt(ctx, "Solve x + 1 = 2", "https://example.com/q.png")
		require.NoError(t, err)
		assert.Empty(t, f.gen.ImageURLs())
	})

	t.Run("no question", func(t *testing.T) {
		f := newFixture(t, mocks.NewMockGeneratorWithReply(answer))

		_, err := f.svc.SolveDoubt(ctx, " ", "")
		assert.ErrorIs(t, err, study.ErrNoQuestion)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("image without text", func(t *testing.T) {
		gen := mocks.NewMockGeneratorWithReply(answer)
		gen.ExtractedText = "   "
		f := newFixture(t, gen)

		_, err := f.svc.SolveDoubt(ctx, "", "https://example.com/blank.png")
		assert.ErrorIs(t, err, study.ErrNoQuestion)
		assert.Empty(t, gen.Prompts())
	})

	t.Run("unreachable image is invalid input", func(t *testing.T) {
		gen := &mocks.MockGenerator{
			ExtractTextFn: func(ctx context.Context, imageURL string) (string, error) {
				return "", generation.ErrImageUnavailable
			},
		}
		f := newFixture(t, gen)

		_, err := f.svc.SolveDoubt(ctx, "", "https://example.com/404.png")
		assert.ErrorIs(t, err, study.ErrNoQuestion)
		assert.ErrorIs(t, err, generation.ErrImageUnavailable)
		assert.True(t, service.IsExpected(err))
	})
}

func TestExtractText(t *testing.T) {
	ctx := context.Background()

	gen := &mocks.MockGenerator{ExtractedText: "\n  F = ma  \n"}
	f := newFixture(t, gen)

	text, err := f.svc.ExtractText(ctx, "https://example.com/q.png")
	require.NoError(t, err)
	assert.Equal(t, "F = ma", text)

	_, err = f.svc.ExtractText(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	gen.Err = generation.ErrDisabled
	_, err = f.svc.ExtractText(ctx, "https://example.com/q.png")
	assert.ErrorIs(t, err, generation.ErrDisabled)
	assert.False(t, service.IsExpected(err))
}
