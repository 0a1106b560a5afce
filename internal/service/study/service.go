// Package study implements the AI study assistant: flashcard and study plan
// generation and step-by-step doubt solving. Model replies are parsed
// leniently; when a reply cannot be parsed the assistant falls back to a
// deterministic result instead of failing.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prepmate/prepmate-api/internal/domain"
	"github.com/prepmate/prepmate-api/internal/generation"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/prepmate/prepmate-api/internal/service"
	"github.com/prepmate/prepmate-api/internal/store"
)

const serviceName = "study"

// ErrNoQuestion is returned by SolveDoubt when neither a question nor a
// readable image was supplied.
var ErrNoQuestion = fmt.Errorf("%w: either question_text or image_url is required", domain.ErrInvalidInput)

// FlashcardSet is the result of GenerateFlashcards.
type FlashcardSet struct {
	Topic      string             `json:"topic"`
	Flashcards []domain.Flashcard `json:"flashcards"`
	// DeckID is set when the cards were saved for a user.
	DeckID string `json:"deck_id,omitempty"`
}

// Solution is the result of SolveDoubt.
type Solution struct {
	Question string   `json:"question"`
	AIAnswer string   `json:"ai_answer"`
	Steps    []string `json:"steps"`
	Subject  string   `json:"subject"`
}

// Service is the study assistant.
type Service interface {
	// GenerateFlashcards asks the model for flashcards on topic. When userID
	// is not empty the cards are saved as a new deck.
	GenerateFlashcards(ctx context.Context, userID, topic string) (*FlashcardSet, error)

	// GeneratePlan builds and saves a study plan splitting availableHours
	// across weakTopics.
	GeneratePlan(ctx context.Context, userID string, weakTopics []string, availableHours float64) (*domain.StudyPlan, error)

	// SolveDoubt explains a question. The question is read from imageURL
	// when questionText is empty.
	SolveDoubt(ctx context.Context, questionText, imageURL string) (*Solution, error)

	// ExtractText transcribes the text in an image.
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

type serviceImpl struct {
	generator generation.Generator
	extractor generation.TextExtractor
	decks     service.DeckService
	plans     store.StudyPlanStore
	clock     service.Clock
	logger    *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates the study assistant. A nil clock uses the system clock.
func NewService(
	generator generation.Generator,
	extractor generation.TextExtractor,
	decks service.DeckService,
	plans store.StudyPlanStore,
	clock service.Clock,
	logger *slog.Logger,
) Service {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if extractor == nil {
		panic("extractor cannot be nil")
	}
	if decks == nil {
		panic("decks cannot be nil")
	}
	if plans == nil {
		panic("plans cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		generator: generator,
		extractor: extractor,
		decks:     decks,
		plans:     plans,
		clock:     service.OrSystem(clock),
		logger:    logger.With(slog.String("component", "study_service")),
	}
}

// generationError keeps generation sentinels visible to callers while
// adding operation context.
func generationError(op string, err error) error {
	return service.NewServiceError(serviceName, op, "text generation failed", err)
}

func (s *serviceImpl) GenerateFlashcards(ctx context.Context, userID, topic string) (*FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.ErrEmptyTopic
	}

	prompt, err := flashcardPrompt(topic)
	if err != nil {
		return nil, err
	}
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, generationError("generate_flashcards", err)
	}

	set := &FlashcardSet{Topic: topic}
	parsedTopic, cards, ok := ParseFlashcards(raw)
	if ok {
		if parsedTopic != "" {
			set.Topic = parsedTopic
		}
		set.Flashcards = cards
	} else {
		log.Warn("could not parse flashcards from model reply",
			slog.String("topic", topic),
			slog.Int("reply_length", len(raw)))
		set.Flashcards = []domain.Flashcard{{Question: UnparsedQuestion, Answer: raw}}
	}

	if userID != "" {
		deck, err := s.decks.SaveDeck(ctx, userID, topic, set.Flashcards)
		if err != nil {
			return nil, service.Wrap(serviceName, "generate_flashcards", "failed to save deck", err)
		}
		set.DeckID = deck.ID
		log.Info("flashcards saved",
			slog.String("user_id", userID),
			slog.String("deck_id", deck.ID),
			slog.Int("cards", len(set.Flashcards)))
	}
	return set, nil
}

func (s *serviceImpl) GeneratePlan(
	ctx context.Context,
	userID string,
	weakTopics []string,
	availableHours float64,
) (*domain.StudyPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}
	topics := make([]string, 0, len(weakTopics))
	for _, t := range weakTopics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, domain.ErrNoWeakTopics
	}
	if availableHours <= 0 {
		return nil, domain.ErrInvalidAvailableHours
	}

	prompt, err := planPrompt(topics, availableHours)
	if err != nil {
		return nil, err
	}
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, generationError("generate_plan", err)
	}

	items, ok := ParsePlan(raw)
	if !ok {
		log.Warn("could not parse study plan from model reply, splitting time evenly",
			slog.Int("topics", len(topics)))
		items = domain.EvenPlan(topics, availableHours)
	}

	plan, err := domain.NewStudyPlan(userID, topics, availableHours, items, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, service.Wrap(serviceName, "generate_plan", "failed to save study plan", err)
	}
	return plan, nil
}

func (s *serviceImpl) SolveDoubt(ctx context.Context, questionText, imageURL string) (*Solution, error) {
	question := strings.TrimSpace(questionText)
	if question == "" && strings.TrimSpace(imageURL) != "" {
		text, err := s.extractor.ExtractText(ctx, imageURL)
		if err != nil {
			if errors.Is(err, generation.ErrImageUnavailable) {
				return nil, fmt.Errorf("%w: %w", ErrNoQuestion, err)
			}
			return nil, generationError("solve_doubt", err)
		}
		question = strings.TrimSpace(text)
	}
	if question == "" {
		return nil, ErrNoQuestion
	}

	prompt, err := doubtPrompt(question)
	if err != nil {
		return nil, err
	}
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, generationError("solve_doubt", err)
	}

	return &Solution{
		Question: question,
		AIAnswer: answer,
		Steps:    ExtractSteps(answer),
		Subject:  DetectSubject(question),
	}, nil
}

func (s *serviceImpl) ExtractText(ctx context.Context, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", fmt.Errorf("%w: imageUrl is required", domain.ErrInvalidInput)
	}
	text, err := s.extractor.ExtractText(ctx, imageURL)
	if err != nil {
		if errors.Is(err, generation.ErrImageUnavailable) {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return "", generationError("extract_text", err)
	}
	return strings.TrimSpace(text), nil
}
