package study

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/prepmate/prepmate-api/internal/domain"
)

// Subject names returned by DetectSubject.
const (
	SubjectPhysics   = "Physics"
	SubjectChemistry = "Chemistry"
	SubjectBiology   = "Biology"
	SubjectMath      = "Math"
	SubjectGeneral   = "General"
)

// UnparsedQuestion is the question of the single card returned when the
// model's flashcards cannot be parsed. Its answer is the raw model output.
const UnparsedQuestion = "Unable to parse flashcards"

var (
	planJSON      = regexp.MustCompile(`\[\s*\{[\s\S]*\}\s*\]`)
	flashcardJSON = regexp.MustCompile(`\{\s*"topic"[\s\S]*\}`)
	numberedLine  = regexp.MustCompile(`^\d+\.`)
)

// subjectKeywords is checked in order; the first subject with a matching
// keyword wins.
var subjectKeywords = []struct {
	subject  string
	keywords []string
}{
	{SubjectPhysics, []string{"force", "velocity", "energy", "motion", "acceleration"}},
	{SubjectChemistry, []string{"atom", "molecule", "reaction", "element", "compound"}},
	{SubjectBiology, []string{"cell", "organism", "dna", "protein", "tissue"}},
	{SubjectMath, []string{"equation", "calculate", "solve", "integral", "derivative"}},
}

// DetectSubject classifies a question by keyword, case-insensitively.
func DetectSubject(question string) string {
	q := strings.ToLower(question)
	for _, s := range subjectKeywords {
		for _, kw := range s.keywords {
			if strings.Contains(q, kw) {
				return s.subject
			}
		}
	}
	return SubjectGeneral
}

// ExtractSteps returns the trimmed lines of answer that start with a number
// and a dot. When there are none the whole answer is the only step.
func ExtractSteps(answer string) []string {
	var steps []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if numberedLine.MatchString(line) {
			steps = append(steps, line)
		}
	}
	if len(steps) == 0 {
		return []string{answer}
	}
	return steps
}

// decodeEmbedded unmarshals the first match of re in raw, or raw itself
// when nothing matches.
func decodeEmbedded(re *regexp.Regexp, raw string, v any) error {
	text := raw
	if m := re.FindString(raw); m != "" {
		text = m
	}
	return json.Unmarshal([]byte(text), v)
}

// ParsePlan extracts plan items from a model reply. It reports false when
// the reply holds no usable items.
func ParsePlan(raw string) ([]domain.PlanItem, bool) {
	var items []domain.PlanItem
	if err := decodeEmbedded(planJSON, raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	for i := range items {
		if items[i].Difficulty == "" {
			items[i].Difficulty = domain.DefaultDifficulty
		}
	}
	return items, true
}

// ParseFlashcards extracts flashcards from a model reply. Cards without a
// question are dropped. It reports false when no card is left.
func ParseFlashcards(raw string) (topic string, cards []domain.Flashcard, ok bool) {
	var payload struct {
		Topic      string             `json:"topic"`
		Flashcards []domain.Flashcard `json:"flashcards"`
	}
	if err := decodeEmbedded(flashcardJSON, raw, &payload); err != nil {
		return "", nil, false
	}
	for _, c := range payload.Flashcards {
		if strings.TrimSpace(c.Question) != "" {
			cards = append(cards, c)
		}
	}
	return payload.Topic, cards, len(cards) > 0
}
