package api

import "github.com/go-chi/chi/v5"

// Handlers groups the handlers mounted by RegisterRoutes.
type Handlers struct {
	Review   *ReviewHandler
	Deck     *DeckHandler
	Habit    *HabitHandler
	Reminder *ReminderHandler
	Study    *StudyHandler
}

// RegisterRoutes mounts every API endpoint on r. Callers mount r under /api.
func RegisterRoutes(r chi.Router, h Handlers) {
	r.Post("/progress/update-progress", h.Review.UpdateProgress)
	r.Get("/progress/summary/{userId}", h.Review.Summary)
	r.Get("/due/today/{userId}", h.Review.DueToday)
	r.Get("/stats/{userId}", h.Review.Stats)

	r.Get("/flashcards/decks/{userId}", h.Deck.ListDecks)
	r.Delete("/decks/{deckId}", h.Deck.DeleteDeck)

	r.Post("/reminders/set", h.Reminder.SetReminder)
	r.Get("/reminders/{userId}", h.Reminder.GetReminder)

	r.Route("/habits", func(r chi.Router) {
		r.Post("/", h.Habit.CreateHabit)
		r.Post("/check-in", h.Habit.CheckIn)
		r.Get("/stats/{userId}/{habitId}", h.Habit.Stats)
		r.Get("/{userId}", h.Habit.ListHabits)
		r.Patch("/{habitId}", h.Habit.UpdateHabit)
		r.Delete("/{habitId}", h.Habit.DeleteHabit)
	})

	r.Post("/ai/solve-doubt", h.Study.SolveDoubt)
	r.Post("/ai/generate-plan", h.Study.GeneratePlan)
	r.Post("/ai/generate-flashcards", h.Study.GenerateFlashcards)
	r.Post("/ocr/extract-text", h.Study.ExtractText)
}
