package routes

import (
	"github.com/AnshRaj112/wordstreak-backend/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(r chi.Router, h *handlers.WordHandler) {
	r.Get("/health", handlers.Health)

	// Vocabulary
	r.Get("/api/words", h.ListWords)
	r.Post("/api/words", h.AddWord)
	r.Delete("/api/words/{id}", h.DeleteWord)
	// Form-post alias for clients without DELETE
	r.Post("/api/words/{id}/delete", h.DeleteWord)

	// Streak
	r.Get("/api/streak", h.GetStreak)
	r.Get("/api/streak_dates", h.GetStreakDates)
	r.Get("/api/today", h.GetToday)
}
