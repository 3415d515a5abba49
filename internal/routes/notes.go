package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/middleware"
	"github.com/notehive/notehive/internal/note"
)

// RegisterNoteRoutes wires the note CRUD endpoints. All of them require a
// bearer token and a verified email.
func RegisterNoteRoutes(r fiber.Router, h *note.Handler, authMW fiber.Handler) {
	notes := r.Group("/notes", authMW, middleware.RequireVerifiedEmail())
	notes.Post("/", h.Create)
	notes.Get("/", h.List)
	notes.Get("/:id", h.Get)
	notes.Put("/:id", h.Update)
	notes.Delete("/:id", h.Delete)
}
