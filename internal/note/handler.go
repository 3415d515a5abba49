package note

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/respond"
	"github.com/notehive/notehive/internal/user"
)

// Handler exposes the note CRUD endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a note HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type contentRequest struct {
	Content string `json:"content"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newResponse(n Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// Create stores a new note for the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	u, ok := user.FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	var req contentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	n, err := h.service.Create(c.UserContext(), u.ID, req.Content)
	if err != nil {
		return err
	}
	return respond.Created(c, newResponse(n), "Note created successfully")
}

// List returns a paginated, newest-first page of the user's notes.
func (h *Handler) List(c *fiber.Ctx) error {
	u, ok := user.FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", DefaultLimit)

	result, err := h.service.List(c.UserContext(), u.ID, page, limit)
	if err != nil {
		return err
	}

	notes := make([]noteResponse, 0, len(result.Notes))
	for _, n := range result.Notes {
		notes = append(notes, newResponse(n))
	}

	return respond.Paginated(c, notes, respond.Pagination{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}, "Notes retrieved successfully")
}

// Get fetches one note owned by the authenticated user.
func (h *Handler) Get(c *fiber.Ctx) error {
	u, ok := user.FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	n, err := h.service.Get(c.UserContext(), c.Params("id"), u.ID)
	if err != nil {
		return err
	}
	return respond.Success(c, newResponse(n), "Note retrieved successfully")
}

// Update replaces the content of an owned note.
func (h *Handler) Update(c *fiber.Ctx) error {
	u, ok := user.FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	var req contentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	n, err := h.service.Update(c.UserContext(), c.Params("id"), u.ID, req.Content)
	if err != nil {
		return err
	}
	return respond.Success(c, newResponse(n), "Note updated successfully")
}

// Delete permanently removes an owned note.
func (h *Handler) Delete(c *fiber.Ctx) error {
	u, ok := user.FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	if err := h.service.Delete(c.UserContext(), c.Params("id"), u.ID); err != nil {
		return err
	}
	return respond.Success(c, nil, "Note deleted successfully")
}
