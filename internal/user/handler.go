package user

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/respond"
)

// LocalsKey is where the auth middleware stores the authenticated User.
const LocalsKey = "current_user"

const dateLayout = "2006-01-02"

// FromContext returns the authenticated user attached by the auth middleware.
func FromContext(c *fiber.Ctx) (User, bool) {
	u, ok := c.Locals(LocalsKey).(User)
	return u, ok
}

// Response is the JSON shape of a user. OTP state is never serialized.
type Response struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	DateOfBirth     string    `json:"dateOfBirth"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewResponse converts a User into its response shape.
func NewResponse(u User) Response {
	return Response{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		DateOfBirth:     u.DateOfBirth.Format(dateLayout),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Handler exposes the /users/me endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user profile HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Profile returns the authenticated user's profile.
func (h *Handler) Profile(c *fiber.Ctx) error {
	u, ok := FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	return respond.Success(c, NewResponse(u), "Profile retrieved successfully")
}

type updateProfileRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"dateOfBirth"`
}

// UpdateProfile applies a partial update to name and/or date of birth.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	u, ok := FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	update := ProfileUpdate{Name: req.Name}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return apperr.BadRequest("Date of birth must use the YYYY-MM-DD format")
		}
		update.DateOfBirth = &dob
	}

	updated, err := h.service.UpdateProfile(c.UserContext(), u.ID, update)
	if err != nil {
		return err
	}
	return respond.Success(c, NewResponse(updated), "Profile updated successfully")
}

// DeleteAccount removes the authenticated user and everything they own.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	u, ok := FromContext(c)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	if err := h.service.Delete(c.UserContext(), u.ID); err != nil {
		return err
	}
	return respond.Success(c, nil, "Account deleted successfully")
}
