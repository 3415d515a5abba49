package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/apperr"
	"github.com/notehive/notehive/internal/respond"
	"github.com/notehive/notehive/internal/user"
)

const dateLayout = "2006-01-02"

// Handler exposes the public authentication endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  user.Response `json:"user"`
}

// Register creates an account and sends the verification code.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return apperr.BadRequest("Date of birth must use the YYYY-MM-DD format")
	}

	u, err := h.service.Register(c.UserContext(), RegisterInput{Email: req.Email, Name: req.Name, DateOfBirth: dob})
	if err != nil {
		return err
	}
	return respond.Created(c, user.NewResponse(u), "User registered successfully. Please check your email for verification code.")
}

// InitiateLogin sends a login code to a known address.
func (h *Handler) InitiateLogin(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := h.service.InitiateLogin(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respond.Success(c, nil, "Login OTP sent successfully")
}

// CompleteLogin redeems a login code for a bearer token.
func (h *Handler) CompleteLogin(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	u, token, err := h.service.CompleteLogin(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return respond.Success(c, loginResponse{Token: token, User: user.NewResponse(u)}, "Login successful")
}

// VerifyEmail redeems a verification code.
func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	u, err := h.service.VerifyEmail(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return respond.Success(c, user.NewResponse(u), "Email verified successfully")
}

// ResendOTP reissues the verification code.
func (h *Handler) ResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if err := h.service.ResendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respond.Success(c, nil, "OTP sent successfully")
}
