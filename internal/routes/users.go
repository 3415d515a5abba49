package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/notehive/notehive/internal/auth"
	"github.com/notehive/notehive/internal/user"
)

// RegisterUserRoutes wires the public auth endpoints and the protected
// profile endpoints.
func RegisterUserRoutes(r fiber.Router, authH *auth.Handler, userH *user.Handler, authMW fiber.Handler, otpLimiter fiber.Handler) {
	users := r.Group("/users")

	// Public
	users.Post("/register", authH.Register)
	if otpLimiter != nil {
		users.Post("/login/initiate", otpLimiter, authH.InitiateLogin)
	} else {
		users.Post("/login/initiate", authH.InitiateLogin)
	}
	users.Post("/login/verify", authH.CompleteLogin)
	users.Post("/verify-otp", authH.VerifyEmail)
	users.Post("/resend-otp", authH.ResendOTP)

	// Protected
	users.Get("/me", authMW, userH.Profile)
	users.Patch("/me", authMW, userH.UpdateProfile)
	users.Delete("/me", authMW, userH.DeleteAccount)
}
