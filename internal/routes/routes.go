package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/notehive/notehive/internal/auth"
	"github.com/notehive/notehive/internal/config"
	"github.com/notehive/notehive/internal/middleware"
	"github.com/notehive/notehive/internal/note"
	"github.com/notehive/notehive/internal/notification"
	"github.com/notehive/notehive/internal/otp"
	"github.com/notehive/notehive/internal/user"
)

// Deps aggregates shared dependencies required to wire routes. A nil DB
// selects the in-memory repositories; a nil Notifier selects SMTP when
// configured and the logging notifier otherwise.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Notifier notification.Notifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !config.IsDev(d.Cfg.AppEnv) && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var (
		userRepo user.Repository
		credRepo otp.Repository
		noteRepo note.Repository
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		credRepo = otp.NewPostgresRepository(d.DB)
		noteRepo = note.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		credRepo = otp.NewMemoryRepository()
		noteRepo = note.NewMemoryRepository()
	}

	notifier := d.Notifier
	if notifier == nil {
		if d.Cfg.SMTPConfigured() {
			notifier = notification.NewSMTPNotifier(d.Cfg.SMTPHost, d.Cfg.SMTPPort, d.Cfg.SMTPUsername, d.Cfg.SMTPPassword, d.Cfg.SMTPSender, d.Cfg.AppName)
		} else {
			notifier = notification.NewSlogNotifier(d.Logger)
		}
	}

	// Services and handlers
	issuer := otp.NewIssuer(credRepo)
	tokens := auth.NewTokenIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	authSvc := auth.NewService(userRepo, issuer, notifier, tokens, d.Logger, d.Cfg.VerifyOTPTTL, d.Cfg.LoginOTPTTL)
	userSvc := user.NewService(userRepo, noteRepo, credRepo)
	noteSvc := note.NewService(noteRepo)

	authHandler := auth.NewHandler(authSvc)
	userHandler := user.NewHandler(userSvc)
	noteHandler := note.NewHandler(noteSvc)

	authMW := middleware.Auth(tokens, userRepo)
	var limiter fiber.Handler
	if d.Cache != nil {
		limiter = middleware.OTPRequestLimit(d.Cache, 5)
	}

	RegisterUserRoutes(app, authHandler, userHandler, authMW, limiter)
	RegisterNoteRoutes(app, noteHandler, authMW)

	return nil
}
