package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quote-service/internal/api/http/handlers"
	"github.com/spec-kit/quote-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Quotes      *handlers.QuotesHandler
	AdminQuotes *handlers.AdminQuotesHandler
	Objects     *handlers.ObjectsHandler
	Sessions    *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Sessions.Handle)

	user := auth.Require(auth.RoleUser)
	admin := auth.Require(auth.RoleAdmin)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", user, cfg.Auth.Logout)
	api.Get("/auth/user", user, cfg.Auth.CurrentUser)

	api.Post("/objects/upload", user, cfg.Objects.MintUpload)
	api.Put("/objects/upload/:id", user, cfg.Objects.Upload)

	quotes := api.Group("/quotes", user)
	quotes.Post("/", cfg.Quotes.CreateQuote)
	quotes.Get("/", cfg.Quotes.ListQuotes)
	quotes.Get("/:id/summary.pdf", cfg.Quotes.QuoteSummaryPDF)
	quotes.Get("/:id", cfg.Quotes.GetQuote)

	adminQuotes := api.Group("/admin/quotes", admin)
	adminQuotes.Get("/", cfg.AdminQuotes.ListQuotes)
	adminQuotes.Get("/export.xlsx", cfg.AdminQuotes.ExportQuotes)
	adminQuotes.Put("/:id/status", cfg.AdminQuotes.UpdateStatus)
	adminQuotes.Put("/:id/price", cfg.AdminQuotes.UpdatePrice)
	adminQuotes.Put("/:id/document", cfg.AdminQuotes.AttachDocument)

	app.Get("/uploads/:id", user, cfg.Objects.DownloadUpload)
	app.Get("/objects/*", user, cfg.Objects.DownloadObject)
}
