package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Sessions       *handlers.SessionsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	// /health probes the stores and answers 503 when they are down;
	// /health/live is the bare process-up signal for orchestrators.
	app.Get("/health", cfg.Health.Ready)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	api.Post("/auth/managers/login", cfg.Auth.Login)
	api.Post("/auth/managers/password", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Post("/tickets/:id/messages", cfg.Tickets.AppendMessage)

	// Status and assignment are manager-console writes.
	managed := api.Group("/tickets/:id", cfg.AuthMiddleware.Handle)
	managed.Patch("/status", cfg.Tickets.UpdateStatus)
	managed.Patch("/assign", cfg.Tickets.AssignManager)

	api.Get("/sessions/:user_id", cfg.Sessions.GetSession)
	api.Post("/sessions", cfg.Sessions.UpsertSession)
}
