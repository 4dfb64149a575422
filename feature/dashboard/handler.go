package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the dashboard document over HTTP.
type Handler struct {
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(aggregator *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{aggregator: aggregator, logger: logger}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/dashboard", h.HandleGetDashboard)
	group.Get("/summary", h.HandleGetSummary)
}

// HandleGetDashboard rebuilds and returns the full dashboard document.
func (h *Handler) HandleGetDashboard(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.Build())
}

// HandleGetSummary returns just the aggregate totals.
func (h *Handler) HandleGetSummary(c *fiber.Ctx) error {
	data := h.aggregator.Build()
	return c.JSON(fiber.Map{
		"generated_at": data.GeneratedAt,
		"summary":      data.Summary,
	})
}
