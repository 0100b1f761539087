package vehicle

import (
	"context"
	"errors"

	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the vehicle sync.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleSync)
	group.Get("/logs", h.HandleLogs)
	group.Get("/status", h.HandleStatus)
}

// HandleSync triggers a sync of the configured feed.
// With async=true the run is started in the background and 202 is returned.
// @Summary Run Feed Sync
// @Description Fetches the configured feed, upserts every vehicle, maintains the make/model hierarchy and retires vehicles no longer listed.
// @Tags sync
// @Produce json
// @Param async query bool false "Start the run in the background"
// @Success 200 {object} reconcile.Summary "Run Summary"
// @Success 202 {object} map[string]string "Run Started"
// @Failure 500 {object} map[string]interface{} "Sync Failed"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.Query("async") == "true" {
		l.Info("Triggering background sync")
		go func() {
			if _, err := h.service.Sync(context.Background()); err != nil {
				l.Error("Background sync failed", zap.Error(err))
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
	}

	l.Info("Triggering sync")
	sum, err := h.service.Sync(c.Context())
	if errors.Is(err, ErrNoDatabase) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if sum != nil {
			body["summary"] = sum
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(sum)
}

// HandleLogs returns the sync history, newest first.
// @Summary Get Sync History
// @Description Returns the retained sync log entries, newest first.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string][]reconcile.LogEntry "Sync Log Entries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /sync/logs [get]
func (h *Handler) HandleLogs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entries, err := h.service.Logs(c.Context())
	if errors.Is(err, ErrNoDatabase) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to read sync logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// HandleStatus returns the engine state and the last successful sync.
// @Summary Get Sync Status
// @Description Returns the engine state, the feed settings, the last successful sync time and vehicle counts per status.
// @Tags sync
// @Produce json
// @Success 200 {object} vehicle.Status "Sync Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	st, err := h.service.Status(c.Context())
	if errors.Is(err, ErrNoDatabase) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to read sync status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(st)
}
