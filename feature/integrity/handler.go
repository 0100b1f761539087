package integrity

import (
	"inventory-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/images", h.HandleImageCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/hierarchy", h.HandleHierarchyCheck)
}

// HandleIntegrityCheck runs every check and reports each one separately.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Images, Schema, Hierarchy). This operation may take a long time.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if schemaReport, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schemaReport
	}

	if hierReport, err := h.service.CheckHierarchy(ctx); err != nil {
		report["hierarchy"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["hierarchy"] = hierReport
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the bucket folders (?fix=true).
// @Summary Check Bucket Structure
// @Description Verifies that the image prefix folder exists in the bucket. Use ?fix=true to create it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query bool false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]interface{} "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleImageCheck stats recorded images in the bucket (?limit=N).
// @Summary Check Vehicle Images
// @Description Verifies that the recorded images of active vehicles exist in the bucket.
// @Tags integrity
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of images to check (0 checks all)"
// @Success 200 {object} checks.ImageReport "Image Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/images [get]
func (h *Handler) HandleImageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckImages(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		l.Error("Image check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Image check completed",
		zap.Int("checked", report.Checked),
		zap.Int("missing", len(report.Missing)))

	return c.JSON(report)
}

// HandleSchemaCheck compares the database schema with the models.
// @Summary Check Database Schema
// @Description Compares the inventory tables and columns with the gorm models.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleHierarchyCheck reports model terms without a valid make.
// @Summary Check Make/Model Hierarchy
// @Description Reports model terms without an existing parent make and vehicles whose model belongs to another make.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.HierarchyReport "Hierarchy Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/hierarchy [get]
func (h *Handler) HandleHierarchyCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckHierarchy(c.Context())
	if err != nil {
		l.Error("Hierarchy check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if !report.Matched {
		l.Warn("Hierarchy breaks detected",
			zap.Int("orphans", len(report.Orphans)),
			zap.Int("dangling", len(report.Dangling)),
			zap.Int("mismatched", len(report.Mismatched)))
	}

	return c.JSON(report)
}
