package handlers

import (
	"errors"
	"log"
	"lookbook-service/internal/middleware"
	"lookbook-service/internal/service"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookbook_export_attempts_total",
			Help: "Total number of look export attempts",
		},
		[]string{"status"},
	)

	exportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookbook_export_duration_seconds",
			Help:    "Time spent composing look exports",
			Buckets: prometheus.DefBuckets,
		},
	)
)

type ExportHandler struct {
	exportService *service.ExportService
	jwtService    *service.JWTService
}

func NewExportHandler(exportService *service.ExportService, jwtService *service.JWTService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		jwtService:    jwtService,
	}
}

func (h *ExportHandler) RegisterRoutes(app *fiber.App) {
	exportGroup := app.Group("/protected/looks", middleware.RequireAuth(h.jwtService))
	exportGroup.Get("/:id/export", h.ExportLook)
}

// ExportLook streams the composed side-by-side PNG as a download.
func (h *ExportHandler) ExportLook(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	id := c.Params("id")

	start := time.Now()
	result, err := h.exportService.ExportLook(c.Context(), ownerID, id)
	if err != nil {
		exportAttempts.WithLabelValues("failure").Inc()
		log.Printf("Error exporting look %s: %v", id, err)
		return c.Status(exportErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	exportDuration.Observe(time.Since(start).Seconds())
	exportAttempts.WithLabelValues("success").Inc()

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", "attachment; filename="+result.FileName)
	c.Set("Content-Length", strconv.Itoa(len(result.PNG)))

	return c.Send(result.PNG)
}

func exportErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLookNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNoExportImages):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrExportInFlight):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
