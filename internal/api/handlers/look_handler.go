package handlers

import (
	"errors"
	"log"
	"lookbook-service/internal/middleware"
	"lookbook-service/internal/models"
	"lookbook-service/internal/service"
	"lookbook-service/pkg/utils"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var imageUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lookbook_image_uploads_total",
		Help: "Total number of look image uploads",
	},
	[]string{"status", "kind"},
)

type LookHandler struct {
	lookService *service.LookService
	jwtService  *service.JWTService
}

func NewLookHandler(lookService *service.LookService, jwtService *service.JWTService) *LookHandler {
	return &LookHandler{
		lookService: lookService,
		jwtService:  jwtService,
	}
}

func (h *LookHandler) RegisterRoutes(app *fiber.App) {
	lookGroup := app.Group("/protected/looks", middleware.RequireAuth(h.jwtService))
	lookGroup.Post("/", h.CreateLook)
	lookGroup.Get("/", h.ListLooks)
	lookGroup.Get("/:id", h.GetLook)
	lookGroup.Patch("/:id", h.UpdateLook)
	lookGroup.Delete("/:id", h.DeleteLook)
	lookGroup.Post("/:id/images/:kind", h.UpsertImage)
}

// CreateLook accepts a multipart form with optional title/notes fields and
// optional inspo/me files, creating the look and both photos in one request.
func (h *LookHandler) CreateLook(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)

	input := service.CreateLookInput{
		OwnerID: ownerID,
		Title:   c.FormValue("title", ""),
		Notes:   c.FormValue("notes", ""),
	}

	var openFiles []multipart.File
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	for _, slot := range []struct {
		field  string
		target **service.ImageUpload
	}{
		{"inspo", &input.Inspo},
		{"me", &input.Me},
	} {
		header, err := c.FormFile(slot.field)
		if err != nil {
			continue // slot left empty
		}
		file, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Could not read uploaded file",
			})
		}
		openFiles = append(openFiles, file)
		*slot.target = &service.ImageUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	var progress []service.UploadProgress
	input.OnProgress = func(p service.UploadProgress) {
		progress = append(progress, p)
	}

	lookID, err := h.lookService.CreateLookWithImages(c.Context(), input)
	if err != nil {
		log.Printf("Error creating look: %v", err)
		return c.Status(lookErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Look created successfully",
		"data": fiber.Map{
			"lookId":   lookID,
			"progress": progress,
		},
	})
}

func (h *LookHandler) ListLooks(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)

	looks, err := h.lookService.ListLooks(c.Context(), ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": looks,
	})
}

func (h *LookHandler) GetLook(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	id := c.Params("id")

	look, err := h.lookService.FetchLookWithImages(c.Context(), id)
	if err != nil {
		return c.Status(lookErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if look.Look.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": service.ErrNotOwner.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": look,
	})
}

type updateLookRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

func (h *LookHandler) UpdateLook(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	id := c.Params("id")

	var req updateLookRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.lookService.UpdateLook(c.Context(), ownerID, id, req.Title, req.Notes); err != nil {
		return c.Status(lookErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Look updated successfully",
	})
}

func (h *LookHandler) DeleteLook(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	id := c.Params("id")

	if err := h.lookService.DeleteLookWithAssets(c.Context(), ownerID, id); err != nil {
		return c.Status(lookErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Look deleted successfully",
	})
}

// UpsertImage adds or replaces one photo of a look.
func (h *LookHandler) UpsertImage(c fiber.Ctx) error {
	ownerID := middleware.OwnerID(c)
	id := c.Params("id")

	kind := models.ImageKind(c.Params("kind"))
	if !kind.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown image kind",
		})
	}

	header, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No photo file provided",
		})
	}
	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	defer file.Close()

	result, err := h.lookService.UpsertLookImage(c.Context(), ownerID, id, kind, &service.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		imageUploads.WithLabelValues("failure", string(kind)).Inc()
		log.Printf("Error upserting look image: %v", err)
		return c.Status(lookErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	imageUploads.WithLabelValues("success", string(kind)).Inc()

	return c.JSON(fiber.Map{
		"message": "Photo uploaded successfully",
		"data":    result,
	})
}

func lookErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLookNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, utils.ErrImageType), errors.Is(err, utils.ErrImageSize):
		return fiber.StatusBadRequest
	default:
		// Anything else is a collaborator failure, not a bad request.
		return fiber.StatusInternalServerError
	}
}
