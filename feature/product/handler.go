package product

import (
	"errors"
	"io"

	"data-importer/core/extract"
	"data-importer/core/job"
	"data-importer/core/logger"
	"data-importer/core/session"
	"data-importer/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for product imports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the import and job routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	imports := app.Group("/imports")
	imports.Get("/objects", h.HandleListObjects)
	imports.Post("/", h.HandleUpload)
	imports.Get("/:id", h.HandleGetImport)
	imports.Get("/:id/entries", h.HandleGetEntries)
	imports.Post("/:id/reconcile", h.HandleReconcile)
	imports.Delete("/:id", h.HandleDiscard)
	imports.Post("/:id/jobs", h.HandleStartJob)

	jobs := app.Group("/jobs")
	jobs.Get("/:id", h.HandleJobStatus)
	jobs.Get("/:id/result", h.HandleJobResult)
	jobs.Delete("/:id", h.HandleCancelJob)
}

type uploadObjectRequest struct {
	Object string `json:"object"`
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrImportNotFound), errors.Is(err, job.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, extract.ErrEmptyFile), errors.Is(err, extract.ErrNoHeader), errors.Is(err, ErrNothingSelected),
		errors.Is(err, session.ErrUnknownEntry):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrObjectTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrNotReconciled):
		return fiber.StatusConflict
	case errors.Is(err, ErrStorageDisabled), errors.Is(err, ErrDatabaseDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusOf(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleUpload parses an uploaded file or a file from the bucket.
// @Summary Upload import
// @Description Parse a delimited file (multipart field "file") or a bucket object ({"object": "incoming/x.csv"}) and reconcile it against the products table.
// @Tags imports
// @Accept mpfd,json
// @Produce json
// @Param file formData file false "Import file"
// @Success 201 {object} product.Summary "Import summary"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /imports [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return h.fail(c, "Failed to open upload", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return h.fail(c, "Failed to read upload", err)
		}
		summary, err := h.service.Upload(c.UserContext(), fh.Filename, data)
		if err != nil {
			return h.fail(c, "Import failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(summary)
	}

	var req uploadObjectRequest
	if err := c.BodyParser(&req); err != nil || req.Object == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "expected a multipart file or an object name",
		})
	}
	summary, err := h.service.UploadObject(c.UserContext(), req.Object)
	if err != nil {
		return h.fail(c, "Import failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleListObjects lists importable files in the bucket.
// @Summary List bucket imports
// @Tags imports
// @Produce json
// @Success 200 {array} string "Object names"
// @Router /imports/objects [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	names, err := h.service.Objects(c.UserContext())
	if err != nil {
		return h.fail(c, "Listing objects failed", err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

// HandleGetImport returns an import summary.
// @Summary Get import
// @Tags imports
// @Produce json
// @Param id path string true "Import ID"
// @Success 200 {object} product.Summary "Import summary"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/{id} [get]
func (h *Handler) HandleGetImport(c *fiber.Ctx) error {
	summary, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, "Import lookup failed", err)
	}
	return c.JSON(summary)
}

// HandleGetEntries returns the entries of an import. Without any toggle in
// the query every status is shown.
// @Summary List import entries
// @Tags imports
// @Produce json
// @Param id path string true "Import ID"
// @Param new query bool false "Show NEW"
// @Param deleted query bool false "Show DELETED"
// @Param modified query bool false "Show MODIFIED"
// @Param unmodified query bool false "Show UNMODIFIED"
// @Param faulty query bool false "Show FAULTY"
// @Param unknown query bool false "Show UNKNOWN and UNKNOWN_MODIFICATION"
// @Success 200 {array} session.Entry "Entries"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/{id}/entries [get]
func (h *Handler) HandleGetEntries(c *fiber.Ctx) error {
	filter := session.ShowAll()
	if len(c.Request().URI().QueryString()) > 0 {
		filter = session.Filter{}
		if err := c.QueryParser(&filter); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	entries, err := h.service.Entries(c.Params("id"), filter)
	if err != nil {
		return h.fail(c, "Entries lookup failed", err)
	}
	return c.JSON(entries)
}

// HandleReconcile re-runs the reconciliation of an import.
// @Summary Reconcile import again
// @Tags imports
// @Produce json
// @Param id path string true "Import ID"
// @Param reread query bool false "Reload the products table"
// @Success 200 {object} product.Summary "Import summary"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/{id}/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	summary, err := h.service.Reconcile(c.UserContext(), c.Params("id"), c.QueryBool("reread"))
	if err != nil {
		return h.fail(c, "Reconciliation failed", err)
	}
	return c.JSON(summary)
}

// HandleDiscard drops an import.
// @Summary Discard import
// @Tags imports
// @Param id path string true "Import ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/{id} [delete]
func (h *Handler) HandleDiscard(c *fiber.Ctx) error {
	if err := h.service.Discard(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, "Discard failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStartJob applies selected entries in the background.
// @Summary Start apply job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "Import ID"
// @Param request body product.JobRequest false "Selection"
// @Success 202 {object} map[string]string "Job ID"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /imports/{id}/jobs [post]
func (h *Handler) HandleStartJob(c *fiber.Ctx) error {
	var req JobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	jobID, err := h.service.StartJob(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.fail(c, "Job start failed", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// HandleJobStatus returns the progress of a job.
// @Summary Job status
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} job.Status "Status"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /jobs/{id} [get]
func (h *Handler) HandleJobStatus(c *fiber.Ctx) error {
	st, err := h.service.JobStatus(c.Params("id"))
	if err != nil {
		return h.fail(c, "Job lookup failed", err)
	}
	return c.JSON(st)
}

// HandleJobResult returns the result of a job, as markdown with
// ?format=markdown.
// @Summary Job result
// @Tags jobs
// @Produce json,plain
// @Param id path string true "Job ID"
// @Param format query string false "json or markdown"
// @Success 200 {object} job.Result "Result"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /jobs/{id}/result [get]
func (h *Handler) HandleJobResult(c *fiber.Ctx) error {
	res, err := h.service.JobResult(c.Params("id"))
	if err != nil {
		return h.fail(c, "Job lookup failed", err)
	}
	if c.Query("format") == "markdown" {
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return c.SendString(res.Markdown())
	}
	return c.JSON(res)
}

// HandleCancelJob cancels a job.
// @Summary Cancel job
// @Tags jobs
// @Param id path string true "Job ID"
// @Success 202
// @Failure 404 {object} map[string]string "Not Found"
// @Router /jobs/{id} [delete]
func (h *Handler) HandleCancelJob(c *fiber.Ctx) error {
	if err := h.service.CancelJob(c.Params("id")); err != nil {
		return h.fail(c, "Job cancel failed", err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}
