package application

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"owltrack/internal/pkg/authctx"
	"owltrack/internal/pkg/response"
)

type Handler struct {
	service        *Service
	resumeBase     string
	maxResumeBytes int64
	log            *slog.Logger
}

func NewHandler(service *Service, resumeBase string, maxResumeBytes int64, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		service:        service,
		resumeBase:     resumeBase,
		maxResumeBytes: maxResumeBytes,
		log:            log,
	}
}

// ApplyProject handles POST /api/apply_project/:project_id
func (h *Handler) ApplyProject(c *gin.Context) {
	h.create(c, KindProject, CreateInput{
		TargetID:       c.Param("project_id"),
		ApplicantName:  c.PostForm("name"),
		ApplicantEmail: c.PostForm("email"),
	})
}

// ApplyInternship handles POST /api/apply_internship
func (h *Handler) ApplyInternship(c *gin.Context) {
	h.create(c, KindInternship, CreateInput{
		TargetID:       formValue(c, "internship_id", "internshipId"),
		TargetTitle:    formValue(c, "internship_title", "internshipTitle"),
		ApplicantName:  c.PostForm("name"),
		ApplicantEmail: c.PostForm("email"),
	})
}

func (h *Handler) create(c *gin.Context, kind Kind, in CreateInput) {
	ac, ok := authctx.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if fh, err := c.FormFile("resume"); err == nil && fh.Size > 0 {
		if h.maxResumeBytes > 0 && fh.Size > h.maxResumeBytes {
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Resume exceeds maximum allowed size")
			return
		}
		file, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read resume")
			return
		}
		defer file.Close()
		in.Resume = &Resume{Name: fh.Filename, Body: file}
	} else if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read resume")
		return
	}

	app, err := h.service.Create(c.Request.Context(), ac, kind, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(app, h.resumeBase))
}

func (h *Handler) submit(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := authctx.From(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}

		app, err := h.service.Submit(c.Request.Context(), ac, kind, c.Param("id"), req.input())
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, toResponse(app, h.resumeBase))
	}
}

func (h *Handler) decide(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := authctx.From(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		var req DecideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
			return
		}

		app, err := h.service.Decide(c.Request.Context(), ac, kind, c.Param("id"), Status(req.Status))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, toResponse(app, h.resumeBase))
	}
}

func (h *Handler) listMine(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := authctx.From(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		apps, err := h.service.ListMine(c.Request.Context(), ac, kind)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, toResponses(apps, h.resumeBase))
	}
}

func (h *Handler) listAll(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := authctx.From(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		apps, err := h.service.ListAll(c.Request.Context(), ac, kind)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, toResponses(apps, h.resumeBase))
	}
}

// MyApplications handles GET /api/my_applications
func (h *Handler) MyApplications(c *gin.Context) {
	ac, ok := authctx.From(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	mine, err := h.service.ListMineAllKinds(c.Request.Context(), ac)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, MyApplicationsResponse{
		Internships: toResponses(mine.Internships, h.resumeBase),
		Projects:    toResponses(mine.Projects, h.resumeBase),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Application not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin privileges required")
	default:
		h.log.Error("application request failed", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func formValue(c *gin.Context, keys ...string) string {
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, c.PostForm(k))
	}
	return firstNonBlank(values...)
}
