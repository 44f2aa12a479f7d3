package opportunity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"owltrack/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) list(t Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.service.List(c.Request.Context(), t)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, items)
	}
}

func (h *Handler) get(t Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.service.Get(c.Request.Context(), t, c.Param("id"))
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
	}
}

func (h *Handler) create(t Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		item, err := h.service.Create(c.Request.Context(), t, req)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusCreated, item)
	}
}

func (h *Handler) update(t Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		item, err := h.service.Update(c.Request.Context(), t, c.Param("id"), req)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
	}
}

func (h *Handler) delete(t Type) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), t, c.Param("id")); err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrSlugTaken):
		response.Error(c, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDetailsFormat):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		h.log.Error("opportunity request failed", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
