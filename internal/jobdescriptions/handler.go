package jobdescriptions

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/shared/server/middleware"
	"cvmatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job-description routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/job-descriptions", h.create)
	rg.GET("/job-descriptions", h.list)
	rg.GET("/job-descriptions/:id", h.get)
	rg.DELETE("/job-descriptions/:id", h.remove)
}

type createRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "description is required", nil)
		return
	}

	jd, err := h.Svc.Create(c.Request.Context(), middleware.ProfileIDFromContext(c), CreateInput{
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotJobDescription):
			respond.Error(c, http.StatusUnprocessableEntity, "not_job_description", "text was not recognized as a job description", nil)
		case errors.Is(err, ErrValidationUnavailable):
			respond.Error(c, http.StatusBadGateway, "validation_unavailable", "classification is temporarily unavailable, try again", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(jd))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.ProfileIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	out := make([]jobDescriptionResponse, 0, len(list))
	for _, jd := range list {
		out = append(out, toResponse(jd))
	}
	respond.OK(c, gin.H{"jobDescriptions": out})
}

func (h *Handler) get(c *gin.Context) {
	jd, err := h.Svc.Get(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	respond.OK(c, toResponse(jd))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

type jobDescriptionResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	ConfidenceScore *float64  `json:"confidenceScore,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toResponse(jd JobDescription) jobDescriptionResponse {
	return jobDescriptionResponse{
		ID:              jd.ID,
		Title:           jd.Title,
		Company:         jd.Company,
		Description:     jd.Description,
		ConfidenceScore: jd.ConfidenceScore,
		CreatedAt:       jd.CreatedAt,
	}
}
