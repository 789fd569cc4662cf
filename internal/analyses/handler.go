package analyses

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/resumes"
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

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.create)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

type createRequest struct {
	ResumeID         string `json:"resumeId"`
	JobDescriptionID string `json:"jobDescriptionId"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.ResumeID = strings.TrimSpace(req.ResumeID)
	req.JobDescriptionID = strings.TrimSpace(req.JobDescriptionID)
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeId and jobDescriptionId are required", nil)
		return
	}

	analysis, err := h.Svc.Create(c.Request.Context(), middleware.ProfileIDFromContext(c), req.ResumeID, req.JobDescriptionID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, jobdescriptions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
		case errors.Is(err, jobdescriptions.ErrNotJobDescription):
			respond.Error(c, http.StatusUnprocessableEntity, "not_job_description", "job description confidence too low for analysis", nil)
		case errors.Is(err, ErrContentNotFound):
			respond.Error(c, http.StatusConflict, "content_not_ready", "resume content is not available yet", nil)
		case errors.Is(err, ErrInvalidScoreRange), errors.Is(err, llm.ErrMalformedOutput):
			respond.Error(c, http.StatusBadGateway, "scoring_failed", "scoring produced unusable output, try again", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(analysis))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.ProfileIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	out := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	respond.OK(c, gin.H{"analyses": out})
}

func (h *Handler) get(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	respond.OK(c, toResponse(analysis))
}

type analysisResponse struct {
	ID               string    `json:"id"`
	ResumeID         string    `json:"resumeId"`
	JobDescriptionID string    `json:"jobDescriptionId"`
	ResumeName       string    `json:"resumeName"`
	JobTitle         string    `json:"jobTitle"`
	Company          string    `json:"company"`
	MatchScore       float64   `json:"matchScore"`
	Summary          string    `json:"summary"`
	Strengths        []string  `json:"strengths"`
	Gaps             []string  `json:"gaps"`
	NextSteps        string    `json:"nextSteps"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toResponse(a Analysis) analysisResponse {
	return analysisResponse{
		ID:               a.ID,
		ResumeID:         a.ResumeID,
		JobDescriptionID: a.JobDescriptionID,
		ResumeName:       a.ResumeName,
		JobTitle:         a.JobTitle,
		Company:          a.Company,
		MatchScore:       a.MatchScore,
		Summary:          a.Summary,
		Strengths:        a.Strengths,
		Gaps:             a.Gaps,
		NextSteps:        a.NextSteps,
		CreatedAt:        a.CreatedAt,
	}
}
