package coverletters

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvmatch-backend/internal/analyses"
	"cvmatch-backend/internal/jobdescriptions"
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

// RegisterRoutes attaches cover-letter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cover-letters", h.generate)
	rg.GET("/cover-letters", h.list)
	rg.GET("/cover-letters/:id", h.get)
	rg.DELETE("/cover-letters/:id", h.remove)
}

type generateRequest struct {
	ResumeID         string `json:"resumeId"`
	JobDescriptionID string `json:"jobDescriptionId"`
	AnalysisID       string `json:"analysisId"`
	CustomNotes      string `json:"customNotes"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
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

	letter, err := h.Svc.Generate(c.Request.Context(), middleware.ProfileIDFromContext(c), GenerateInput{
		ResumeID:         req.ResumeID,
		JobDescriptionID: req.JobDescriptionID,
		AnalysisID:       strings.TrimSpace(req.AnalysisID),
		CustomNotes:      req.CustomNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, jobdescriptions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
		case errors.Is(err, analyses.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		case errors.Is(err, analyses.ErrContentNotFound):
			respond.Error(c, http.StatusConflict, "content_not_ready", "resume content is not available yet", nil)
		case errors.Is(err, ErrMissingCandidateName):
			respond.Error(c, http.StatusConflict, "missing_candidate_name", "resume content has no candidate name", nil)
		case errors.Is(err, ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", "cover letter generation failed after retries", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(letter, true))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.ProfileIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	out := make([]coverLetterResponse, 0, len(list))
	for _, letter := range list {
		out = append(out, toResponse(letter, false))
	}
	respond.OK(c, gin.H{"coverLetters": out})
}

func (h *Handler) get(c *gin.Context) {
	letter, err := h.Svc.Get(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "cover letter not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	respond.OK(c, toResponse(letter, true))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "cover letter not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

type coverLetterResponse struct {
	ID               string    `json:"id"`
	ResumeID         string    `json:"resumeId"`
	JobDescriptionID string    `json:"jobDescriptionId"`
	AnalysisID       string    `json:"analysisId,omitempty"`
	Content          string    `json:"content,omitempty"`
	Preview          string    `json:"preview"`
	CustomNotes      string    `json:"customNotes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// toResponse includes the full content only for single-letter reads; list
// views carry the preview.
func toResponse(letter CoverLetter, includeContent bool) coverLetterResponse {
	resp := coverLetterResponse{
		ID:               letter.ID,
		ResumeID:         letter.ResumeID,
		JobDescriptionID: letter.JobDescriptionID,
		AnalysisID:       letter.AnalysisID,
		Preview:          letter.Preview,
		CustomNotes:      letter.CustomNotes,
		CreatedAt:        letter.CreatedAt,
	}
	if includeContent {
		resp.Content = letter.Content
	}
	return resp
}
