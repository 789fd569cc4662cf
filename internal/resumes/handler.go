package resumes

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

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/upload-slot", h.uploadSlot)
	rg.POST("/resumes/validate", h.validate)
	rg.POST("/resumes/finalize", h.finalize)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.remove)
}

type uploadSlotRequest struct {
	FileName string `json:"fileName"`
}

type uploadSlotResponse struct {
	ResumeID         string `json:"resumeId"`
	Path             string `json:"path"`
	UploadURL        string `json:"uploadUrl"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

func (h *Handler) uploadSlot(c *gin.Context) {
	var req uploadSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}

	slot, err := h.Svc.RequestUploadSlot(
		c.Request.Context(),
		middleware.ProfileIDFromContext(c),
		middleware.StorageKeyFromContext(c),
		req.FileName,
	)
	if err != nil {
		respondUploadError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, uploadSlotResponse{
		ResumeID:         slot.ResumeID,
		Path:             slot.Path,
		UploadURL:        slot.UploadURL,
		ExpiresInSeconds: slot.ExpiresInSeconds,
	})
}

type completeRequest struct {
	Path      string `json:"path"`
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
}

func (h *Handler) validate(c *gin.Context) {
	req, ok := bindCompleteRequest(c)
	if !ok {
		return
	}

	err := h.Svc.ValidateComplete(
		c.Request.Context(),
		middleware.ProfileIDFromContext(c),
		middleware.StorageKeyFromContext(c),
		req.Path,
		req.FileName,
		req.SizeBytes,
	)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	respond.OK(c, gin.H{"valid": true})
}

func (h *Handler) finalize(c *gin.Context) {
	req, ok := bindCompleteRequest(c)
	if !ok {
		return
	}

	resume, err := h.Svc.FinalizeUpload(
		c.Request.Context(),
		middleware.ProfileIDFromContext(c),
		middleware.StorageKeyFromContext(c),
		req.Path,
		req.FileName,
		req.SizeBytes,
	)
	if err != nil {
		respondUploadError(c, err)
		return
	}
	c.Set("resumeId", resume.ID)
	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), middleware.ProfileIDFromContext(c))
	if err != nil {
		respondUploadError(c, err)
		return
	}
	out := make([]resumeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	respond.OK(c, gin.H{"resumes": out})
}

func (h *Handler) get(c *gin.Context) {
	resume, err := h.Svc.Get(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		respondUploadError(c, err)
		return
	}
	respond.OK(c, toResponse(resume))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.ProfileIDFromContext(c), c.Param("id"))
	if err != nil {
		respondUploadError(c, err)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func bindCompleteRequest(c *gin.Context) (completeRequest, bool) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return completeRequest{}, false
	}
	req.Path = strings.TrimSpace(req.Path)
	req.FileName = strings.TrimSpace(req.FileName)
	if req.Path == "" || req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "path and fileName are required", nil)
		return completeRequest{}, false
	}
	return req, true
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	case errors.Is(err, ErrUnconfigured):
		respond.Error(c, http.StatusConflict, "storage_unconfigured", "profile has no storage key configured", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "file extension is not allowed", nil)
	case errors.Is(err, ErrPathMismatch):
		respond.Error(c, http.StatusForbidden, "path_mismatch", "path is outside the caller's storage key", nil)
	case errors.Is(err, ErrDuplicateName):
		respond.Error(c, http.StatusConflict, "duplicate_name", "a resume with this file name already exists", nil)
	case errors.Is(err, ErrDuplicatePath):
		respond.Error(c, http.StatusConflict, "duplicate_path", "a resume already references this path", nil)
	case errors.Is(err, ErrAlreadyFinalized):
		respond.Error(c, http.StatusConflict, "already_finalized", "a resume was already finalized at this path", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
	}
}

type resumeResponse struct {
	ID        string     `json:"id"`
	FileName  string     `json:"fileName"`
	FilePath  string     `json:"filePath"`
	SizeBytes int64      `json:"sizeBytes"`
	Version   int        `json:"version"`
	IsActive  bool       `json:"isActive"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func toResponse(r Resume) resumeResponse {
	return resumeResponse{
		ID:        r.ID,
		FileName:  r.FileName,
		FilePath:  r.FilePath,
		SizeBytes: r.SizeBytes,
		Version:   r.Version,
		IsActive:  r.IsActive,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		DeletedAt: r.DeletedAt,
	}
}
