package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/extract"
	"cvmatch-backend/internal/resumes"
	"cvmatch-backend/internal/shared/storage/object"
	"cvmatch-backend/internal/shared/telemetry"
)

// ErrMalformedPath is returned for object keys outside the
// {storageKey}/{resumeId}/{fileName} convention.
var ErrMalformedPath = errors.New("malformed object path")

// Orchestrator runs the extraction pipeline for one storage event: download,
// extract, parse, summarize, persist. It is the single writer of résumé
// content. Failures are terminal for the delivery; redelivery is the retry
// mechanism, and the content upsert keyed by résumé id keeps that safe.
type Orchestrator struct {
	Resumes    resumes.Repo
	Contents   content.Repo
	Store      object.ObjectStore
	Parser     *Parser
	Summarizer *Summarizer
}

// HandleObjectCreated processes an "object created" storage notification.
func (o *Orchestrator) HandleObjectCreated(ctx context.Context, objectKey string) error {
	storageKey, resumeID, fileName, err := splitEventPath(objectKey)
	if err != nil {
		return err
	}

	resume, err := o.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("resolve resume id=%s: %w", resumeID, err)
	}
	if resume.StorageKey != storageKey || resume.FilePath != objectKey {
		return fmt.Errorf("%w: path %s does not match resume %s", ErrMalformedPath, objectKey, resumeID)
	}

	body, mimeType, err := o.Store.Download(ctx, objectKey)
	if err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("download %s: %w", objectKey, err))
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("read %s: %w", objectKey, err))
	}

	// Unsupported types are rejected without touching status or content.
	if !extract.Supported(mimeType, fileName) {
		return fmt.Errorf("%w: %s", extract.ErrUnsupportedType, mimeType)
	}

	if err := o.Resumes.UpdateStatus(ctx, resumeID, resumes.StatusProcessing); err != nil {
		return fmt.Errorf("set processing resume_id=%s: %w", resumeID, err)
	}

	rawText, err := extract.Text(data, mimeType, fileName)
	if err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("extract text: %w", err))
	}

	parsed, err := o.Parser.Parse(ctx, rawText)
	if err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("structured parse: %w", err))
	}

	summary, err := o.Summarizer.Summarize(ctx, parsed)
	if err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("summarize: %w", err))
	}

	row := content.ResumeContent{
		ID:             uuid.NewString(),
		ResumeID:       resumeID,
		Name:           strings.TrimSpace(parsed.Name),
		Email:          strings.TrimSpace(parsed.Email),
		Phone:          strings.TrimSpace(parsed.Phone),
		Skills:         parsed.Skills,
		Experiences:    parsed.Experiences,
		Education:      parsed.Education,
		Certifications: parsed.Certifications,
		Projects:       parsed.Projects,
		Summary:        summary,
	}
	if err := o.Contents.Upsert(ctx, row); err != nil {
		return o.fail(ctx, resumeID, fmt.Errorf("upsert content: %w", err))
	}

	if err := o.Resumes.UpdateStatus(ctx, resumeID, resumes.StatusProcessed); err != nil {
		return fmt.Errorf("set processed resume_id=%s: %w", resumeID, err)
	}

	telemetry.Info("ingest.processed", map[string]any{
		"resume_id":   resumeID,
		"storage_key": storageKey,
		"file_name":   fileName,
		"skills":      len(parsed.Skills),
	})
	return nil
}

// fail records the terminal failure on the résumé and returns the cause.
func (o *Orchestrator) fail(ctx context.Context, resumeID string, cause error) error {
	telemetry.Error("ingest.failed", map[string]any{
		"resume_id": resumeID,
		"error":     cause.Error(),
	})
	if err := o.Resumes.UpdateStatus(ctx, resumeID, resumes.StatusAnalysisFailed); err != nil {
		telemetry.Error("ingest.status_update_failed", map[string]any{
			"resume_id": resumeID,
			"error":     err.Error(),
		})
	}
	return cause
}

func splitEventPath(objectKey string) (storageKey, resumeID, fileName string, err error) {
	parts := strings.Split(strings.Trim(objectKey, "/"), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: %s", ErrMalformedPath, objectKey)
	}
	return parts[0], parts[1], parts[2], nil
}
