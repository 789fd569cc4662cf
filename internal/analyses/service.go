package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/resumes"
	"cvmatch-backend/internal/shared/metrics"
)

// minConfidence gates analysis creation on the classifier's stored verdict.
const minConfidence = 40

// Service creates and reads analyses. Every cross-entity read verifies the
// profile chain before anything is returned or written.
type Service struct {
	Repo            Repo
	Resumes         resumes.Repo
	JobDescriptions jobdescriptions.Repo
	Contents        content.Repo
	Engine          *Engine
}

// Create scores a résumé against a stored job description and appends the
// result.
func (s *Service) Create(ctx context.Context, profileID, resumeID, jobDescriptionID string) (Analysis, error) {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return Analysis{}, fmt.Errorf("load resume: %w", err)
	}
	if resume.ProfileID != profileID || resume.DeletedAt != nil {
		return Analysis{}, resumes.ErrNotFound
	}

	jd, err := s.JobDescriptions.GetByID(ctx, jobDescriptionID)
	if err != nil {
		return Analysis{}, fmt.Errorf("load job description: %w", err)
	}
	if jd.ProfileID != profileID {
		return Analysis{}, jobdescriptions.ErrNotFound
	}
	if jd.ConfidenceScore != nil && *jd.ConfidenceScore < minConfidence {
		return Analysis{}, jobdescriptions.ErrNotJobDescription
	}

	c, err := s.Contents.GetByResumeID(ctx, resumeID)
	if errors.Is(err, content.ErrNotFound) {
		return Analysis{}, ErrContentNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("load resume content: %w", err)
	}

	result, err := s.Engine.Score(ctx, jd.Title, jd.Description, c)
	if err != nil {
		metrics.IncAnalysesFailed()
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:               uuid.NewString(),
		ProfileID:        profileID,
		ResumeID:         resumeID,
		JobDescriptionID: jobDescriptionID,
		ResumeName:       c.Name,
		JobTitle:         jd.Title,
		Company:          jd.Company,
		MatchScore:       result.MatchScore,
		Summary:          result.Summary,
		Strengths:        result.Strengths,
		Gaps:             result.Gaps,
		NextSteps:        result.NextSteps,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, fmt.Errorf("store analysis: %w", err)
	}
	metrics.IncAnalysesCreated()
	return analysis, nil
}

// Get returns an analysis owned by the profile.
func (s *Service) Get(ctx context.Context, profileID, id string) (Analysis, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	if a.ProfileID != profileID {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// List returns the profile's analyses, newest first.
func (s *Service) List(ctx context.Context, profileID string) ([]Analysis, error) {
	return s.Repo.ListByProfile(ctx, profileID)
}
