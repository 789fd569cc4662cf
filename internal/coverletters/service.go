package coverletters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvmatch-backend/internal/analyses"
	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/resumes"
	"cvmatch-backend/internal/shared/metrics"
	"cvmatch-backend/internal/shared/telemetry"
)

const (
	letterTemperature     = 0.7
	letterMaxOutputTokens = 1024

	// maxRetries bounds attempts after the first; backoff starts at
	// retryBaseDelay and doubles per attempt.
	maxRetries     = 2
	retryBaseDelay = time.Second
)

// GenerateInput names the entities a letter is written from. AnalysisID is
// optional; CustomNotes, when present, are mandatory constraints on the text.
type GenerateInput struct {
	ResumeID         string
	JobDescriptionID string
	AnalysisID       string
	CustomNotes      string
}

// Service generates and reads cover letters.
type Service struct {
	Repo            Repo
	Resumes         resumes.Repo
	JobDescriptions jobdescriptions.Repo
	Contents        content.Repo
	Analyses        analyses.Repo
	LLM             llm.Client

	// sleep is replaced in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func (s *Service) wait(d time.Duration) {
	if s.sleep != nil {
		s.sleep(d)
		return
	}
	time.Sleep(d)
}

// SetSleep overrides the backoff sleeper. Test hook.
func (s *Service) SetSleep(fn func(time.Duration)) {
	s.sleep = fn
}

// Generate assembles the prompt, calls the model with bounded retries, and
// stores the letter.
func (s *Service) Generate(ctx context.Context, profileID string, input GenerateInput) (CoverLetter, error) {
	resume, err := s.Resumes.GetByID(ctx, input.ResumeID)
	if err != nil {
		return CoverLetter{}, fmt.Errorf("load resume: %w", err)
	}
	if resume.ProfileID != profileID || resume.DeletedAt != nil {
		return CoverLetter{}, resumes.ErrNotFound
	}

	jd, err := s.JobDescriptions.GetByID(ctx, input.JobDescriptionID)
	if err != nil {
		return CoverLetter{}, fmt.Errorf("load job description: %w", err)
	}
	if jd.ProfileID != profileID {
		return CoverLetter{}, jobdescriptions.ErrNotFound
	}

	c, err := s.Contents.GetByResumeID(ctx, input.ResumeID)
	if errors.Is(err, content.ErrNotFound) {
		return CoverLetter{}, analyses.ErrContentNotFound
	}
	if err != nil {
		return CoverLetter{}, fmt.Errorf("load resume content: %w", err)
	}
	if strings.TrimSpace(c.Name) == "" {
		return CoverLetter{}, ErrMissingCandidateName
	}

	var analysis *analyses.Analysis
	if input.AnalysisID != "" {
		a, err := s.Analyses.GetByID(ctx, input.AnalysisID)
		if err != nil {
			return CoverLetter{}, fmt.Errorf("load analysis: %w", err)
		}
		if a.ProfileID != profileID {
			return CoverLetter{}, analyses.ErrNotFound
		}
		analysis = &a
	}

	prompt := buildLetterPrompt(jd, c, analysis, input.CustomNotes)
	text, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		metrics.IncCoverLetterFailed()
		return CoverLetter{}, err
	}

	letter := CoverLetter{
		ID:               uuid.NewString(),
		ProfileID:        profileID,
		ResumeID:         input.ResumeID,
		JobDescriptionID: input.JobDescriptionID,
		AnalysisID:       input.AnalysisID,
		Content:          text,
		Preview:          previewOf(text),
		CustomNotes:      strings.TrimSpace(input.CustomNotes),
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, letter); err != nil {
		return CoverLetter{}, fmt.Errorf("store cover letter: %w", err)
	}
	metrics.IncCoverLetters()
	return letter, nil
}

// generateWithRetry treats empty output like a failed call. Exhausting the
// retry budget surfaces ErrGenerationFailed wrapping the last cause.
func (s *Service) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.wait(retryBaseDelay << (attempt - 1))
		}
		out, err := s.LLM.Generate(ctx, llm.GenerateRequest{
			Prompt:          prompt,
			Temperature:     letterTemperature,
			MaxOutputTokens: letterMaxOutputTokens,
		})
		if err == nil {
			text := strings.TrimSpace(out)
			if text != "" {
				return text, nil
			}
			err = llm.ErrEmptyResponse
		}
		lastErr = err
		telemetry.Warn("coverletter.attempt_failed", map[string]any{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	return "", fmt.Errorf("%w: %w", ErrGenerationFailed, lastErr)
}

// Get returns a cover letter owned by the profile.
func (s *Service) Get(ctx context.Context, profileID, id string) (CoverLetter, error) {
	letter, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return CoverLetter{}, err
	}
	if letter.ProfileID != profileID {
		return CoverLetter{}, ErrNotFound
	}
	return letter, nil
}

// List returns the profile's cover letters, newest first.
func (s *Service) List(ctx context.Context, profileID string) ([]CoverLetter, error) {
	return s.Repo.ListByProfile(ctx, profileID)
}

// Delete removes a cover letter owned by the profile.
func (s *Service) Delete(ctx context.Context, profileID, id string) error {
	return s.Repo.Delete(ctx, id, profileID)
}

func buildLetterPrompt(jd jobdescriptions.JobDescription, c content.ResumeContent, analysis *analyses.Analysis, customNotes string) string {
	var b strings.Builder
	b.WriteString("Write a professional cover letter for the candidate below applying to the job below.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- Open with the candidate's name in the first sentence.\n")
	b.WriteString("- Three to four paragraphs, plain prose, no placeholders like [Company].\n")
	b.WriteString("- Ground every claim in the candidate data; never invent experience.\n")
	if notes := strings.TrimSpace(customNotes); notes != "" {
		b.WriteString("- The following instructions from the candidate are mandatory:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nJob title: %s\nCompany: %s\nJob description:\n%s\n", jd.Title, jd.Company, jd.Description)

	fmt.Fprintf(&b, "\nCandidate: %s\n", c.Name)
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(c.Skills, ", "))
	}
	for _, exp := range c.Experiences {
		fmt.Fprintf(&b, "Experience: %s at %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, exp.EndDate)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", c.Summary)
	}
	if analysis != nil && len(analysis.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths to emphasize: %s\n", strings.Join(analysis.Strengths, "; "))
	}
	return b.String()
}
