package jobdescriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotJobDescription means the classifier looked at the text and said no.
var ErrNotJobDescription = errors.New("text is not a job description")

// CreateInput is the caller-supplied half of a job description.
type CreateInput struct {
	Title       string
	Company     string
	Description string
}

// Service validates and stores job descriptions.
type Service struct {
	Repo      Repo
	Validator *Validator
}

// Create classifies the text and stores it only on acceptance. The stored
// confidence score is whatever the classifier reported; threshold policy for
// downstream use stays with the consumer.
func (s *Service) Create(ctx context.Context, profileID string, input CreateInput) (JobDescription, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return JobDescription{}, fmt.Errorf("%w: empty text", ErrNotJobDescription)
	}

	verdict, err := s.Validator.Validate(ctx, description)
	if err != nil {
		return JobDescription{}, err
	}
	if !verdict.IsJobDescription {
		return JobDescription{}, ErrNotJobDescription
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = verdict.JobTitle
	}

	jd := JobDescription{
		ID:              uuid.NewString(),
		ProfileID:       profileID,
		Title:           title,
		Company:         strings.TrimSpace(input.Company),
		Description:     description,
		ConfidenceScore: verdict.ConfidenceScore,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, jd); err != nil {
		return JobDescription{}, fmt.Errorf("store job description: %w", err)
	}
	return jd, nil
}

// Get returns a job description owned by the profile.
func (s *Service) Get(ctx context.Context, profileID, id string) (JobDescription, error) {
	jd, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return JobDescription{}, err
	}
	if jd.ProfileID != profileID {
		return JobDescription{}, ErrNotFound
	}
	return jd, nil
}

// List returns the profile's job descriptions, newest first.
func (s *Service) List(ctx context.Context, profileID string) ([]JobDescription, error) {
	return s.Repo.ListByProfile(ctx, profileID)
}

// Delete removes a job description owned by the profile.
func (s *Service) Delete(ctx context.Context, profileID, id string) error {
	return s.Repo.Delete(ctx, id, profileID)
}
