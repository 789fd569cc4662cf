package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, profile_id, resume_id, job_description_id, resume_name,
       job_title, company, match_score, summary, strengths, gaps, next_steps, created_at`

// Create appends the analysis.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	const query = `
INSERT INTO analyses (
	id, profile_id, resume_id, job_description_id, resume_name,
	job_title, company, match_score, summary, strengths, gaps, next_steps, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	strengths, err := marshalList(a.Strengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	gaps, err := marshalList(a.Gaps)
	if err != nil {
		return fmt.Errorf("marshal gaps: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		a.ID,
		a.ProfileID,
		a.ResumeID,
		a.JobDescriptionID,
		a.ResumeName,
		a.JobTitle,
		a.Company,
		a.MatchScore,
		a.Summary,
		strengths,
		gaps,
		a.NextSteps,
	)
	return err
}

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	const query = `SELECT ` + selectColumns + ` FROM analyses WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, query, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return a, err
}

// ListByProfile returns a profile's analyses, newest first.
func (r *PGRepo) ListByProfile(ctx context.Context, profileID string) ([]Analysis, error) {
	const query = `SELECT ` + selectColumns + ` FROM analyses WHERE profile_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var strengths, gaps []byte
	err := row.Scan(
		&a.ID,
		&a.ProfileID,
		&a.ResumeID,
		&a.JobDescriptionID,
		&a.ResumeName,
		&a.JobTitle,
		&a.Company,
		&a.MatchScore,
		&a.Summary,
		&strengths,
		&gaps,
		&a.NextSteps,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if len(strengths) > 0 {
		if err := json.Unmarshal(strengths, &a.Strengths); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal strengths: %w", err)
		}
	}
	if len(gaps) > 0 {
		if err := json.Unmarshal(gaps, &a.Gaps); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal gaps: %w", err)
		}
	}
	return a, nil
}

func marshalList(v []string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
