package jobdescriptions

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, profile_id, title, company, description, confidence_score, created_at`

// Create stores the job description.
func (r *PGRepo) Create(ctx context.Context, jd JobDescription) error {
	const query = `
INSERT INTO job_descriptions (id, profile_id, title, company, description, confidence_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err := r.DB.ExecContext(ctx, query,
		jd.ID,
		jd.ProfileID,
		jd.Title,
		jd.Company,
		jd.Description,
		jd.ConfidenceScore,
	)
	return err
}

// GetByID returns a job description by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (JobDescription, error) {
	const query = `SELECT ` + selectColumns + ` FROM job_descriptions WHERE id = $1`

	var jd JobDescription
	var confidence sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&jd.ID,
		&jd.ProfileID,
		&jd.Title,
		&jd.Company,
		&jd.Description,
		&confidence,
		&jd.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return JobDescription{}, ErrNotFound
	}
	if err != nil {
		return JobDescription{}, err
	}
	if confidence.Valid {
		jd.ConfidenceScore = &confidence.Float64
	}
	return jd, nil
}

// ListByProfile returns a profile's job descriptions, newest first.
func (r *PGRepo) ListByProfile(ctx context.Context, profileID string) ([]JobDescription, error) {
	const query = `SELECT ` + selectColumns + ` FROM job_descriptions WHERE profile_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobDescription
	for rows.Next() {
		var jd JobDescription
		var confidence sql.NullFloat64
		if err := rows.Scan(
			&jd.ID,
			&jd.ProfileID,
			&jd.Title,
			&jd.Company,
			&jd.Description,
			&confidence,
			&jd.CreatedAt,
		); err != nil {
			return nil, err
		}
		if confidence.Valid {
			jd.ConfidenceScore = &confidence.Float64
		}
		out = append(out, jd)
	}
	return out, rows.Err()
}

// Delete removes a job description if owned by the profile.
func (r *PGRepo) Delete(ctx context.Context, id, profileID string) error {
	const query = `DELETE FROM job_descriptions WHERE id = $1 AND profile_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, profileID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
