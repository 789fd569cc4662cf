package coverletters

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, profile_id, resume_id, job_description_id, analysis_id,
       content, preview, custom_notes, created_at, updated_at`

// Create stores the cover letter.
func (r *PGRepo) Create(ctx context.Context, letter CoverLetter) error {
	const query = `
INSERT INTO cover_letters (
	id, profile_id, resume_id, job_description_id, analysis_id,
	content, preview, custom_notes, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	var analysisID any
	if letter.AnalysisID != "" {
		analysisID = letter.AnalysisID
	}
	_, err := r.DB.ExecContext(ctx, query,
		letter.ID,
		letter.ProfileID,
		letter.ResumeID,
		letter.JobDescriptionID,
		analysisID,
		letter.Content,
		letter.Preview,
		letter.CustomNotes,
	)
	return err
}

// GetByID returns a cover letter by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (CoverLetter, error) {
	const query = `SELECT ` + selectColumns + ` FROM cover_letters WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, query, id)
	letter, err := scanLetter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CoverLetter{}, ErrNotFound
	}
	return letter, err
}

// ListByProfile returns a profile's cover letters, newest first.
func (r *PGRepo) ListByProfile(ctx context.Context, profileID string) ([]CoverLetter, error) {
	const query = `SELECT ` + selectColumns + ` FROM cover_letters WHERE profile_id = $1 ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CoverLetter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, letter)
	}
	return out, rows.Err()
}

// Delete removes a cover letter if owned by the profile.
func (r *PGRepo) Delete(ctx context.Context, id, profileID string) error {
	const query = `DELETE FROM cover_letters WHERE id = $1 AND profile_id = $2`
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (CoverLetter, error) {
	var letter CoverLetter
	var analysisID sql.NullString
	err := row.Scan(
		&letter.ID,
		&letter.ProfileID,
		&letter.ResumeID,
		&letter.JobDescriptionID,
		&analysisID,
		&letter.Content,
		&letter.Preview,
		&letter.CustomNotes,
		&letter.CreatedAt,
		&letter.UpdatedAt,
	)
	if err != nil {
		return CoverLetter{}, err
	}
	letter.AnalysisID = analysisID.String
	return letter, nil
}

var _ Repo = (*PGRepo)(nil)
