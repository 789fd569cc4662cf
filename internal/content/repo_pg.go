package content

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

// Upsert creates or replaces the content row for a résumé. The unique
// constraint on resume_id makes event redelivery write the same row.
func (r *PGRepo) Upsert(ctx context.Context, c ResumeContent) error {
	const query = `
INSERT INTO resume_contents (
	id, resume_id, name, email, phone, skills, experiences, education,
	certifications, projects, summary, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
ON CONFLICT (resume_id) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	skills = EXCLUDED.skills,
	experiences = EXCLUDED.experiences,
	education = EXCLUDED.education,
	certifications = EXCLUDED.certifications,
	projects = EXCLUDED.projects,
	summary = EXCLUDED.summary,
	updated_at = NOW()`

	skills, err := marshalList(c.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	experiences, err := marshalList(c.Experiences)
	if err != nil {
		return fmt.Errorf("marshal experiences: %w", err)
	}
	education, err := marshalList(c.Education)
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}
	certifications, err := marshalList(c.Certifications)
	if err != nil {
		return fmt.Errorf("marshal certifications: %w", err)
	}
	projects, err := marshalList(c.Projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		c.ID,
		c.ResumeID,
		c.Name,
		c.Email,
		c.Phone,
		skills,
		experiences,
		education,
		certifications,
		projects,
		c.Summary,
	)
	return err
}

// GetByResumeID returns the content row for a résumé.
func (r *PGRepo) GetByResumeID(ctx context.Context, resumeID string) (ResumeContent, error) {
	const query = `
SELECT id, resume_id, name, email, phone, skills, experiences, education,
       certifications, projects, summary, created_at, updated_at
FROM resume_contents
WHERE resume_id = $1
LIMIT 1`

	var c ResumeContent
	var skills, experiences, education, certifications, projects []byte
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&c.ID,
		&c.ResumeID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&skills,
		&experiences,
		&education,
		&certifications,
		&projects,
		&c.Summary,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ResumeContent{}, ErrNotFound
	}
	if err != nil {
		return ResumeContent{}, err
	}

	if err := unmarshalInto(skills, &c.Skills); err != nil {
		return ResumeContent{}, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := unmarshalInto(experiences, &c.Experiences); err != nil {
		return ResumeContent{}, fmt.Errorf("unmarshal experiences: %w", err)
	}
	if err := unmarshalInto(education, &c.Education); err != nil {
		return ResumeContent{}, fmt.Errorf("unmarshal education: %w", err)
	}
	if err := unmarshalInto(certifications, &c.Certifications); err != nil {
		return ResumeContent{}, fmt.Errorf("unmarshal certifications: %w", err)
	}
	if err := unmarshalInto(projects, &c.Projects); err != nil {
		return ResumeContent{}, fmt.Errorf("unmarshal projects: %w", err)
	}
	return c, nil
}

// ExistsByResumeID reports whether a content row exists for a résumé.
func (r *PGRepo) ExistsByResumeID(ctx context.Context, resumeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM resume_contents WHERE resume_id = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func marshalList(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

func unmarshalInto(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

var _ Repo = (*PGRepo)(nil)
