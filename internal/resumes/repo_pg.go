package resumes

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new résumé row. Unique indexes on file_path and on
// non-deleted (storage_key, file_name) close the validate/finalize race.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
	id, profile_id, storage_key, file_path, file_name, size_bytes,
	version, is_active, status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.ProfileID,
		resume.StorageKey,
		resume.FilePath,
		resume.FileName,
		resume.SizeBytes,
		resume.Version,
		resume.IsActive,
		resume.Status,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// GetByID returns a résumé by ID.
func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	const query = selectColumns + ` WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, resumeID))
}

// GetByPath returns a résumé by its exact object path.
func (r *PGRepo) GetByPath(ctx context.Context, filePath string) (Resume, error) {
	const query = selectColumns + ` WHERE file_path = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, filePath))
}

// FileNameExists reports a non-deleted duplicate file name under a storage key.
func (r *PGRepo) FileNameExists(ctx context.Context, storageKey, fileName string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM resumes
	WHERE storage_key = $1 AND file_name = $2 AND deleted_at IS NULL
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, storageKey, fileName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MaxVersion returns the highest version ever assigned for a storage key.
// Soft-deleted rows count so version numbers are never reused.
func (r *PGRepo) MaxVersion(ctx context.Context, storageKey string) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) FROM resumes WHERE storage_key = $1`
	var maxVersion int
	if err := r.DB.QueryRowContext(ctx, query, storageKey).Scan(&maxVersion); err != nil {
		return 0, err
	}
	return maxVersion, nil
}

// ListByProfile returns non-deleted résumés for a profile, newest first.
func (r *PGRepo) ListByProfile(ctx context.Context, profileID string) ([]Resume, error) {
	const query = selectColumns + `
 WHERE profile_id = $1 AND deleted_at IS NULL
 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateStatus updates the status of an existing résumé.
func (r *PGRepo) UpdateStatus(ctx context.Context, resumeID, status string) error {
	const query = `UPDATE resumes SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, resumeID, status)
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

// SoftDelete marks a résumé deleted if owned by the profile.
func (r *PGRepo) SoftDelete(ctx context.Context, resumeID, profileID string) error {
	const query = `
UPDATE resumes
SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
WHERE id = $1 AND profile_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, resumeID, profileID)
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

const selectColumns = `
SELECT id, profile_id, storage_key, file_path, file_name, size_bytes,
       version, is_active, status, created_at, updated_at, deleted_at
FROM resumes`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Resume, error) {
	resume, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return resume, err
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var deletedAt sql.NullTime
	err := row.Scan(
		&resume.ID,
		&resume.ProfileID,
		&resume.StorageKey,
		&resume.FilePath,
		&resume.FileName,
		&resume.SizeBytes,
		&resume.Version,
		&resume.IsActive,
		&resume.Status,
		&resume.CreatedAt,
		&resume.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		resume.DeletedAt = &t
	}
	return resume, nil
}

// mapUniqueViolation translates Postgres unique-violation errors to the
// sentinel errors the state machine reports.
func mapUniqueViolation(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "23505") {
		return err
	}
	if strings.Contains(msg, "file_path") {
		return ErrDuplicatePath
	}
	if strings.Contains(msg, "file_name") {
		return ErrDuplicateName
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
