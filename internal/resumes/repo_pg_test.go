package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resume := Resume{
		ID:         "res-1",
		ProfileID:  "profile-1",
		StorageKey: "key-1",
		FilePath:   "key-1/res-1/cv.pdf",
		FileName:   "cv.pdf",
		SizeBytes:  1024,
		Version:    1,
		IsActive:   true,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			resume.ID,
			resume.ProfileID,
			resume.StorageKey,
			resume.FilePath,
			resume.FileName,
			resume.SizeBytes,
			resume.Version,
			resume.IsActive,
			resume.Status,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "resumes_file_path_key" (SQLSTATE 23505)`))
	if err := repo.Create(context.Background(), Resume{ID: "res-1"}); !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("expected ErrDuplicatePath, got %v", err)
	}

	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_resumes_storage_key_file_name" (SQLSTATE 23505)`))
	if err := repo.Create(context.Background(), Resume{ID: "res-2"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestPGRepoMaxVersionCountsDeletedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM resumes WHERE storage_key = \$1`).
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	got, err := repo.MaxVersion(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("MaxVersion: %v", err)
	}
	if got != 7 {
		t.Fatalf("MaxVersion = %d, want 7", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE resumes SET status").
		WithArgs("missing", StatusProcessed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), "missing", StatusProcessed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
