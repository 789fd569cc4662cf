package analyses

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
	a := Analysis{
		ID:               "an-1",
		ProfileID:        "profile-1",
		ResumeID:         "res-1",
		JobDescriptionID: "jd-1",
		ResumeName:       "Dana Smith",
		JobTitle:         "Backend Engineer",
		Company:          "Acme",
		MatchScore:       72,
		Summary:          "Good fit.",
		Strengths:        []string{"Go"},
		Gaps:             []string{"K8s"},
		NextSteps:        "Learn K8s.",
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			a.ID,
			a.ProfileID,
			a.ResumeID,
			a.JobDescriptionID,
			a.ResumeName,
			a.JobTitle,
			a.Company,
			a.MatchScore,
			a.Summary,
			[]byte(`["Go"]`),
			[]byte(`["K8s"]`),
			a.NextSteps,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMarshalsEmptyListsAsArrays(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			"an-2",
			"profile-1",
			"res-1",
			"jd-1",
			"",
			"",
			"",
			float64(0),
			"",
			[]byte(`[]`),
			[]byte(`[]`),
			"",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), Analysis{
		ID: "an-2", ProfileID: "profile-1", ResumeID: "res-1", JobDescriptionID: "jd-1",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "profile_id", "resume_id", "job_description_id", "resume_name",
		"job_title", "company", "match_score", "summary", "strengths", "gaps", "next_steps", "created_at",
	}).AddRow("an-1", "profile-1", "res-1", "jd-1", "Dana Smith",
		"Backend Engineer", "Acme", 72.0, "Good fit.", []byte(`["Go"]`), []byte(`[]`), "Learn K8s.", now)

	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id =").
		WithArgs("an-1").
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), "an-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.MatchScore != 72 || len(a.Strengths) != 1 {
		t.Fatalf("analysis = %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
