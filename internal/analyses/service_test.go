package analyses

import (
	"context"
	"errors"
	"testing"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/resumes"
)

const validScoreOutput = `{"matchScore": 72, "summary": "Good fit.", "strengths": ["Go"], "gaps": ["K8s"], "nextSteps": "Learn K8s."}`

type serviceFixture struct {
	svc      *Service
	resumes  *resumes.MemoryRepo
	jds      *jobdescriptions.MemoryRepo
	contents *content.MemoryRepo
}

func newServiceFixture(t *testing.T, llmOutput string) serviceFixture {
	t.Helper()
	f := serviceFixture{
		resumes:  resumes.NewMemoryRepo(),
		jds:      jobdescriptions.NewMemoryRepo(),
		contents: content.NewMemoryRepo(),
	}
	f.svc = &Service{
		Repo:            NewMemoryRepo(),
		Resumes:         f.resumes,
		JobDescriptions: f.jds,
		Contents:        f.contents,
		Engine:          &Engine{LLM: &fakeLLM{output: llmOutput}},
	}

	ctx := context.Background()
	if err := f.resumes.Create(ctx, resumes.Resume{
		ID: "res-1", ProfileID: "profile-1", StorageKey: "sk-1",
		FilePath: "sk-1/res-1/cv.pdf", FileName: "cv.pdf", Version: 1,
		Status: resumes.StatusProcessed,
	}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	confidence := 90.0
	if err := f.jds.Create(ctx, jobdescriptions.JobDescription{
		ID: "jd-1", ProfileID: "profile-1", Title: "Backend Engineer",
		Company: "Acme", Description: "Go services at scale.",
		ConfidenceScore: &confidence,
	}); err != nil {
		t.Fatalf("seed job description: %v", err)
	}
	if err := f.contents.Upsert(ctx, content.ResumeContent{
		ID: "c-1", ResumeID: "res-1", Name: "Dana Smith", Skills: []string{"Go"},
	}); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	return f
}

func TestServiceCreate_DenormalizesDisplayFields(t *testing.T) {
	f := newServiceFixture(t, validScoreOutput)

	a, err := f.svc.Create(context.Background(), "profile-1", "res-1", "jd-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.MatchScore != 72 {
		t.Fatalf("score = %v", a.MatchScore)
	}
	if a.ResumeName != "Dana Smith" || a.JobTitle != "Backend Engineer" || a.Company != "Acme" {
		t.Fatalf("denormalized fields = %q / %q / %q", a.ResumeName, a.JobTitle, a.Company)
	}

	stored, err := f.svc.Get(context.Background(), "profile-1", a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.MatchScore != 72 {
		t.Fatalf("stored score = %v", stored.MatchScore)
	}
}

func TestServiceCreate_ContentNotReady(t *testing.T) {
	f := newServiceFixture(t, validScoreOutput)
	ctx := context.Background()
	if err := f.resumes.Create(ctx, resumes.Resume{
		ID: "res-2", ProfileID: "profile-1", StorageKey: "sk-1",
		FilePath: "sk-1/res-2/cv2.pdf", FileName: "cv2.pdf", Version: 2,
		Status: resumes.StatusPending,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := f.svc.Create(ctx, "profile-1", "res-2", "jd-1")
	if !errors.Is(err, ErrContentNotFound) {
		t.Fatalf("error = %v, want ErrContentNotFound", err)
	}
}

func TestServiceCreate_OwnershipChain(t *testing.T) {
	f := newServiceFixture(t, validScoreOutput)

	if _, err := f.svc.Create(context.Background(), "intruder", "res-1", "jd-1"); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("foreign resume: error = %v, want resumes.ErrNotFound", err)
	}

	ctx := context.Background()
	if err := f.jds.Create(ctx, jobdescriptions.JobDescription{ID: "jd-other", ProfileID: "someone-else"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.Create(ctx, "profile-1", "res-1", "jd-other"); !errors.Is(err, jobdescriptions.ErrNotFound) {
		t.Fatalf("foreign job description: error = %v, want jobdescriptions.ErrNotFound", err)
	}
}

func TestServiceCreate_LowConfidenceJobDescription(t *testing.T) {
	f := newServiceFixture(t, validScoreOutput)
	ctx := context.Background()
	confidence := 25.0
	if err := f.jds.Create(ctx, jobdescriptions.JobDescription{
		ID: "jd-low", ProfileID: "profile-1", Description: "maybe a job?",
		ConfidenceScore: &confidence,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := f.svc.Create(ctx, "profile-1", "res-1", "jd-low")
	if !errors.Is(err, jobdescriptions.ErrNotJobDescription) {
		t.Fatalf("error = %v, want ErrNotJobDescription", err)
	}
}

func TestServiceCreate_EngineFailureWritesNothing(t *testing.T) {
	f := newServiceFixture(t, `{"matchScore": 150, "summary": "s", "strengths": [], "gaps": [], "nextSteps": "n"}`)

	_, err := f.svc.Create(context.Background(), "profile-1", "res-1", "jd-1")
	if !errors.Is(err, ErrInvalidScoreRange) {
		t.Fatalf("error = %v, want ErrInvalidScoreRange", err)
	}
	if rows, _ := f.svc.List(context.Background(), "profile-1"); len(rows) != 0 {
		t.Fatal("failed analysis must not be stored")
	}
}
