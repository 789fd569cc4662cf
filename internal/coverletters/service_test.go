package coverletters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cvmatch-backend/internal/analyses"
	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/jobdescriptions"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/resumes"
)

// scriptedLLM fails a fixed number of times before succeeding.
type scriptedLLM struct {
	failures int
	output   string
	calls    int
}

func (f *scriptedLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("transient upstream failure")
	}
	return f.output, nil
}

func newLetterService(t *testing.T, client llm.Client) *Service {
	t.Helper()
	resumeRepo := resumes.NewMemoryRepo()
	jdRepo := jobdescriptions.NewMemoryRepo()
	contentRepo := content.NewMemoryRepo()
	analysisRepo := analyses.NewMemoryRepo()

	ctx := context.Background()
	if err := resumeRepo.Create(ctx, resumes.Resume{
		ID: "res-1", ProfileID: "profile-1", StorageKey: "sk-1",
		FilePath: "sk-1/res-1/cv.pdf", FileName: "cv.pdf", Version: 1,
		Status: resumes.StatusProcessed,
	}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	if err := jdRepo.Create(ctx, jobdescriptions.JobDescription{
		ID: "jd-1", ProfileID: "profile-1", Title: "Backend Engineer", Company: "Acme",
		Description: "Go services.",
	}); err != nil {
		t.Fatalf("seed job description: %v", err)
	}
	if err := contentRepo.Upsert(ctx, content.ResumeContent{
		ID: "c-1", ResumeID: "res-1", Name: "Dana Smith", Skills: []string{"Go"},
	}); err != nil {
		t.Fatalf("seed content: %v", err)
	}
	if err := analysisRepo.Create(ctx, analyses.Analysis{
		ID: "an-1", ProfileID: "profile-1", ResumeID: "res-1", JobDescriptionID: "jd-1",
		Strengths: []string{"strong Go background"},
	}); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}

	svc := &Service{
		Repo:            NewMemoryRepo(),
		Resumes:         resumeRepo,
		JobDescriptions: jdRepo,
		Contents:        contentRepo,
		Analyses:        analysisRepo,
		LLM:             client,
	}
	svc.SetSleep(func(time.Duration) {})
	return svc
}

func TestGenerate_StoresLetterWithPreview(t *testing.T) {
	letterText := "Dana Smith is excited to apply. " + strings.Repeat("More detail. ", 40)
	svc := newLetterService(t, &scriptedLLM{output: letterText})

	letter, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1", AnalysisID: "an-1",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(letter.Content, "Dana Smith") {
		t.Fatalf("letter must lead with the candidate name, got %q", letter.Content[:40])
	}
	if letter.Preview == "" || len([]rune(letter.Preview)) > previewRuneLimit+3 {
		t.Fatalf("preview length = %d", len([]rune(letter.Preview)))
	}
	if !strings.HasPrefix(letter.Content, strings.TrimSuffix(letter.Preview, "...")) {
		t.Fatal("preview must be a prefix of the content")
	}
}

func TestGenerate_RetriesWithExponentialBackoff(t *testing.T) {
	svc := newLetterService(t, &scriptedLLM{failures: 2, output: "Dana Smith writes..."})
	var waits []time.Duration
	svc.SetSleep(func(d time.Duration) { waits = append(waits, d) })

	_, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(waits) != 2 {
		t.Fatalf("waits = %v, want two backoff sleeps", waits)
	}
	if waits[0] < time.Second || waits[1] < 2*time.Second {
		t.Fatalf("backoff = %v, want >=1s then >=2s", waits)
	}
}

func TestGenerate_ExhaustedRetries(t *testing.T) {
	client := &scriptedLLM{failures: 10}
	svc := newLetterService(t, client)

	_, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1",
	})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 1 attempt + 2 retries", client.calls)
	}
	if rows, _ := svc.List(context.Background(), "profile-1"); len(rows) != 0 {
		t.Fatal("failed generation must not store a letter")
	}
}

func TestGenerate_EmptyOutputCountsAsFailure(t *testing.T) {
	svc := newLetterService(t, &fakeConstLLM{output: "   "})

	_, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1",
	})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("error = %v, want the last cause wrapped", err)
	}
}

func TestGenerate_MissingCandidateName(t *testing.T) {
	svc := newLetterService(t, &scriptedLLM{output: "text"})
	if err := svc.Contents.Upsert(context.Background(), content.ResumeContent{
		ID: "c-1", ResumeID: "res-1", Name: "  ",
	}); err != nil {
		t.Fatalf("reseed content: %v", err)
	}

	_, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1",
	})
	if !errors.Is(err, ErrMissingCandidateName) {
		t.Fatalf("error = %v, want ErrMissingCandidateName", err)
	}
}

func TestGenerate_CustomNotesLandInPrompt(t *testing.T) {
	capture := &promptCaptureLLM{output: "Dana Smith writes..."}
	svc := newLetterService(t, capture)

	_, err := svc.Generate(context.Background(), "profile-1", GenerateInput{
		ResumeID: "res-1", JobDescriptionID: "jd-1", CustomNotes: "mention the relocation to Berlin",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(capture.prompt, "mention the relocation to Berlin") {
		t.Fatal("custom notes must appear in the prompt")
	}
	if !strings.Contains(capture.prompt, "mandatory") {
		t.Fatal("custom notes must be framed as mandatory constraints")
	}
}

type fakeConstLLM struct{ output string }

func (f *fakeConstLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	return f.output, nil
}

type promptCaptureLLM struct {
	output string
	prompt string
}

func (f *promptCaptureLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.prompt = req.Prompt
	return f.output, nil
}
