package main

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"cvmatch-backend/internal/bootstrap"
	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/ingest"
	"cvmatch-backend/internal/llm"
	"cvmatch-backend/internal/resumes"
	localstore "cvmatch-backend/internal/shared/storage/object/local"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type scriptedLLM struct{}

func (scriptedLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	if strings.Contains(req.Prompt, "Extract structured data") {
		return `{"name": "Dana Smith", "email": "", "phone": "", "skills": ["Go"], "experiences": [], "education": [], "certifications": [], "projects": []}`, nil
	}
	return "Dana Smith is an engineer.", nil
}

func testApp(t *testing.T) *bootstrap.App {
	t.Helper()
	store := localstore.New(t.TempDir())
	resumeRepo := resumes.NewMemoryRepo()
	contentRepo := content.NewMemoryRepo()
	return &bootstrap.App{
		Store:        store,
		ResumesRepo:  resumeRepo,
		ContentsRepo: contentRepo,
		Orchestrator: &ingest.Orchestrator{
			Resumes:    resumeRepo,
			Contents:   contentRepo,
			Store:      store,
			Parser:     &ingest.Parser{LLM: scriptedLLM{}},
			Summarizer: &ingest.Summarizer{LLM: scriptedLLM{}},
		},
	}
}

func TestHandleMessage_UndecodableBodyIsDeleted(t *testing.T) {
	app := testApp(t)
	client := &fakeSQS{}

	handleMessage(context.Background(), app, client, "queue-url", sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String("not json"),
	})

	if len(client.deleted) != 1 {
		t.Fatalf("deleted = %v, undecodable payloads must be discarded", client.deleted)
	}
}

func TestHandleMessage_ProcessesObjectAndDeletes(t *testing.T) {
	app := testApp(t)
	client := &fakeSQS{}
	ctx := context.Background()

	objectKey := "sk-1/res-1/resume.txt"
	if err := app.ResumesRepo.Create(ctx, resumes.Resume{
		ID: "res-1", ProfileID: "p1", StorageKey: "sk-1",
		FilePath: objectKey, FileName: "resume.txt", Version: 1,
		Status: resumes.StatusPending,
	}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	if _, err := app.Store.Put(ctx, objectKey, "text/plain", strings.NewReader("Dana Smith, engineer.")); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	body := `{"Records": [{"eventName": "ObjectCreated:Put", "s3": {"object": {"key": "sk-1/res-1/resume.txt"}}}]}`
	handleMessage(ctx, app, client, "queue-url", sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(body),
	})

	if len(client.deleted) != 1 {
		t.Fatalf("deleted = %v, processed messages must be removed", client.deleted)
	}
	resume, err := app.ResumesRepo.GetByID(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if resume.Status != resumes.StatusProcessed {
		t.Fatalf("status = %q, want processed", resume.Status)
	}
}

func TestHandleMessage_TransientFailureLeavesMessage(t *testing.T) {
	app := testApp(t)
	client := &fakeSQS{}
	ctx := context.Background()

	// Resume row exists but the object was never written, so the download
	// fails. Redelivery should retry it.
	objectKey := "sk-1/res-9/resume.txt"
	if err := app.ResumesRepo.Create(ctx, resumes.Resume{
		ID: "res-9", ProfileID: "p1", StorageKey: "sk-1",
		FilePath: objectKey, FileName: "resume.txt", Version: 1,
		Status: resumes.StatusPending,
	}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	body := `{"Records": [{"eventName": "ObjectCreated:Put", "s3": {"object": {"key": "sk-1/res-9/resume.txt"}}}]}`
	handleMessage(ctx, app, client, "queue-url", sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String(body),
	})

	if len(client.deleted) != 0 {
		t.Fatalf("deleted = %v, transient failures must leave the message for redelivery", client.deleted)
	}
}
