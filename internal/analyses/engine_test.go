package analyses

import (
	"context"
	"errors"
	"testing"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/llm"
)

type fakeLLM struct {
	output string
	err    error
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	return f.output, f.err
}

func sampleContent() content.ResumeContent {
	return content.ResumeContent{
		ResumeID: "res-1",
		Name:     "Dana Smith",
		Skills:   []string{"Go", "PostgreSQL"},
		Experiences: []content.Experience{
			{Title: "Engineer", Company: "Acme", StartDate: "2020-01", EndDate: "Present"},
		},
	}
}

func TestScore_ValidOutput(t *testing.T) {
	e := &Engine{LLM: &fakeLLM{output: "```json\n" + `{
		"matchScore": 78.5,
		"summary": "Strong backend match.",
		"strengths": ["Go", "database experience"],
		"gaps": ["no Kubernetes"],
		"nextSteps": "Get hands-on with container orchestration."
	}` + "\n```"}}

	result, err := e.Score(context.Background(), "Backend Engineer", "We need Go.", sampleContent())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.MatchScore != 78.5 {
		t.Fatalf("score = %v", result.MatchScore)
	}
	if len(result.Strengths) != 2 || len(result.Gaps) != 1 {
		t.Fatalf("strengths = %v, gaps = %v", result.Strengths, result.Gaps)
	}
	if result.Summary == "" || result.NextSteps == "" {
		t.Fatal("summary and nextSteps must be populated")
	}
}

func TestScore_OutOfRangeScore(t *testing.T) {
	for _, score := range []string{"150", "-5", "100.01"} {
		e := &Engine{LLM: &fakeLLM{output: `{"matchScore": ` + score + `, "summary": "s", "strengths": [], "gaps": [], "nextSteps": "n"}`}}
		_, err := e.Score(context.Background(), "t", "d", sampleContent())
		if !errors.Is(err, ErrInvalidScoreRange) {
			t.Fatalf("score %s: error = %v, want ErrInvalidScoreRange", score, err)
		}
	}
}

func TestScore_MalformedOutput(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"non-numeric score", `{"matchScore": "high", "summary": "s", "strengths": [], "gaps": [], "nextSteps": "n"}`},
		{"missing key", `{"matchScore": 80, "summary": "s", "strengths": [], "gaps": []}`},
		{"strengths not an array", `{"matchScore": 80, "summary": "s", "strengths": "Go", "gaps": [], "nextSteps": "n"}`},
		{"no json", "the candidate looks great"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &Engine{LLM: &fakeLLM{output: tc.output}}
			_, err := e.Score(context.Background(), "t", "d", sampleContent())
			if !errors.Is(err, llm.ErrMalformedOutput) {
				t.Fatalf("error = %v, want ErrMalformedOutput", err)
			}
			if errors.Is(err, ErrInvalidScoreRange) {
				t.Fatal("shape errors must not read as range errors")
			}
		})
	}
}

func TestScore_BoundaryValuesAccepted(t *testing.T) {
	for _, score := range []string{"0", "100"} {
		e := &Engine{LLM: &fakeLLM{output: `{"matchScore": ` + score + `, "summary": "s", "strengths": [], "gaps": [], "nextSteps": "n"}`}}
		if _, err := e.Score(context.Background(), "t", "d", sampleContent()); err != nil {
			t.Fatalf("score %s: %v", score, err)
		}
	}
}
