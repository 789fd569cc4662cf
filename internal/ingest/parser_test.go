package ingest

import (
	"context"
	"errors"
	"testing"

	"cvmatch-backend/internal/llm"
)

// fakeLLM returns canned responses keyed by a matcher over the prompt, or a
// single response for everything.
type fakeLLM struct {
	respond func(prompt string) (string, error)
	calls   int
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.calls++
	return f.respond(req.Prompt)
}

const validParseOutput = `{
  "name": "Dana Smith",
  "email": "dana@example.com",
  "phone": "",
  "skills": ["Go", "PostgreSQL"],
  "experiences": [{"title": "Engineer", "company": "Acme", "startDate": "2020-01", "endDate": "Present", "description": "Built services"}],
  "education": [{"degree": "BSc", "institution": "State U", "year": "2019"}],
  "certifications": [],
  "projects": []
}`

func TestParse_ValidOutput(t *testing.T) {
	p := &Parser{LLM: &fakeLLM{respond: func(string) (string, error) {
		return "Sure, here it is:\n```json\n" + validParseOutput + "\n```", nil
	}}}

	parsed, err := p.Parse(context.Background(), "raw resume text")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Name != "Dana Smith" {
		t.Fatalf("name = %q, want Dana Smith", parsed.Name)
	}
	if len(parsed.Skills) != 2 || parsed.Skills[0] != "Go" {
		t.Fatalf("skills = %v", parsed.Skills)
	}
	if len(parsed.Experiences) != 1 || parsed.Experiences[0].Company != "Acme" {
		t.Fatalf("experiences = %+v", parsed.Experiences)
	}
}

func TestParse_MalformedOutput(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"no json at all", "I cannot help with that."},
		{"truncated object", `{"name": "Dana", "email":`},
		{"missing required key", `{"name": "Dana", "email": "", "phone": "", "skills": [], "experiences": [], "education": [], "certifications": []}`},
		{"wrong field type", `{"name": "Dana", "email": "", "phone": "", "skills": "Go", "experiences": [], "education": [], "certifications": [], "projects": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Parser{LLM: &fakeLLM{respond: func(string) (string, error) {
				return tc.output, nil
			}}}
			_, err := p.Parse(context.Background(), "raw resume text")
			if !errors.Is(err, llm.ErrMalformedOutput) {
				t.Fatalf("Parse error = %v, want ErrMalformedOutput", err)
			}
			var malformed *llm.MalformedOutputError
			if !errors.As(err, &malformed) {
				t.Fatalf("Parse error = %v, want *MalformedOutputError", err)
			}
			if malformed.Raw != tc.output {
				t.Fatalf("Raw = %q, want the full model output", malformed.Raw)
			}
		})
	}
}

func TestParse_ProviderError(t *testing.T) {
	providerErr := errors.New("rate limited")
	p := &Parser{LLM: &fakeLLM{respond: func(string) (string, error) {
		return "", providerErr
	}}}
	_, err := p.Parse(context.Background(), "raw resume text")
	if !errors.Is(err, providerErr) {
		t.Fatalf("Parse error = %v, want wrapped provider error", err)
	}
	if errors.Is(err, llm.ErrMalformedOutput) {
		t.Fatal("provider errors must not be reported as malformed output")
	}
}

func TestSummarize_EmptyOutput(t *testing.T) {
	s := &Summarizer{LLM: &fakeLLM{respond: func(string) (string, error) {
		return "   \n", nil
	}}}
	_, err := s.Summarize(context.Background(), StructuredResume{Name: "Dana Smith"})
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("Summarize error = %v, want ErrEmptyResponse", err)
	}
}
