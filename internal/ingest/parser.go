package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/llm"
)

const (
	parseTemperature     = 0.1
	parseMaxOutputTokens = 2048
)

// StructuredResume is the fixed shape the parser demands from the model.
type StructuredResume struct {
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone"`
	Skills         []string                `json:"skills"`
	Experiences    []content.Experience    `json:"experiences"`
	Education      []content.Education     `json:"education"`
	Certifications []content.Certification `json:"certifications"`
	Projects       []content.Project       `json:"projects"`
}

// Parser turns raw résumé text into a StructuredResume via one
// text-generation call. Model output is untrusted: JSON is recovered with an
// explicit span scanner and required keys are checked before anything is
// returned.
type Parser struct {
	LLM llm.Client
}

var requiredParseKeys = []string{"name", "email", "phone", "skills", "experiences", "education", "certifications", "projects"}

// Parse extracts structured content from raw résumé text.
func (p *Parser) Parse(ctx context.Context, rawText string) (StructuredResume, error) {
	out, err := p.LLM.Generate(ctx, llm.GenerateRequest{
		Prompt:          buildParsePrompt(rawText),
		Temperature:     parseTemperature,
		MaxOutputTokens: parseMaxOutputTokens,
	})
	if err != nil {
		return StructuredResume{}, fmt.Errorf("parse resume: %w", err)
	}

	span, ok := llm.ExtractJSONSpan(out)
	if !ok {
		return StructuredResume{}, &llm.MalformedOutputError{Reason: "no JSON object found", Raw: out}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &keys); err != nil {
		return StructuredResume{}, &llm.MalformedOutputError{Reason: "invalid JSON: " + err.Error(), Raw: out}
	}
	for _, key := range requiredParseKeys {
		if _, ok := keys[key]; !ok {
			return StructuredResume{}, &llm.MalformedOutputError{Reason: "missing required key " + key, Raw: out}
		}
	}

	var parsed StructuredResume
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return StructuredResume{}, &llm.MalformedOutputError{Reason: "wrong field types: " + err.Error(), Raw: out}
	}
	return parsed, nil
}

func buildParsePrompt(rawText string) string {
	var b strings.Builder
	b.WriteString("Extract structured data from the resume below.\n\n")
	b.WriteString("Respond with ONLY a JSON object, no prose, matching exactly this schema:\n")
	b.WriteString(`{
  "name": "candidate full name",
  "email": "email or empty string",
  "phone": "phone or empty string",
  "skills": ["skill", ...],
  "experiences": [{"title": "", "company": "", "startDate": "YYYY-MM", "endDate": "YYYY-MM or Present", "description": ""}, ...],
  "education": [{"degree": "", "institution": "", "year": ""}, ...],
  "certifications": [{"name": "", "issuer": "", "year": ""}, ...],
  "projects": [{"name": "", "description": "", "technology": ""}, ...]
}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Keep every description under 40 words.\n")
	b.WriteString("- List at most 25 skills, ordered by prominence in the resume.\n")
	b.WriteString("- Use empty strings or empty arrays for missing data; never invent values.\n")
	b.WriteString("\nResume:\n")
	b.WriteString(rawText)
	return b.String()
}
