package jobdescriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cvmatch-backend/internal/llm"
)

const (
	validateTemperature     = 0.0
	validateMaxOutputTokens = 128
)

// Validator classifies arbitrary text as job description or not. It reports
// the classification; whether a given confidence is good enough belongs to
// the caller.
type Validator struct {
	LLM llm.Client
}

type classifierOutput struct {
	IsJobDescription *bool    `json:"isJobDescription"`
	ConfidenceScore  *float64 `json:"confidenceScore"`
	JobTitle         string   `json:"jobTitle"`
}

// Validate runs one classification call over the text. An unparseable model
// response surfaces as ErrValidationUnavailable so callers can distinguish a
// broken classifier from a rejected text.
func (v *Validator) Validate(ctx context.Context, text string) (Classification, error) {
	out, err := v.LLM.Generate(ctx, llm.GenerateRequest{
		Prompt:          buildValidatePrompt(text),
		Temperature:     validateTemperature,
		MaxOutputTokens: validateMaxOutputTokens,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrValidationUnavailable, err)
	}

	span, ok := llm.ExtractJSONSpan(out)
	if !ok {
		return Classification{}, fmt.Errorf("%w: no JSON object in output", ErrValidationUnavailable)
	}
	var parsed classifierOutput
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrValidationUnavailable, err)
	}
	if parsed.IsJobDescription == nil {
		return Classification{}, fmt.Errorf("%w: missing isJobDescription", ErrValidationUnavailable)
	}

	return Classification{
		IsJobDescription: *parsed.IsJobDescription,
		ConfidenceScore:  parsed.ConfidenceScore,
		JobTitle:         strings.TrimSpace(parsed.JobTitle),
	}, nil
}

func buildValidatePrompt(text string) string {
	var b strings.Builder
	b.WriteString("Decide whether the text below is a job description.\n\n")
	b.WriteString("Respond with ONLY a JSON object, no prose:\n")
	b.WriteString(`{"isJobDescription": true|false, "confidenceScore": 0-100, "jobTitle": "title if identifiable, else empty string"}`)
	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	return b.String()
}
