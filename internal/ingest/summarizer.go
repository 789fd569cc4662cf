package ingest

import (
	"context"
	"fmt"
	"strings"

	"cvmatch-backend/internal/llm"
)

const (
	summaryTemperature     = 0.4
	summaryMaxOutputTokens = 256
)

// Summarizer condenses a parsed résumé into a short professional summary.
// Output is treated as best-effort prose; the only check is non-emptiness.
type Summarizer struct {
	LLM llm.Client
}

// Summarize produces the condensed narrative summary.
func (s *Summarizer) Summarize(ctx context.Context, parsed StructuredResume) (string, error) {
	out, err := s.LLM.Generate(ctx, llm.GenerateRequest{
		Prompt:          buildSummaryPrompt(parsed),
		Temperature:     summaryTemperature,
		MaxOutputTokens: summaryMaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize resume: %w", err)
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", llm.ErrEmptyResponse
	}
	return summary, nil
}

func buildSummaryPrompt(parsed StructuredResume) string {
	var b strings.Builder
	b.WriteString("Write a professional summary of this candidate in 3-4 sentences. ")
	b.WriteString("Plain prose, third person, no headers or bullet points.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", parsed.Name)
	if len(parsed.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(parsed.Skills, ", "))
	}
	for _, exp := range parsed.Experiences {
		fmt.Fprintf(&b, "Experience: %s at %s (%s - %s)\n", exp.Title, exp.Company, exp.StartDate, exp.EndDate)
	}
	for _, edu := range parsed.Education {
		fmt.Fprintf(&b, "Education: %s, %s (%s)\n", edu.Degree, edu.Institution, edu.Year)
	}
	return b.String()
}
