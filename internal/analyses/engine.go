package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cvmatch-backend/internal/content"
	"cvmatch-backend/internal/llm"
)

const (
	scoreTemperature     = 0.2
	scoreMaxOutputTokens = 1024
)

// ScoreResult is the validated output of one scoring call.
type ScoreResult struct {
	MatchScore float64  `json:"matchScore"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	NextSteps  string   `json:"nextSteps"`
}

// Engine scores a résumé against a job description with one constrained
// text-generation call. The score is user-visible, so the output shape and
// numeric bounds are re-validated after JSON recovery and never coerced.
type Engine struct {
	LLM llm.Client
}

var requiredScoreKeys = []string{"matchScore", "summary", "strengths", "gaps", "nextSteps"}

// Score runs the scoring call and validates the result.
func (e *Engine) Score(ctx context.Context, jobTitle, jobDescription string, c content.ResumeContent) (ScoreResult, error) {
	out, err := e.LLM.Generate(ctx, llm.GenerateRequest{
		Prompt:          buildScorePrompt(jobTitle, jobDescription, c),
		Temperature:     scoreTemperature,
		MaxOutputTokens: scoreMaxOutputTokens,
	})
	if err != nil {
		return ScoreResult{}, fmt.Errorf("score resume: %w", err)
	}

	span, ok := llm.ExtractJSONSpan(out)
	if !ok {
		return ScoreResult{}, &llm.MalformedOutputError{Reason: "no JSON object found", Raw: out}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &keys); err != nil {
		return ScoreResult{}, &llm.MalformedOutputError{Reason: "invalid JSON: " + err.Error(), Raw: out}
	}
	for _, key := range requiredScoreKeys {
		if _, ok := keys[key]; !ok {
			return ScoreResult{}, &llm.MalformedOutputError{Reason: "missing required key " + key, Raw: out}
		}
	}

	var result ScoreResult
	if err := json.Unmarshal([]byte(span), &result); err != nil {
		return ScoreResult{}, &llm.MalformedOutputError{Reason: "wrong field types: " + err.Error(), Raw: out}
	}
	if result.MatchScore < 0 || result.MatchScore > 100 {
		return ScoreResult{}, fmt.Errorf("%w: %v", ErrInvalidScoreRange, result.MatchScore)
	}
	return result, nil
}

func buildScorePrompt(jobTitle, jobDescription string, c content.ResumeContent) string {
	var b strings.Builder
	b.WriteString("Score how well the candidate below matches the job description.\n\n")
	b.WriteString("Weighted rubric:\n")
	b.WriteString("- Skills match: 40%\n")
	b.WriteString("- Professional experience: 30%\n")
	b.WriteString("- Education and certifications: 15%\n")
	b.WriteString("- Domain knowledge and projects: 15%\n\n")
	b.WriteString("Experience rules:\n")
	b.WriteString("- Sum professional experience in months from the startDate/endDate pairs; treat \"Present\" as the current month.\n")
	b.WriteString("- Overlapping periods count once, not twice.\n")
	b.WriteString("- Report totals as decimal years (e.g. 30 months = 2.5 years).\n\n")
	b.WriteString("Respond with ONLY a JSON object, no prose, matching exactly this schema:\n")
	b.WriteString(`{"matchScore": <number 0-100>, "summary": "<2-3 sentence assessment>", "strengths": ["...", ...], "gaps": ["...", ...], "nextSteps": "<concrete advice for the candidate>"}`)

	b.WriteString("\n\nJob title: ")
	b.WriteString(jobTitle)
	b.WriteString("\nJob description:\n")
	b.WriteString(jobDescription)

	b.WriteString("\n\nCandidate: ")
	b.WriteString(c.Name)
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "\nSkills: %s", strings.Join(c.Skills, ", "))
	}
	for _, exp := range c.Experiences {
		fmt.Fprintf(&b, "\nExperience: %s at %s (%s - %s): %s", exp.Title, exp.Company, exp.StartDate, exp.EndDate, exp.Description)
	}
	for _, edu := range c.Education {
		fmt.Fprintf(&b, "\nEducation: %s, %s (%s)", edu.Degree, edu.Institution, edu.Year)
	}
	for _, cert := range c.Certifications {
		fmt.Fprintf(&b, "\nCertification: %s (%s, %s)", cert.Name, cert.Issuer, cert.Year)
	}
	for _, proj := range c.Projects {
		fmt.Fprintf(&b, "\nProject: %s (%s): %s", proj.Name, proj.Technology, proj.Description)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "\nSummary: %s", c.Summary)
	}
	return b.String()
}
