package analyses

import "time"

// Analysis is one scored comparison of a résumé against a job description.
// Rows are append-only; display fields are denormalized at creation time so
// the row stays readable after the source entities change or disappear.
type Analysis struct {
	ID               string
	ProfileID        string
	ResumeID         string
	JobDescriptionID string
	ResumeName       string
	JobTitle         string
	Company          string
	MatchScore       float64
	Summary          string
	Strengths        []string
	Gaps             []string
	NextSteps        string
	CreatedAt        time.Time
}
