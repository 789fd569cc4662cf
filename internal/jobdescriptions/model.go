package jobdescriptions

import "time"

// JobDescription is validated free text owned by a profile. Rows exist only
// for text the validator accepted.
type JobDescription struct {
	ID              string
	ProfileID       string
	Title           string
	Company         string
	Description     string
	ConfidenceScore *float64
	CreatedAt       time.Time
}

// Classification is the validator's verdict on a piece of text. It reports
// only; acceptance policy belongs to the caller.
type Classification struct {
	IsJobDescription bool
	ConfidenceScore  *float64
	JobTitle         string
}
