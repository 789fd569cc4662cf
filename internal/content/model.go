package content

import "time"

// ResumeContent is the structured representation derived from a résumé file.
// At most one live row exists per résumé id; only the extraction orchestrator
// writes it.
type ResumeContent struct {
	ID             string
	ResumeID       string
	Name           string
	Email          string
	Phone          string
	Skills         []string
	Experiences    []Experience
	Education      []Education
	Certifications []Certification
	Projects       []Project
	Summary        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Experience is one professional engagement.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education is one degree or program.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Certification is one professional certification.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Project is one notable project.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Technology  string `json:"technology"`
}
