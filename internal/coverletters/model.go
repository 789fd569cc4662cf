package coverletters

import (
	"strings"
	"time"
)

// CoverLetter is a generated letter owned by a profile. Content is prose and
// never re-parsed; the preview is a stored prefix for list views.
type CoverLetter struct {
	ID               string
	ProfileID        string
	ResumeID         string
	JobDescriptionID string
	AnalysisID       string
	Content          string
	Preview          string
	CustomNotes      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const previewRuneLimit = 200

// previewOf derives the stored list-view prefix from the full letter.
func previewOf(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= previewRuneLimit {
		return trimmed
	}
	return string(runes[:previewRuneLimit]) + "..."
}
