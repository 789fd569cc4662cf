package resumes

import "time"

// EffectiveStatus computes the status shown to callers. Within the grace
// window the stored status is reported as-is because extraction may still be
// in flight. After the window, presence of content decides: content means
// processed regardless of what the worker managed to write, and a résumé
// still pending or processing is surfaced as failed so stuck jobs become
// visible without a push signal from the orchestrator.
func EffectiveStatus(createdAt time.Time, stored string, contentExists bool, now time.Time, grace time.Duration) string {
	if now.Sub(createdAt) < grace {
		return stored
	}
	if contentExists {
		return StatusProcessed
	}
	if stored == StatusPending || stored == StatusProcessing {
		return StatusFailed
	}
	return stored
}
