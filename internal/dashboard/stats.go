package dashboard

import (
	"math"

	"portal-client/internal/analyses"
)

// HoursSavedPerDocument is the estimate used for the time-saved figure.
const HoursSavedPerDocument = 2

// Stats are the headline numbers rendered above the document list.
type Stats struct {
	TotalDocuments int
	AverageScore   int
	TimeSavedHours int
}

// ComputeStats derives the dashboard summary from an envelope. The
// average covers completed analyses with a positive score, rounded to
// the nearest integer; zero when none qualify.
func ComputeStats(env Envelope) Stats {
	s := Stats{
		TotalDocuments: len(env.Documents),
		TimeSavedHours: len(env.Documents) * HoursSavedPerDocument,
	}
	var sum, n int
	for _, a := range env.Analyses {
		if a.Status != analyses.StatusCompleted {
			continue
		}
		if a.Score == nil || *a.Score <= 0 {
			continue
		}
		sum += *a.Score
		n++
	}
	if n > 0 {
		s.AverageScore = int(math.Round(float64(sum) / float64(n)))
	}
	return s
}
