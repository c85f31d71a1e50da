package leadstore

import (
	"context"

	"github.com/jonathan/lead-intel/internal/types"
)

// Stats summarizes the collection for the admin dashboard.
type Stats struct {
	Total          int     `json:"total"`
	HighPriority   int     `json:"high_priority"`
	MediumPriority int     `json:"medium_priority"`
	LowPriority    int     `json:"low_priority"`
	InPipeline     int     `json:"in_pipeline"`
	AverageScore   float64 `json:"average_score"`
}

// Stats computes priority counts and the mean score.
func (s *Store) Stats(ctx context.Context) Stats {
	return ComputeStats(s.GetLeads(ctx))
}

// ComputeStats summarizes leads. InPipeline counts every lead not marked LOW.
// AverageScore is 0 for an empty slice.
func ComputeStats(leads []types.PersistedLead) Stats {
	var st Stats
	var sum int
	for _, lead := range leads {
		st.Total++
		sum += lead.Score
		switch lead.Priority {
		case types.PriorityHigh:
			st.HighPriority++
		case types.PriorityMedium:
			st.MediumPriority++
		case types.PriorityLow:
			st.LowPriority++
		}
		if lead.Priority != types.PriorityLow {
			st.InPipeline++
		}
	}
	if st.Total > 0 {
		st.AverageScore = float64(sum) / float64(st.Total)
	}
	return st
}
