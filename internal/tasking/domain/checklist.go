package domain

import "math"

// ComputeProgress computes the completion percentage of a checklist and
// the status that percentage implies. Progress is round-half-up; an
// empty checklist is 0. The derived status follows the three-way rule:
// 100 is Completed, 0 is Pending, anything between is In-Progress.
func ComputeProgress(checklist []ChecklistItem) (int, Status) {
	total := len(checklist)
	if total == 0 {
		return 0, StatusPending
	}

	completed := 0
	for _, item := range checklist {
		if item.Completed {
			completed++
		}
	}

	progress := int(math.Round(100 * float64(completed) / float64(total)))

	switch progress {
	case 100:
		return progress, StatusCompleted
	case 0:
		return progress, StatusPending
	default:
		return progress, StatusInProgress
	}
}
