package leads

import "strings"

// Priority thresholds.
const (
	highThreshold     = 70
	mediumThreshold   = 45
	standardThreshold = 20
)

// Score computes a lead's score and priority tier from its attributes
// alone. It is a pure function: it never mutates the lead, and two calls
// on an unchanged lead always agree.
//
// Points are additive across independent signals: company name 10, fleet
// size up to 25 (banded), growth 10, timeline up to 25 (keyed on urgency
// phrases), budget 15, EV interest 10, incumbent provider 5.
func Score(l *Lead) (int, Priority) {
	score := 0

	if l.CompanyName != "" {
		score += 10
	}

	if l.CurrentFleetSize != nil {
		switch fleet := *l.CurrentFleetSize; {
		case fleet >= 100:
			score += 25
		case fleet >= 50:
			score += 20
		case fleet >= 20:
			score += 15
		case fleet >= 10:
			score += 10
		default:
			score += 5
		}
	}

	if l.ProjectedFleetSize != nil {
		current := 0
		if l.CurrentFleetSize != nil {
			current = *l.CurrentFleetSize
		}
		if *l.ProjectedFleetSize > current {
			score += 10
		}
	}

	if l.Timeline != "" {
		timeline := strings.ToLower(l.Timeline)
		switch {
		case strings.Contains(timeline, "immediate"),
			strings.Contains(timeline, "asap"),
			strings.Contains(timeline, "within 1 month"):
			score += 25
		case strings.Contains(timeline, "1-3 month"):
			score += 20
		case strings.Contains(timeline, "3-6 month"):
			score += 15
		case strings.Contains(timeline, "6-12 month"):
			score += 10
		default:
			score += 5
		}
	}

	if l.BudgetRange != "" {
		score += 15
	}

	if l.EVInterest {
		score += 10
	}

	if l.CurrentProvider != "" {
		score += 5
	}

	return score, priorityFor(score)
}

func priorityFor(score int) Priority {
	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	case score >= standardThreshold:
		return PriorityStandard
	}
	return PriorityLow
}
