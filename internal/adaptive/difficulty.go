// Package adaptive holds the practice-session control loop: the bounded
// difficulty knob and the smoothed mastery estimate. Both functions are
// pure; callers persist the returned values.
package adaptive

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

func clampDifficulty(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}

// NextDifficulty applies the consecutive-run rule after each answer.
// recentAnswers is ordered most recent first. Only the latest two answers
// matter: both correct steps up, both wrong steps down, a mixed pair holds.
// Ignoring older history keeps stale runs from dragging the level around.
func NextDifficulty(current int, recentAnswers []bool) int {
	current = clampDifficulty(current)
	if len(recentAnswers) < 2 {
		return current
	}
	latest, previous := recentAnswers[0], recentAnswers[1]
	switch {
	case latest && previous:
		return clampDifficulty(current + 1)
	case !latest && !previous:
		return clampDifficulty(current - 1)
	default:
		return current
	}
}

// StartingDifficulty maps a mastery estimate to the level a new session
// should open at. Mastery is clamped to [0,1] before banding.
func StartingDifficulty(mastery float64) int {
	switch m := clamp01(mastery); {
	case m < 0.2:
		return 1
	case m < 0.4:
		return 2
	case m < 0.6:
		return 3
	case m < 0.8:
		return 4
	default:
		return 5
	}
}
