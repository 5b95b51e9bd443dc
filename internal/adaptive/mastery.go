package adaptive

// Smoothing weights for the mastery update. 70/30 limits the swing any
// single session can cause: a failed session from 0.8 lands at 0.56, a
// perfect one from 0.2 lands at 0.44.
const (
	masteryCarryWeight    = 0.7
	sessionAccuracyWeight = 0.3
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// UpdateMastery blends the previous estimate with the completed session's
// accuracy. Both inputs are clamped to [0,1] before blending; upstream data
// can be stale or racy and an out-of-range value must not crash or escape
// the unit interval.
func UpdateMastery(oldMastery, sessionAccuracy float64) float64 {
	blended := clamp01(oldMastery)*masteryCarryWeight + clamp01(sessionAccuracy)*sessionAccuracyWeight
	return clamp01(blended)
}
