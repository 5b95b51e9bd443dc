package worker

import "testing"

func TestCrossedMasteryBand(t *testing.T) {
	tests := []struct {
		name       string
		oldMastery float64
		newMastery float64
		expected   bool
	}{
		{"no movement", 0.5, 0.5, false},
		{"gain within same band", 0.41, 0.55, false},
		{"crosses one band up", 0.55, 0.65, true},
		{"crosses two bands up", 0.1, 0.65, true},
		{"drops a band", 0.65, 0.55, false},
		{"edge of band counts as crossed", 0.55, 0.6, true},
		{"zero to first band", 0.0, 0.2, true},
		{"into top band", 0.75, 0.85, true},
		{"already in top band", 0.85, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := crossedMasteryBand(tt.oldMastery, tt.newMastery)
			if result != tt.expected {
				t.Errorf("crossedMasteryBand(%v, %v) = %v, expected %v",
					tt.oldMastery, tt.newMastery, result, tt.expected)
			}
		})
	}
}
