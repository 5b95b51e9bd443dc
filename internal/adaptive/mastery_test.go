package adaptive

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUpdateMastery(t *testing.T) {
	tests := []struct {
		name     string
		old      float64
		accuracy float64
		expected float64
	}{
		{"perfect session from the middle", 0.5, 1.0, 0.65},
		{"failed session limits the drop", 0.8, 0.0, 0.56},
		{"perfect session limits the rise", 0.2, 1.0, 0.44},
		{"steady state", 0.6, 0.6, 0.6},
		{"from zero", 0.0, 1.0, 0.3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UpdateMastery(tc.old, tc.accuracy); !almostEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestUpdateMasteryClampsInputs(t *testing.T) {
	tests := []struct {
		name     string
		old      float64
		accuracy float64
		expected float64
	}{
		{"negative old mastery clamps before blending", -0.5, 1.0, 0.3},
		{"overshooting accuracy clamps before blending", 0.5, 1.5, 0.65},
		{"both out of range", -1.0, 2.0, 0.3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UpdateMastery(tc.old, tc.accuracy); !almostEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestUpdateMasteryStaysInUnitInterval(t *testing.T) {
	inputs := []float64{-10, -0.1, 0, 0.25, 0.5, 0.99, 1, 1.5, 10}
	for _, old := range inputs {
		for _, acc := range inputs {
			got := UpdateMastery(old, acc)
			if got < 0 || got > 1 {
				t.Fatalf("UpdateMastery(%v, %v) = %v, outside [0,1]", old, acc, got)
			}
		}
	}
}
