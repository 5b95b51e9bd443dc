package adaptive

import "testing"

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		answers  []bool
		expected int
	}{
		{"no answers yet", 3, nil, 3},
		{"one answer is not a run", 3, []bool{true}, 3},
		{"two correct steps up", 3, []bool{true, true}, 4},
		{"two wrong steps down", 3, []bool{false, false}, 2},
		{"mixed pair holds", 3, []bool{true, false}, 3},
		{"mixed pair holds either way", 3, []bool{false, true}, 3},
		{"clamps at the top", 5, []bool{true, true}, 5},
		{"clamps at the bottom", 1, []bool{false, false}, 1},
		{"older history is ignored", 3, []bool{true, true, false, false, false}, 4},
		{"out-of-range current clamps first", 9, []bool{true, false}, 5},
		{"zero current clamps up", 0, nil, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextDifficulty(tc.current, tc.answers); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestNextDifficultyStaysBounded(t *testing.T) {
	runs := [][]bool{
		{true, true}, {false, false}, {true, false}, {false, true}, nil,
	}
	for current := -2; current <= 8; current++ {
		for _, answers := range runs {
			got := NextDifficulty(current, answers)
			if got < MinDifficulty || got > MaxDifficulty {
				t.Fatalf("NextDifficulty(%d, %v) = %d, outside [%d,%d]",
					current, answers, got, MinDifficulty, MaxDifficulty)
			}
		}
	}
}

func TestStartingDifficulty(t *testing.T) {
	tests := []struct {
		mastery  float64
		expected int
	}{
		{0.0, 1},
		{0.19, 1},
		{0.2, 2},
		{0.39, 2},
		{0.4, 3},
		{0.59, 3},
		{0.6, 4},
		{0.79, 4},
		{0.8, 5},
		{1.0, 5},
		{-0.5, 1},
		{1.7, 5},
	}

	for _, tc := range tests {
		if got := StartingDifficulty(tc.mastery); got != tc.expected {
			t.Errorf("StartingDifficulty(%v): expected %d, got %d", tc.mastery, tc.expected, got)
		}
	}
}
