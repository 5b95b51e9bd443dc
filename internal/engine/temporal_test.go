package engine

import (
	"testing"
	"time"

	"mentora-backend/internal/models"
)

var testNow = time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func TestSessionRecencyScore(t *testing.T) {
	tests := []struct {
		name     string
		last     *time.Time
		expected int
	}{
		{"nil timestamp", nil, 0},
		{"30 minutes ago", ago(30 * time.Minute), 30},
		{"exactly 60 minutes", ago(60 * time.Minute), 30},
		{"90 minutes ago", ago(90 * time.Minute), 20},
		{"3 hours ago", ago(3 * time.Hour), 10},
		{"12 hours ago", ago(12 * time.Hour), 5},
		{"exactly 24 hours", ago(24 * time.Hour), 5},
		{"2 days ago", ago(48 * time.Hour), 0},
		{"future timestamp clamps to now", ago(-10 * time.Minute), 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionRecencyScore(testNow, tc.last); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestInactivityBonusAndPenalty(t *testing.T) {
	tests := []struct {
		name            string
		access          *time.Time
		expectedBonus   int
		expectedPenalty int
	}{
		{"nil timestamp", nil, 0, 0},
		{"2 hours ago", ago(2 * time.Hour), 0, 0},
		{"exactly 1 day", ago(24 * time.Hour), 20, 5},
		{"2 days ago", ago(48 * time.Hour), 20, 5},
		{"exactly 3 days", ago(72 * time.Hour), 40, 10},
		{"4 days ago", ago(4 * 24 * time.Hour), 40, 10},
		{"10 days ago, no extra credit", ago(10 * 24 * time.Hour), 40, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InactivityBonus(testNow, tc.access); got != tc.expectedBonus {
				t.Errorf("InactivityBonus: expected %d, got %d", tc.expectedBonus, got)
			}
			if got := InactivityPenalty(testNow, tc.access); got != tc.expectedPenalty {
				t.Errorf("InactivityPenalty: expected %d, got %d", tc.expectedPenalty, got)
			}
		})
	}
}

func achievementAt(typ models.AchievementType, when time.Time) models.Achievement {
	return models.Achievement{Type: typ, Description: "test", EarnedAt: when}
}

func TestMilestoneBonus(t *testing.T) {
	tests := []struct {
		name     string
		today    bool
		recent   []models.Achievement
		expected int
	}{
		{"achievement today flag wins", true, nil, 40},
		{"no achievements", false, nil, 0},
		{"any type within 24h", false, []models.Achievement{achievementAt(models.AchievementOther, testNow.Add(-6*time.Hour))}, 40},
		{"achievement older than 24h", false, []models.Achievement{achievementAt(models.AchievementMilestone, testNow.Add(-30*time.Hour))}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MilestoneBonus(testNow, tc.today, tc.recent); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestGoalCompletionBonus(t *testing.T) {
	recentGoal := []models.Achievement{achievementAt(models.AchievementGoalCompletion, testNow.Add(-2*time.Hour))}
	if got := GoalCompletionBonus(testNow, recentGoal); got != 20 {
		t.Errorf("Expected 20 for recent goal completion, got %d", got)
	}

	wrongType := []models.Achievement{achievementAt(models.AchievementMilestone, testNow.Add(-2*time.Hour))}
	if got := GoalCompletionBonus(testNow, wrongType); got != 0 {
		t.Errorf("Expected 0 for non-goal achievement, got %d", got)
	}

	stale := []models.Achievement{achievementAt(models.AchievementGoalCompletion, testNow.Add(-25*time.Hour))}
	if got := GoalCompletionBonus(testNow, stale); got != 0 {
		t.Errorf("Expected 0 for stale goal completion, got %d", got)
	}
}

func TestKnowledgeMilestoneBonus(t *testing.T) {
	recent := []models.Achievement{achievementAt(models.AchievementMasteryLevel, testNow.Add(-1*time.Hour))}
	if got := KnowledgeMilestoneBonus(testNow, recent); got != 15 {
		t.Errorf("Expected 15 for recent mastery level, got %d", got)
	}
	if got := KnowledgeMilestoneBonus(testNow, nil); got != 0 {
		t.Errorf("Expected 0 for no achievements, got %d", got)
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		streak   int
		expected int
	}{
		{0, 0}, {1, 0}, {2, 0}, {3, 5}, {6, 5}, {7, 10}, {30, 10},
	}
	for _, tc := range tests {
		if got := StreakBonus(tc.streak); got != tc.expected {
			t.Errorf("StreakBonus(%d): expected %d, got %d", tc.streak, tc.expected, got)
		}
	}
}

func TestStreakContinuationBonus(t *testing.T) {
	tests := []struct {
		name     string
		streak   int
		last     *time.Time
		expected int
	}{
		{"no streak", 0, nil, 0},
		{"streak of 1 is not a run", 1, ago(20 * time.Hour), 0},
		{"session within 12h blocks the nudge", 3, ago(6 * time.Hour), 0},
		{"streak at risk", 3, ago(20 * time.Hour), 10},
		{"streak with no session on record", 5, nil, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StreakContinuationBonus(testNow, tc.streak, tc.last); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestStruggleFocusBonus(t *testing.T) {
	tests := []struct {
		name     string
		stats    map[string]models.SubjectStats
		expected int
	}{
		{"nil stats", nil, 0},
		{"single session does not count", map[string]models.SubjectStats{
			"algebra": {TotalSessions: 1, AverageScore: 0.3},
		}, 0},
		{"struggling subject", map[string]models.SubjectStats{
			"algebra": {TotalSessions: 3, AverageScore: 0.55},
		}, 20},
		{"score at threshold is not struggling", map[string]models.SubjectStats{
			"algebra": {TotalSessions: 3, AverageScore: 0.7},
		}, 0},
		{"one strong one weak", map[string]models.SubjectStats{
			"algebra":  {TotalSessions: 5, AverageScore: 0.9},
			"geometry": {TotalSessions: 2, AverageScore: 0.6},
		}, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StruggleFocusBonus(tc.stats); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestReengagementNeedBonus(t *testing.T) {
	session := func(d time.Duration) models.SessionRecord {
		return models.SessionRecord{Timestamp: testNow.Add(-d)}
	}

	tests := []struct {
		name     string
		sessions []models.SessionRecord
		expected int
	}{
		{"absent signal contributes nothing", nil, 0},
		{"zero sessions on record", []models.SessionRecord{}, 20},
		{"one session this week", []models.SessionRecord{session(2 * 24 * time.Hour)}, 20},
		{"two sessions this week", []models.SessionRecord{session(24 * time.Hour), session(3 * 24 * time.Hour)}, 0},
		{"old sessions do not count", []models.SessionRecord{session(8 * 24 * time.Hour), session(9 * 24 * time.Hour)}, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReengagementNeedBonus(testNow, tc.sessions); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}
