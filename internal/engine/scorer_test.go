package engine

import (
	"testing"
	"time"

	"mentora-backend/internal/models"
)

func factorSum(p models.CardPriority) int {
	sum := 0
	for _, v := range p.Factors {
		sum += v
	}
	return sum
}

// Every priority must carry an exact audit trail: score == Σ factors.
func TestScoreEqualsFactorSum(t *testing.T) {
	snapshots := []models.ActivityFacts{
		{},
		{HasCompletedAnySession: true, LastSessionTime: ago(30 * time.Minute)},
		{HasCompletedAnySession: true, LastAppAccess: ago(4 * 24 * time.Hour), RecentSessions: []models.SessionRecord{}},
		{
			HasCompletedAnySession: true,
			LastSessionTime:        ago(3 * time.Hour),
			LastAppAccess:          ago(2 * 24 * time.Hour),
			CurrentStreak:          8,
			AchievementToday:       true,
			RecentAchievements: []models.Achievement{
				achievementAt(models.AchievementGoalCompletion, testNow.Add(-time.Hour)),
				achievementAt(models.AchievementMasteryLevel, testNow.Add(-2*time.Hour)),
			},
			PracticeStats: map[string]models.SubjectStats{
				"fractions": {TotalSessions: 4, AverageScore: 0.5},
			},
		},
	}

	for i, facts := range snapshots {
		for _, p := range []models.CardPriority{
			ScorePracticeCard(&facts, testNow),
			ScoreChatCard(&facts, testNow),
			ScoreProgressCard(&facts, testNow),
		} {
			if got := factorSum(p); got != p.Score {
				t.Errorf("snapshot %d, card %s: score %d != factor sum %d (%v)", i, p.Card, p.Score, got, p.Factors)
			}
		}
	}
}

func TestScorePracticeCard(t *testing.T) {
	t.Run("recent session stacks on base", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true, LastSessionTime: ago(30 * time.Minute)}
		p := ScorePracticeCard(&facts, testNow)
		if p.Score != 60 {
			t.Errorf("Expected 60 (30 base + 30 recency), got %d", p.Score)
		}
		if p.Factors[FactorSessionRecency] != 30 {
			t.Errorf("Expected session_recency factor 30, got %d", p.Factors[FactorSessionRecency])
		}
	})

	t.Run("inactivity drags practice down", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true, LastAppAccess: ago(4 * 24 * time.Hour)}
		p := ScorePracticeCard(&facts, testNow)
		if p.Score != 20 {
			t.Errorf("Expected 20 (30 base - 10 penalty), got %d", p.Score)
		}
		if p.Factors[FactorInactivityPenalty] != -10 {
			t.Errorf("Expected inactivity_penalty -10, got %d", p.Factors[FactorInactivityPenalty])
		}
	})

	t.Run("struggle and streak bonuses stack", func(t *testing.T) {
		facts := models.ActivityFacts{
			HasCompletedAnySession: true,
			CurrentStreak:          4,
			LastSessionTime:        ago(20 * time.Hour),
			PracticeStats: map[string]models.SubjectStats{
				"algebra": {TotalSessions: 3, AverageScore: 0.5},
			},
		}
		p := ScorePracticeCard(&facts, testNow)
		// 30 base + 5 recency (20h) + 20 struggle + 10 continuation
		if p.Score != 65 {
			t.Errorf("Expected 65, got %d (%v)", p.Score, p.Factors)
		}
	})
}

func TestScoreChatCard(t *testing.T) {
	t.Run("recency halves against chat", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true, LastSessionTime: ago(30 * time.Minute)}
		p := ScoreChatCard(&facts, testNow)
		if p.Score != 5 {
			t.Errorf("Expected 5 (20 base - 15 offset), got %d", p.Score)
		}
		if p.Factors[FactorRecencyOffset] != -15 {
			t.Errorf("Expected recency_offset -15, got %d", p.Factors[FactorRecencyOffset])
		}
	})

	t.Run("offset uses integer floor", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true, LastSessionTime: ago(12 * time.Hour)}
		p := ScoreChatCard(&facts, testNow)
		// recency 5, floor(5/2) = 2
		if p.Factors[FactorRecencyOffset] != -2 {
			t.Errorf("Expected recency_offset -2, got %d", p.Factors[FactorRecencyOffset])
		}
	})

	t.Run("long absence boosts chat", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true, LastAppAccess: ago(4 * 24 * time.Hour)}
		p := ScoreChatCard(&facts, testNow)
		if p.Score != 60 {
			t.Errorf("Expected 60 (20 base + 40 inactivity), got %d", p.Score)
		}
	})

	t.Run("first session bonus", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: false}
		p := ScoreChatCard(&facts, testNow)
		if p.Score != 50 {
			t.Errorf("Expected 50 (20 base + 30 first session), got %d", p.Score)
		}
	})

	t.Run("no first session bonus once sessions exist", func(t *testing.T) {
		facts := models.ActivityFacts{
			HasCompletedAnySession: false,
			RecentSessions:         []models.SessionRecord{{Timestamp: testNow.Add(-time.Hour)}},
		}
		p := ScoreChatCard(&facts, testNow)
		if p.Factors[FactorFirstSession] != 0 {
			t.Errorf("Expected no first_session factor, got %d", p.Factors[FactorFirstSession])
		}
	})
}

func TestScoreProgressCard(t *testing.T) {
	t.Run("bare base", func(t *testing.T) {
		facts := models.ActivityFacts{HasCompletedAnySession: true}
		p := ScoreProgressCard(&facts, testNow)
		if p.Score != 10 {
			t.Errorf("Expected 10, got %d", p.Score)
		}
	})

	t.Run("all achievement bonuses stack", func(t *testing.T) {
		facts := models.ActivityFacts{
			HasCompletedAnySession: true,
			AchievementToday:       true,
			CurrentStreak:          7,
			RecentAchievements: []models.Achievement{
				achievementAt(models.AchievementGoalCompletion, testNow.Add(-time.Hour)),
				achievementAt(models.AchievementMasteryLevel, testNow.Add(-2*time.Hour)),
			},
		}
		p := ScoreProgressCard(&facts, testNow)
		// 10 base + 40 milestone + 20 goal + 15 knowledge + 10 streak
		if p.Score != 95 {
			t.Errorf("Expected 95, got %d (%v)", p.Score, p.Factors)
		}
	})
}
