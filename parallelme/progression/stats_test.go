package progression

import (
	"testing"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
)

var testLoc = time.FixedZone("UTC-5", -5*60*60)

func completedAt(t time.Time, difficulty float64) *models.Quest {
	return &models.Quest{
		Status:      models.QuestStatusCompleted,
		Difficulty:  difficulty,
		Points:      Points(difficulty),
		Category:    models.QuestCategorySocial,
		BatchNumber: 1,
		CompletedAt: &t,
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 5, 14, 15, 0, 0, 0, testLoc)
	day := func(back int, hour int) time.Time {
		return time.Date(2026, 5, 14-back, hour, 0, 0, 0, testLoc)
	}

	tests := []struct {
		name   string
		quests []*models.Quest
		want   int
	}{
		{name: "no completions", quests: nil, want: 0},
		{
			name:   "today and yesterday, not two days ago",
			quests: []*models.Quest{completedAt(day(0, 9), 1), completedAt(day(1, 20), 1)},
			want:   2,
		},
		{
			name:   "several on one day",
			quests: []*models.Quest{completedAt(day(0, 8), 1), completedAt(day(0, 9), 1), completedAt(day(0, 10), 1)},
			want:   1,
		},
		{
			name:   "gap stops the walk",
			quests: []*models.Quest{completedAt(day(0, 9), 1), completedAt(day(1, 9), 1), completedAt(day(3, 9), 1)},
			want:   2,
		},
		{
			name:   "nothing today",
			quests: []*models.Quest{completedAt(day(1, 9), 1), completedAt(day(2, 9), 1)},
			want:   0,
		},
		{
			name:   "not completed quests are ignored",
			quests: []*models.Quest{{Status: models.QuestStatusActive}},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.quests, now, testLoc); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakUsesLocalMidnight(t *testing.T) {
	// 23:30 local yesterday is already "today" in UTC.
	now := time.Date(2026, 5, 14, 9, 0, 0, 0, testLoc)
	lateYesterday := time.Date(2026, 5, 13, 23, 30, 0, 0, testLoc)
	quests := []*models.Quest{completedAt(now, 1), completedAt(lateYesterday, 1)}

	if got := Streak(quests, now, testLoc); got != 2 {
		t.Errorf("Streak() in local zone = %d, want 2", got)
	}
}

func TestConfidenceScore(t *testing.T) {
	if got := ConfidenceScore(nil); got != 0 {
		t.Errorf("ConfidenceScore(nil) = %d", got)
	}

	now := time.Now()
	prev := 0
	var list []*models.Quest
	for i := 0; i < 15; i++ {
		list = append(list, completedAt(now, 3))
		got := ConfidenceScore(list)
		if got < prev {
			t.Fatalf("score decreased from %d to %d after %d completions", prev, got, i+1)
		}
		if got > 100 {
			t.Fatalf("score %d exceeds 100", got)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("score after 15 completions = %d, want 100", prev)
	}

	one := []*models.Quest{completedAt(now, 1.5)}
	if got := ConfidenceScore(one); got != 18 { // 10 + 7.5
		t.Errorf("ConfidenceScore() = %d, want 18", got)
	}
}

func TestWeeklyProgress(t *testing.T) {
	now := time.Date(2026, 5, 14, 12, 0, 0, 0, testLoc) // Thursday
	quests := []*models.Quest{
		completedAt(time.Date(2026, 5, 14, 1, 0, 0, 0, testLoc), 1),
		completedAt(time.Date(2026, 5, 14, 23, 0, 0, 0, testLoc), 1),
		completedAt(time.Date(2026, 5, 8, 10, 0, 0, 0, testLoc), 1),
		completedAt(time.Date(2026, 5, 7, 10, 0, 0, 0, testLoc), 1), // outside the window
	}

	week := WeeklyProgress(quests, now, testLoc)
	if len(week) != 7 {
		t.Fatalf("len = %d", len(week))
	}
	if week[0].Date != "2026-05-08" || week[0].Day != "Fri" || week[0].Count != 1 {
		t.Errorf("oldest bucket = %+v", week[0])
	}
	if week[6].Date != "2026-05-14" || week[6].Day != "Thu" || week[6].Count != 2 {
		t.Errorf("newest bucket = %+v", week[6])
	}
	total := 0
	for _, d := range week {
		total += d.Count
	}
	if total != 3 {
		t.Errorf("total in window = %d, want 3", total)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	list := []*models.Quest{
		{Category: models.QuestCategorySocial, Status: models.QuestStatusCompleted},
		{Category: models.QuestCategorySocial, Status: models.QuestStatusAvailable},
		{Category: models.QuestCategoryHealth, Status: models.QuestStatusActive},
	}
	got := CategoryBreakdown(list)
	if len(got) != len(models.QuestCategories) {
		t.Errorf("categories = %d", len(got))
	}
	if got[models.QuestCategorySocial] != (CategoryCount{Total: 2, Completed: 1}) {
		t.Errorf("Social = %+v", got[models.QuestCategorySocial])
	}
	if got[models.QuestCategoryCareer] != (CategoryCount{}) {
		t.Errorf("Career = %+v", got[models.QuestCategoryCareer])
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 5, 14, 12, 0, 0, 0, testLoc)
	yesterday := now.Add(-24 * time.Hour)
	list := []*models.Quest{
		completedAt(now, 2),
		completedAt(yesterday, 1),
		{BatchNumber: 1, Status: models.QuestStatusActive, Category: models.QuestCategoryCareer},
		{BatchNumber: 2, Status: models.QuestStatusLocked, Category: models.QuestCategoryCareer},
	}

	s := Summarize(list, now, testLoc)

	if s.TotalQuests != 4 || s.Completed != 2 || s.Active != 1 || s.Locked != 1 || s.Available != 0 {
		t.Errorf("counts = %+v", s)
	}
	if s.TotalPoints != 15 {
		t.Errorf("TotalPoints = %d, want 15", s.TotalPoints)
	}
	if s.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d", s.CompletionRate)
	}
	if s.Streak != 2 {
		t.Errorf("Streak = %d", s.Streak)
	}
	if s.BatchProgress != (BatchProgressInfo{CurrentBatch: 2, TotalBatches: 10, Percentage: 20}) {
		t.Errorf("BatchProgress = %+v", s.BatchProgress)
	}
	if len(s.RecentActivity) != 2 || !s.RecentActivity[0].CompletedAt.Equal(now) {
		t.Errorf("RecentActivity = %+v", s.RecentActivity)
	}
}
