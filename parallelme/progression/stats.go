package progression

import (
	"math"
	"sort"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
)

const (
	weekDays           = 7
	recentActivitySize = 5
)

// DayCount is one bucket of the weekly histogram.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD in the stats location
	Day   string `json:"day"`  // Mon, Tue, ...
	Count int    `json:"count"`
}

type CategoryCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type BatchProgressInfo struct {
	CurrentBatch int `json:"currentBatch"`
	TotalBatches int `json:"totalBatches"`
	Percentage   int `json:"percentage"`
}

type Activity struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Points      int        `json:"points"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Stats is the aggregate view of a user's journey. Nothing here is persisted.
type Stats struct {
	TotalQuests       int                      `json:"totalQuests"`
	Completed         int                      `json:"completed"`
	Active            int                      `json:"active"`
	Available         int                      `json:"available"`
	Locked            int                      `json:"locked"`
	CurrentBatch      int                      `json:"currentBatch"`
	TotalPoints       int                      `json:"totalPoints"`
	CompletionRate    int                      `json:"completionRate"`
	Streak            int                      `json:"streak"`
	ConfidenceScore   int                      `json:"confidenceScore"`
	CategoryBreakdown map[string]CategoryCount `json:"categoryBreakdown"`
	WeeklyProgress    []DayCount               `json:"weeklyProgress"`
	RecentActivity    []Activity               `json:"recentActivity"`
	BatchProgress     BatchProgressInfo        `json:"batchProgress"`
}

// dayNumber maps t to a calendar day index in loc, so that differences
// between days are whole numbers regardless of DST transitions.
func dayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func completionTimes(quests []*models.Quest) []time.Time {
	times := make([]time.Time, 0, len(quests))
	for _, q := range quests {
		if q.Status == models.QuestStatusCompleted && q.CompletedAt != nil {
			times = append(times, *q.CompletedAt)
		}
	}
	return times
}

// Streak counts consecutive calendar days with at least one completion,
// walking back from today and stopping at the first gap. No completion
// today means a streak of 0.
func Streak(quests []*models.Quest, now time.Time, loc *time.Location) int {
	times := completionTimes(quests)
	sort.Slice(times, func(i, j int) bool { return times[i].After(times[j]) })

	today := dayNumber(now, loc)
	streak := 0
	for _, t := range times {
		diff := today - dayNumber(t, loc)
		if diff == streak {
			streak++
		} else if diff > streak {
			break
		}
	}
	return streak
}

// ConfidenceScore is round(min(100, n*10 + avgDifficulty*5)) over completed
// quests, and 0 when none are completed.
func ConfidenceScore(quests []*models.Quest) int {
	n := 0
	sum := 0.0
	for _, q := range quests {
		if q.Status == models.QuestStatusCompleted {
			n++
			sum += q.Difficulty
		}
	}
	if n == 0 {
		return 0
	}
	score := float64(n)*10 + (sum/float64(n))*5
	return int(math.Round(math.Min(100, score)))
}

// WeeklyProgress buckets completions into the trailing seven local days,
// oldest first.
func WeeklyProgress(quests []*models.Quest, now time.Time, loc *time.Location) []DayCount {
	counts := make(map[int]int)
	for _, t := range completionTimes(quests) {
		counts[dayNumber(t, loc)]++
	}

	y, m, d := now.In(loc).Date()
	week := make([]DayCount, 0, weekDays)
	for i := weekDays - 1; i >= 0; i-- {
		day := time.Date(y, m, d-i, 0, 0, 0, 0, loc)
		week = append(week, DayCount{
			Date:  day.Format("2006-01-02"),
			Day:   day.Format("Mon"),
			Count: counts[dayNumber(day, loc)],
		})
	}
	return week
}

// CategoryBreakdown counts total and completed quests for every category.
func CategoryBreakdown(quests []*models.Quest) map[string]CategoryCount {
	breakdown := make(map[string]CategoryCount, len(models.QuestCategories))
	for _, c := range models.QuestCategories {
		breakdown[c] = CategoryCount{}
	}
	for _, q := range quests {
		cc, ok := breakdown[q.Category]
		if !ok {
			continue
		}
		cc.Total++
		if q.Status == models.QuestStatusCompleted {
			cc.Completed++
		}
		breakdown[q.Category] = cc
	}
	return breakdown
}

func BatchProgress(quests []*models.Quest) BatchProgressInfo {
	current := CurrentBatch(quests)
	return BatchProgressInfo{
		CurrentBatch: current,
		TotalBatches: TotalBatches,
		Percentage:   int(math.Round(float64(current) / TotalBatches * 100)),
	}
}

// RecentActivity returns the latest completions, newest first.
func RecentActivity(quests []*models.Quest, limit int) []Activity {
	completed := make([]*models.Quest, 0, len(quests))
	for _, q := range quests {
		if q.Status == models.QuestStatusCompleted && q.CompletedAt != nil {
			completed = append(completed, q)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	if len(completed) > limit {
		completed = completed[:limit]
	}

	activity := make([]Activity, len(completed))
	for i, q := range completed {
		activity[i] = Activity{
			Title:       q.Title,
			Category:    q.Category,
			Points:      q.Points,
			CompletedAt: q.CompletedAt,
		}
	}
	return activity
}

// Summarize computes every statistic over the user's full quest list.
func Summarize(quests []*models.Quest, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	stats := Stats{TotalQuests: len(quests)}
	for _, q := range quests {
		switch q.Status {
		case models.QuestStatusCompleted:
			stats.Completed++
			stats.TotalPoints += q.Points
		case models.QuestStatusActive:
			stats.Active++
		case models.QuestStatusAvailable:
			stats.Available++
		case models.QuestStatusLocked:
			stats.Locked++
		}
	}
	if stats.TotalQuests > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.TotalQuests) * 100))
	}

	stats.CurrentBatch = CurrentBatch(quests)
	stats.Streak = Streak(quests, now, loc)
	stats.ConfidenceScore = ConfidenceScore(quests)
	stats.CategoryBreakdown = CategoryBreakdown(quests)
	stats.WeeklyProgress = WeeklyProgress(quests, now, loc)
	stats.RecentActivity = RecentActivity(quests, recentActivitySize)
	stats.BatchProgress = BatchProgress(quests)
	return stats
}
