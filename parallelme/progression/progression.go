// Package progression holds the quest state machine and the batch rules:
// difficulty ramp, points, unlock eligibility and reflection checks.
// Everything here is pure over already loaded quest records.
package progression

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
)

const (
	QuestsPerBatch = 3
	TotalBatches   = 10
	TotalQuests    = QuestsPerBatch * TotalBatches
)

// transitions lists the only legal status edges. None is reversible.
var transitions = map[string]string{
	models.QuestStatusLocked:    models.QuestStatusAvailable,
	models.QuestStatusAvailable: models.QuestStatusActive,
	models.QuestStatusActive:    models.QuestStatusCompleted,
}

// CanTransition reports whether a quest may move from one status to another.
func CanTransition(from, to string) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// Range is the closed difficulty interval of a batch.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid is the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Tiers returns the low, mid and high difficulties assigned to a batch's quests.
func (r Range) Tiers() [QuestsPerBatch]float64 {
	return [QuestsPerBatch]float64{r.Min, r.Mid(), r.Max}
}

// Contains reports whether d lies within the range.
func (r Range) Contains(d float64) bool {
	return d >= r.Min && d <= r.Max
}

var difficultyRamp = [TotalBatches]Range{
	{Min: 1, Max: 2},
	{Min: 2, Max: 3},
	{Min: 3, Max: 4},
	{Min: 4, Max: 5},
	{Min: 5, Max: 6},
	{Min: 6, Max: 7},
	{Min: 7, Max: 8},
	{Min: 8, Max: 9},
	{Min: 9, Max: 9.5},
	{Min: 9.5, Max: 10},
}

// RangeFor returns the difficulty range of a batch (1-10).
func RangeFor(batch int) (Range, bool) {
	if !ValidBatch(batch) {
		return Range{}, false
	}
	return difficultyRamp[batch-1], true
}

// ValidBatch reports whether batch is within 1..TotalBatches.
func ValidBatch(batch int) bool {
	return batch >= 1 && batch <= TotalBatches
}

// Points awarded for completing a quest of the given difficulty.
func Points(difficulty float64) int {
	return int(math.Round(difficulty * 5))
}

// IsBatchComplete reports whether the quests of one batch unlock the next:
// exactly QuestsPerBatch quests, every one completed.
func IsBatchComplete(batch []*models.Quest) bool {
	if len(batch) != QuestsPerBatch {
		return false
	}
	for _, q := range batch {
		if q.Status != models.QuestStatusCompleted {
			return false
		}
	}
	return true
}

// NextBatch returns the batch after current. ok is false once the journey
// has reached its final batch.
func NextBatch(current int) (next int, ok bool) {
	if current >= TotalBatches {
		return 0, false
	}
	return current + 1, true
}

// CurrentBatch returns the highest batch number among quests, or 0.
func CurrentBatch(quests []*models.Quest) int {
	current := 0
	for _, q := range quests {
		if q.BatchNumber > current {
			current = q.BatchNumber
		}
	}
	return current
}

// ValidateReflection trims the reflection and checks it is non-empty and at
// most models.MaxReflectionLength characters.
func ValidateReflection(reflection string) (string, error) {
	trimmed := strings.TrimSpace(reflection)
	if trimmed == "" {
		return "", apperror.New(apperror.KindValidation, "Reflection is required to complete a quest").
			WithDetails(map[string]string{"reflection": "required"})
	}
	if utf8.RuneCountInString(trimmed) > models.MaxReflectionLength {
		return "", apperror.Newf(apperror.KindValidation,
			"Reflection must be less than or equal to %d characters", models.MaxReflectionLength).
			WithDetails(map[string]string{"reflection": "too long"})
	}
	return trimmed, nil
}
