package progression

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCategory replaces categories outside the fixed enum.
const DefaultCategory = models.QuestCategoryPersonal

// Draft is a generated quest before it is bound to a user and batch.
type Draft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Difficulty  float64 `json:"difficultyLevel"`
}

// NormalizeDrafts validates a generated batch and pins its difficulties to
// the batch's low, mid and high tiers, keeping the generator's relative
// ordering. Malformed output is an upstream error.
func NormalizeDrafts(drafts []Draft, batch int) ([]Draft, error) {
	r, ok := RangeFor(batch)
	if !ok {
		return nil, apperror.Newf(apperror.KindValidation, "Batch number must be between 1 and %d", TotalBatches)
	}
	if len(drafts) != QuestsPerBatch {
		return nil, apperror.Newf(apperror.KindUpstream,
			"Generator returned %d quests, expected %d", len(drafts), QuestsPerBatch)
	}

	out := make([]Draft, len(drafts))
	for i, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		d.Description = strings.TrimSpace(d.Description)
		if d.Title == "" || d.Description == "" {
			return nil, apperror.Newf(apperror.KindUpstream, "Generated quest %d is missing required fields", i+1)
		}
		if !models.IsValidCategory(d.Category) {
			slog.Warn("Generated quest has invalid category, using default",
				slog.String("title", d.Title),
				slog.String("category", d.Category),
				slog.String("default", DefaultCategory))
			d.Category = DefaultCategory
		}
		out[i] = d
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Difficulty < out[j].Difficulty
	})
	for i, tier := range r.Tiers() {
		out[i].Difficulty = tier
	}
	return out, nil
}

// BuildBatch turns generated drafts into quest records for one batch. The
// slot of each quest is its position after normalization.
func BuildBatch(drafts []Draft, batch int, userID, personaID primitive.ObjectID, status string, at time.Time) ([]*models.Quest, error) {
	normalized, err := NormalizeDrafts(drafts, batch)
	if err != nil {
		return nil, err
	}

	quests := make([]*models.Quest, len(normalized))
	for i, d := range normalized {
		q := &models.Quest{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			PersonaID:   personaID,
			Title:       d.Title,
			Description: d.Description,
			Category:    d.Category,
			Difficulty:  d.Difficulty,
			BatchNumber: batch,
			Slot:        i,
			Status:      status,
			Points:      Points(d.Difficulty),
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if status == models.QuestStatusAvailable {
			unlocked := at
			q.UnlockedAt = &unlocked
		}
		quests[i] = q
	}
	return quests, nil
}
