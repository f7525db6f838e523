package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionQuests = "quests"

type Quest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	PersonaID   primitive.ObjectID `bson:"persona_id" json:"personaId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Difficulty  float64            `bson:"difficulty" json:"difficultyLevel"`
	BatchNumber int                `bson:"batch_number" json:"batchNumber"`
	Slot        int                `bson:"slot" json:"slot"` // position within the batch, 0-2
	Status      string             `bson:"status" json:"status"`
	Points      int                `bson:"points" json:"points"`
	Reflection  string             `bson:"reflection" json:"reflection"`
	UnlockedAt  *time.Time         `bson:"unlocked_at" json:"unlockedAt"`
	StartedAt   *time.Time         `bson:"started_at" json:"startedAt"`
	CompletedAt *time.Time         `bson:"completed_at" json:"completedAt"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Quest status constants
const (
	QuestStatusLocked    = "locked"
	QuestStatusAvailable = "available"
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
)

// Quest category constants
const (
	QuestCategorySocial   = "Social"
	QuestCategoryAcademic = "Academic"
	QuestCategoryPersonal = "Personal"
	QuestCategoryCreative = "Creative"
	QuestCategoryCareer   = "Career"
	QuestCategoryHealth   = "Health"
)

// QuestCategories lists every category in display order.
var QuestCategories = []string{
	QuestCategorySocial,
	QuestCategoryAcademic,
	QuestCategoryPersonal,
	QuestCategoryCreative,
	QuestCategoryCareer,
	QuestCategoryHealth,
}

// IsValidCategory reports whether c is one of QuestCategories.
func IsValidCategory(c string) bool {
	for _, known := range QuestCategories {
		if known == c {
			return true
		}
	}
	return false
}

const MaxReflectionLength = 500
