package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionStories = "stories"

// Story types
const (
	StoryTypeQuestSnippet = "quest_snippet"
	StoryTypeBatchChapter = "batch_chapter"
)

// Story is an append-only generated narrative.
type Story struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"userId"`
	PersonaID   primitive.ObjectID  `bson:"persona_id" json:"personaId"`
	Type        string              `bson:"type" json:"storyType"`
	Content     string              `bson:"content" json:"content"`
	TriggeredBy string              `bson:"triggered_by" json:"triggeredBy"`
	QuestID     *primitive.ObjectID `bson:"quest_id,omitempty" json:"questId,omitempty"`
	QuestTitle  string              `bson:"quest_title,omitempty" json:"questTitle,omitempty"`
	BatchNumber int                 `bson:"batch_number,omitempty" json:"batchNumber,omitempty"`
	GeneratedAt time.Time           `bson:"generated_at" json:"generatedAt"`
}

// BatchTrigger is the triggered_by value of a batch chapter.
func BatchTrigger(batch int) string {
	return fmt.Sprintf("batch_%d", batch)
}
