package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionPersonas = "personas"

// Persona is the generated alternate self. A user owns at most one.
type Persona struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	Traits       []string           `bson:"traits" json:"traits"`
	Fears        []string           `bson:"fears" json:"fears"`
	Inspirations []string           `bson:"inspirations" json:"inspirations"`
	Description  string             `bson:"description" json:"aiGeneratedDescription"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Description length bounds
const (
	DescriptionMinLength = 50
	DescriptionMaxLength = 2000
)
