package repositories

import (
	"context"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=persona_repository.go -destination=mock/persona_repository.go -package=mock

type PersonaRepository interface {
	Create(ctx context.Context, persona *models.Persona) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Persona, error)
	Update(ctx context.Context, persona *models.Persona) (*models.Persona, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Persona, error)
}

type personaRepository struct {
	BaseRepository
}

func NewPersonaRepository(db *mongo.Database) PersonaRepository {
	return &personaRepository{BaseRepository: NewBaseRepository(db.Collection(models.CollectionPersonas), "persona")}
}

// Create inserts the persona. The unique user_id index turns a second
// persona for the same user into a ConflictError.
func (r *personaRepository) Create(ctx context.Context, persona *models.Persona) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	now := time.Now()
	if persona.CreatedAt.IsZero() {
		persona.CreatedAt = now
	}
	persona.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, persona)
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Entity: "persona", Field: "user_id", Value: persona.UserID.Hex()}
	}
	if err != nil {
		return r.observe("create", persona.UserID.Hex(), start, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		persona.ID = id
	}
	return r.observe("create", persona.ID.Hex(), start, nil)
}

func (r *personaRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Persona, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	persona := new(models.Persona)
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(persona)
	if err = r.observe("get_by_user", userID.Hex(), start, err); err != nil {
		return nil, err
	}
	return persona, nil
}

// Update replaces the mutable fields and returns the stored document.
func (r *personaRepository) Update(ctx context.Context, persona *models.Persona) (*models.Persona, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	update := bson.M{"$set": bson.M{
		"traits":       persona.Traits,
		"fears":        persona.Fears,
		"inspirations": persona.Inspirations,
		"description":  persona.Description,
		"updated_at":   time.Now(),
	}}
	updated := new(models.Persona)
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"user_id": persona.UserID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(updated)
	if err = r.observe("update", persona.UserID.Hex(), start, err); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByUserID removes the user's persona and returns what was deleted.
func (r *personaRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Persona, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	deleted := new(models.Persona)
	err := r.coll.FindOneAndDelete(ctx, bson.M{"user_id": userID}).Decode(deleted)
	if err = r.observe("delete", userID.Hex(), start, err); err != nil {
		return nil, err
	}
	return deleted, nil
}
