package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -source=quest_repository.go -destination=mock/quest_repository.go -package=mock

type QuestRepository interface {
	// Batches
	InsertBatch(ctx context.Context, quests []*models.Quest) error
	ListByBatch(ctx context.Context, userID primitive.ObjectID, batch int) ([]*models.Quest, error)
	UnlockBatch(ctx context.Context, userID primitive.ObjectID, batch int, at time.Time) (int64, error)
	MaxBatch(ctx context.Context, userID primitive.ObjectID) (int, error)

	// Single quests
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quest, error)
	Start(ctx context.Context, userID, id primitive.ObjectID, at time.Time) (*models.Quest, error)
	Complete(ctx context.Context, userID, id primitive.ObjectID, reflection string, at time.Time) (*models.Quest, error)

	// Listings
	ListByStatus(ctx context.Context, userID primitive.ObjectID, statuses ...string) ([]*models.Quest, error)
	ListCompleted(ctx context.Context, userID primitive.ObjectID) ([]*models.Quest, error)
	ListAll(ctx context.Context, userID primitive.ObjectID) ([]*models.Quest, error)

	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type questRepository struct {
	BaseRepository
}

func NewQuestRepository(db *mongo.Database) QuestRepository {
	return &questRepository{BaseRepository: NewBaseRepository(db.Collection(models.CollectionQuests), "quest")}
}

// InsertBatch inserts a whole batch in one ordered write. When the batch
// slots are already taken the write fails on the unique
// {user_id, batch_number, slot} index and a ConflictError is returned.
func (r *questRepository) InsertBatch(ctx context.Context, quests []*models.Quest) error {
	if len(quests) == 0 {
		return nil
	}
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	now := time.Now()
	docs := make([]interface{}, len(quests))
	for i, q := range quests {
		if q.ID.IsZero() {
			q.ID = primitive.NewObjectID()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		q.UpdatedAt = now
		docs[i] = q
	}

	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Entity: "quest", Field: "batch_number", Value: quests[0].BatchNumber}
	}
	return r.observe("insert_batch", quests[0].BatchNumber, start, err)
}

func (r *questRepository) ListByBatch(ctx context.Context, userID primitive.ObjectID, batch int) ([]*models.Quest, error) {
	return r.find(ctx, "list_by_batch",
		bson.M{"user_id": userID, "batch_number": batch},
		bson.D{{Key: "slot", Value: 1}})
}

// UnlockBatch flips every locked quest of the batch to available. It is
// idempotent: quests that are no longer locked are left alone.
func (r *questRepository) UnlockBatch(ctx context.Context, userID primitive.ObjectID, batch int, at time.Time) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "batch_number": batch, "status": models.QuestStatusLocked},
		bson.M{"$set": bson.M{
			"status":      models.QuestStatusAvailable,
			"unlocked_at": at,
			"updated_at":  at,
		}},
	)
	if err = r.observe("unlock_batch", batch, start, err); err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MaxBatch returns the highest batch number the user has, or 0.
func (r *questRepository) MaxBatch(ctx context.Context, userID primitive.ObjectID) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	var doc struct {
		BatchNumber int `bson:"batch_number"`
	}
	err := r.coll.FindOne(ctx,
		bson.M{"user_id": userID},
		options.FindOne().
			SetSort(bson.D{{Key: "batch_number", Value: -1}}).
			SetProjection(bson.M{"batch_number": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, r.observe("max_batch", userID.Hex(), start, nil)
	}
	if err = r.observe("max_batch", userID.Hex(), start, err); err != nil {
		return 0, err
	}
	return doc.BatchNumber, nil
}

func (r *questRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Quest, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	quest := new(models.Quest)
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(quest)
	if err = r.observe("get_by_id", id.Hex(), start, err); err != nil {
		return nil, err
	}
	return quest, nil
}

// Start moves an available quest to active.
func (r *questRepository) Start(ctx context.Context, userID, id primitive.ObjectID, at time.Time) (*models.Quest, error) {
	return r.transition(ctx, "start", userID, id, models.QuestStatusAvailable, bson.M{
		"status":     models.QuestStatusActive,
		"started_at": at,
		"updated_at": at,
	})
}

// Complete moves an active quest to completed with its reflection. Of two
// concurrent completions only one matches the status filter.
func (r *questRepository) Complete(ctx context.Context, userID, id primitive.ObjectID, reflection string, at time.Time) (*models.Quest, error) {
	return r.transition(ctx, "complete", userID, id, models.QuestStatusActive, bson.M{
		"status":       models.QuestStatusCompleted,
		"reflection":   reflection,
		"completed_at": at,
		"updated_at":   at,
	})
}

func (r *questRepository) transition(ctx context.Context, op string, userID, id primitive.ObjectID, from string, set bson.M) (*models.Quest, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	quest := new(models.Quest)
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(quest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_ = r.observe(op, id.Hex(), start, nil)
		return nil, &ConflictError{Entity: "quest", Field: "status", Value: from}
	}
	if err = r.observe(op, id.Hex(), start, err); err != nil {
		return nil, err
	}
	return quest, nil
}

// ListByStatus returns quests in any of the statuses, ordered by batch then difficulty.
func (r *questRepository) ListByStatus(ctx context.Context, userID primitive.ObjectID, statuses ...string) ([]*models.Quest, error) {
	return r.find(ctx, "list_by_status",
		bson.M{"user_id": userID, "status": bson.M{"$in": statuses}},
		bson.D{{Key: "batch_number", Value: 1}, {Key: "difficulty", Value: 1}})
}

// ListCompleted returns completed quests, most recent first.
func (r *questRepository) ListCompleted(ctx context.Context, userID primitive.ObjectID) ([]*models.Quest, error) {
	return r.find(ctx, "list_completed",
		bson.M{"user_id": userID, "status": models.QuestStatusCompleted},
		bson.D{{Key: "completed_at", Value: -1}})
}

func (r *questRepository) ListAll(ctx context.Context, userID primitive.ObjectID) ([]*models.Quest, error) {
	return r.find(ctx, "list_all",
		bson.M{"user_id": userID},
		bson.D{{Key: "batch_number", Value: 1}, {Key: "slot", Value: 1}})
}

func (r *questRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err = r.observe("delete_by_user", userID.Hex(), start, err); err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *questRepository) find(ctx context.Context, op string, filter bson.M, sort bson.D) ([]*models.Quest, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, r.observe(op, filter["user_id"], start, err)
	}
	defer cursor.Close(ctx)

	quests := make([]*models.Quest, 0)
	if err = cursor.All(ctx, &quests); err != nil {
		return nil, r.observe(op, filter["user_id"], start, err)
	}
	return quests, r.observe(op, filter["user_id"], start, nil)
}
