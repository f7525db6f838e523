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

//go:generate mockgen -source=story_repository.go -destination=mock/story_repository.go -package=mock

// StoryRepository is append-only; stories are never updated.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*models.Story, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type storyRepository struct {
	BaseRepository
}

func NewStoryRepository(db *mongo.Database) StoryRepository {
	return &storyRepository{BaseRepository: NewBaseRepository(db.Collection(models.CollectionStories), "story")}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	if story.ID.IsZero() {
		story.ID = primitive.NewObjectID()
	}
	if story.GeneratedAt.IsZero() {
		story.GeneratedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, story)
	return r.observe("create", story.ID.Hex(), start, err)
}

// ListByUser returns the user's stories by generation time, newest first
// unless ascending is set.
func (r *storyRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*models.Story, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	direction := -1
	if ascending {
		direction = 1
	}
	cursor, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "generated_at", Value: direction}}),
	)
	if err != nil {
		return nil, r.observe("list_by_user", userID.Hex(), start, err)
	}
	defer cursor.Close(ctx)

	stories := make([]*models.Story, 0)
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, r.observe("list_by_user", userID.Hex(), start, err)
	}
	return stories, r.observe("list_by_user", userID.Hex(), start, nil)
}

func (r *storyRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err = r.observe("delete_by_user", userID.Hex(), start, err); err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
