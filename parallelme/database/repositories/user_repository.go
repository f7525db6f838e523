package repositories

import (
	"context"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:generate mockgen -source=user_repository.go -destination=mock/user_repository.go -package=mock

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	BaseRepository
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db.Collection(models.CollectionUsers), "user")}
}

// Create inserts the user and sets its ID. A taken email yields a ConflictError.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	res, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Entity: "user", Field: "email", Value: user.Email}
	}
	if err != nil {
		return r.observe("create", user.Email, start, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return r.observe("create", user.ID, start, nil)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	user := new(models.User)
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err = r.observe("get_by_id", id.Hex(), start, err); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()
	start := time.Now()

	user := new(models.User)
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err = r.observe("get_by_email", email, start, err); err != nil {
		return nil, err
	}
	return user, nil
}
