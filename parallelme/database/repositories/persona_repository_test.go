package repositories

import (
	"context"
	"testing"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPersonaRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	persona := func() *models.Persona {
		return &models.Persona{
			UserID:       primitive.NewObjectID(),
			Traits:       []string{"confident"},
			Fears:        []string{"public speaking"},
			Inspirations: []string{"Ada Lovelace"},
			Description:  "You walk into every room as someone who already belongs there, curious and unafraid.",
		}
	}

	mt.Run("assigns id", func(mt *mtest.T) {
		repo := NewPersonaRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := persona()
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if p.ID.IsZero() {
			t.Error("ID was not assigned")
		}
		if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
			t.Error("timestamps were not set")
		}
	})

	mt.Run("second persona for user conflicts", func(mt *mtest.T) {
		repo := NewPersonaRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: parallelme.personas index: user_unique",
		}))

		if err := repo.Create(context.Background(), persona()); !IsConflict(err) {
			t.Fatalf("Create() error = %v, want ConflictError", err)
		}
	})
}

func TestPersonaRepository_GetByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewPersonaRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.personas", mtest.FirstBatch))

		_, err := repo.GetByUserID(context.Background(), primitive.NewObjectID())
		if !IsNotFound(err) {
			t.Fatalf("GetByUserID() error = %v, want NotFoundError", err)
		}
	})

	mt.Run("found", func(mt *mtest.T) {
		repo := NewPersonaRepository(mt.DB)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.personas", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user_id", Value: userID},
			{Key: "traits", Value: bson.A{"brave"}},
			{Key: "description", Value: "A calm, brave version of you."},
		}))

		p, err := repo.GetByUserID(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetByUserID() error = %v", err)
		}
		if p.UserID != userID || len(p.Traits) != 1 {
			t.Errorf("GetByUserID() = %+v", p)
		}
	})
}

func TestPersonaRepository_DeleteByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing persona", func(mt *mtest.T) {
		repo := NewPersonaRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		if _, err := repo.DeleteByUserID(context.Background(), primitive.NewObjectID()); !IsNotFound(err) {
			t.Fatalf("DeleteByUserID() error = %v, want NotFoundError", err)
		}
	})
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: parallelme.users index: email_unique",
		}))

		err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
		if !IsConflict(err) {
			t.Fatalf("Create() error = %v, want ConflictError", err)
		}
	})
}

func TestStoryRepository_ListByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes stories", func(mt *mtest.T) {
		repo := NewStoryRepository(mt.DB)
		userID := primitive.NewObjectID()
		story := &models.Story{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			Type:        models.StoryTypeBatchChapter,
			Content:     "Chapter one.",
			TriggeredBy: models.BatchTrigger(1),
			BatchNumber: 1,
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.stories", mtest.FirstBatch, toDoc(t, story)))

		stories, err := repo.ListByUser(context.Background(), userID, false)
		if err != nil {
			t.Fatalf("ListByUser() error = %v", err)
		}
		if len(stories) != 1 || stories[0].TriggeredBy != "batch_1" {
			t.Errorf("ListByUser() = %+v", stories)
		}
	})
}
