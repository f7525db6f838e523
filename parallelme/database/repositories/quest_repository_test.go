package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc bson.D
	if err = bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func testQuest(userID primitive.ObjectID, batch, slot int, status string) *models.Quest {
	return &models.Quest{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		PersonaID:   primitive.NewObjectID(),
		Title:       "Say hello to a stranger",
		Description: "Start one small conversation today.",
		Category:    models.QuestCategorySocial,
		Difficulty:  1.5,
		BatchNumber: batch,
		Slot:        slot,
		Status:      status,
		Points:      8,
	}
}

func TestQuestRepository_Complete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("active quest completes", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		now := time.Now().UTC().Truncate(time.Millisecond)
		done := testQuest(userID, 1, 0, models.QuestStatusCompleted)
		done.Reflection = "Did it!"
		done.CompletedAt = &now

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(t, done)}))

		got, err := repo.Complete(context.Background(), userID, done.ID, "Did it!", now)
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got.Status != models.QuestStatusCompleted || got.Reflection != "Did it!" {
			t.Errorf("Complete() = %+v", got)
		}
		if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
			t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, now)
		}
	})

	mt.Run("status precondition fails", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Complete(context.Background(), userID, primitive.NewObjectID(), "Did it!", time.Now())
		if !IsConflict(err) {
			t.Fatalf("Complete() error = %v, want ConflictError", err)
		}
	})
}

func TestQuestRepository_Start(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("available quest starts", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		active := testQuest(userID, 1, 1, models.QuestStatusActive)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(t, active)}))

		got, err := repo.Start(context.Background(), userID, active.ID, time.Now())
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if got.Status != models.QuestStatusActive {
			t.Errorf("Status = %q", got.Status)
		}
	})

	mt.Run("server error is wrapped", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))

		_, err := repo.Start(context.Background(), userID, primitive.NewObjectID(), time.Now())
		if !IsRepositoryError(err) {
			t.Fatalf("Start() error = %v, want RepositoryError", err)
		}
	})
}

func TestQuestRepository_InsertBatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	batch := func() []*models.Quest {
		return []*models.Quest{
			testQuest(userID, 2, 0, models.QuestStatusLocked),
			testQuest(userID, 2, 1, models.QuestStatusLocked),
			testQuest(userID, 2, 2, models.QuestStatusLocked),
		}
	}

	mt.Run("inserts", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		quests := batch()
		if err := repo.InsertBatch(context.Background(), quests); err != nil {
			t.Fatalf("InsertBatch() error = %v", err)
		}
		for _, q := range quests {
			if q.CreatedAt.IsZero() {
				t.Error("CreatedAt not stamped")
			}
		}
	})

	mt.Run("duplicate slots conflict", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: parallelme.quests index: user_batch_slot_unique",
		}))

		err := repo.InsertBatch(context.Background(), batch())
		if !IsConflict(err) {
			t.Fatalf("InsertBatch() error = %v, want ConflictError", err)
		}
	})
}

func TestQuestRepository_UnlockBatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("flips locked quests", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))

		n, err := repo.UnlockBatch(context.Background(), primitive.NewObjectID(), 2, time.Now())
		if err != nil {
			t.Fatalf("UnlockBatch() error = %v", err)
		}
		if n != 3 {
			t.Errorf("UnlockBatch() = %d, want 3", n)
		}
	})
}

func TestQuestRepository_ListByStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()

	mt.Run("decodes cursor", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		first := testQuest(userID, 1, 0, models.QuestStatusAvailable)
		second := testQuest(userID, 1, 1, models.QuestStatusActive)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "parallelme.quests", mtest.FirstBatch, toDoc(t, first), toDoc(t, second)),
		)

		quests, err := repo.ListByStatus(context.Background(), userID, models.QuestStatusAvailable, models.QuestStatusActive)
		if err != nil {
			t.Fatalf("ListByStatus() error = %v", err)
		}
		if len(quests) != 2 || quests[0].ID != first.ID || quests[1].Status != models.QuestStatusActive {
			t.Errorf("ListByStatus() = %+v", quests)
		}
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.quests", mtest.FirstBatch))

		quests, err := repo.ListByStatus(context.Background(), userID, models.QuestStatusAvailable)
		if err != nil {
			t.Fatalf("ListByStatus() error = %v", err)
		}
		if quests == nil || len(quests) != 0 {
			t.Errorf("ListByStatus() = %v, want empty slice", quests)
		}
	})
}

func TestQuestRepository_MaxBatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no quests", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.quests", mtest.FirstBatch))

		got, err := repo.MaxBatch(context.Background(), primitive.NewObjectID())
		if err != nil || got != 0 {
			t.Errorf("MaxBatch() = %d, %v", got, err)
		}
	})

	mt.Run("highest batch", func(mt *mtest.T) {
		repo := NewQuestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "parallelme.quests", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "batch_number", Value: 4}}))

		got, err := repo.MaxBatch(context.Background(), primitive.NewObjectID())
		if err != nil || got != 4 {
			t.Errorf("MaxBatch() = %d, %v", got, err)
		}
	})
}
