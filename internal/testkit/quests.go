package testkit

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
)

type questRepo struct{ s *Store }

// InsertBatch rejects the whole batch when any slot is taken, like the
// unique {user_id, batch_number, slot} index with an ordered insert.
func (r questRepo) InsertBatch(_ context.Context, quests []*models.Quest) error {
	if len(quests) == 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, q := range quests {
		for _, existing := range r.s.quests {
			if existing.UserID == q.UserID && existing.BatchNumber == q.BatchNumber && existing.Slot == q.Slot {
				return &repositories.ConflictError{Entity: "quest", Field: "batch_number", Value: q.BatchNumber}
			}
		}
	}

	now := time.Now()
	for _, q := range quests {
		if q.ID.IsZero() {
			q.ID = primitive.NewObjectID()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		q.UpdatedAt = now
		r.s.quests[q.ID] = *q
	}
	return nil
}

func (r questRepo) ListByBatch(_ context.Context, userID primitive.ObjectID, batch int) ([]*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.questsWhere(func(q *models.Quest) bool {
		return q.UserID == userID && q.BatchNumber == batch
	}, byBatchSlot), nil
}

func (r questRepo) UnlockBatch(_ context.Context, userID primitive.ObjectID, batch int, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, q := range r.s.quests {
		if q.UserID != userID || q.BatchNumber != batch || q.Status != models.QuestStatusLocked {
			continue
		}
		unlocked := at
		q.Status = models.QuestStatusAvailable
		q.UnlockedAt = &unlocked
		q.UpdatedAt = at
		r.s.quests[id] = q
		n++
	}
	return n, nil
}

func (r questRepo) MaxBatch(_ context.Context, userID primitive.ObjectID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	highest := 0
	for _, q := range r.s.quests {
		if q.UserID == userID && q.BatchNumber > highest {
			highest = q.BatchNumber
		}
	}
	return highest, nil
}

func (r questRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quests[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "quest", ID: id.Hex()}
	}
	return &q, nil
}

func (r questRepo) Start(_ context.Context, userID, id primitive.ObjectID, at time.Time) (*models.Quest, error) {
	return r.transition(userID, id, models.QuestStatusAvailable, func(q *models.Quest) {
		started := at
		q.Status = models.QuestStatusActive
		q.StartedAt = &started
		q.UpdatedAt = at
	})
}

func (r questRepo) Complete(_ context.Context, userID, id primitive.ObjectID, reflection string, at time.Time) (*models.Quest, error) {
	return r.transition(userID, id, models.QuestStatusActive, func(q *models.Quest) {
		completed := at
		q.Status = models.QuestStatusCompleted
		q.Reflection = reflection
		q.CompletedAt = &completed
		q.UpdatedAt = at
	})
}

func (r questRepo) transition(userID, id primitive.ObjectID, from string, apply func(*models.Quest)) (*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quests[id]
	if !ok || q.UserID != userID || q.Status != from {
		return nil, &repositories.ConflictError{Entity: "quest", Field: "status", Value: from}
	}
	apply(&q)
	r.s.quests[id] = q
	out := q
	return &out, nil
}

func (r questRepo) ListByStatus(_ context.Context, userID primitive.ObjectID, statuses ...string) ([]*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.questsWhere(func(q *models.Quest) bool {
		if q.UserID != userID {
			return false
		}
		for _, st := range statuses {
			if q.Status == st {
				return true
			}
		}
		return false
	}, func(a, b *models.Quest) bool {
		if a.BatchNumber != b.BatchNumber {
			return a.BatchNumber < b.BatchNumber
		}
		return a.Difficulty < b.Difficulty
	}), nil
}

func (r questRepo) ListCompleted(_ context.Context, userID primitive.ObjectID) ([]*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.questsWhere(func(q *models.Quest) bool {
		return q.UserID == userID && q.Status == models.QuestStatusCompleted
	}, func(a, b *models.Quest) bool {
		return a.CompletedAt.After(*b.CompletedAt)
	}), nil
}

func (r questRepo) ListAll(_ context.Context, userID primitive.ObjectID) ([]*models.Quest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.questsWhere(func(q *models.Quest) bool { return q.UserID == userID }, byBatchSlot), nil
}

func (r questRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, q := range r.s.quests {
		if q.UserID == userID {
			delete(r.s.quests, id)
			n++
		}
	}
	return n, nil
}

// questsWhere must be called with the lock held.
func (s *Store) questsWhere(match func(*models.Quest) bool, less func(a, b *models.Quest) bool) []*models.Quest {
	out := make([]*models.Quest, 0)
	for _, q := range s.quests {
		q := q
		if match(&q) {
			out = append(out, &q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byBatchSlot(a, b *models.Quest) bool {
	if a.BatchNumber != b.BatchNumber {
		return a.BatchNumber < b.BatchNumber
	}
	return a.Slot < b.Slot
}
