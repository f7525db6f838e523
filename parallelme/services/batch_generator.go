package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
	"github.com/parallelme/parallelme/parallelme/gateway"
	"github.com/parallelme/parallelme/parallelme/progression"
	"golang.org/x/sync/singleflight"
)

// BatchGenerator produces quest batches through the gateway and makes them
// available. Concurrent requests for the same user and batch share one
// generation.
type BatchGenerator struct {
	quests  repositories.QuestRepository
	gateway gateway.Gateway
	group   singleflight.Group
	now     func() time.Time
}

func NewBatchGenerator(quests repositories.QuestRepository, gw gateway.Gateway) *BatchGenerator {
	return &BatchGenerator{
		quests:  quests,
		gateway: gw,
		now:     time.Now,
	}
}

// Open makes batch available for the persona's owner. An existing locked
// batch is flipped to available; a missing one is generated first, and a
// short one has its empty slots filled.
// It returns the number of quests that became available.
func (g *BatchGenerator) Open(ctx context.Context, persona *models.Persona, batch int) (int64, error) {
	if !progression.ValidBatch(batch) {
		return 0, apperror.Newf(apperror.KindValidation, "Batch number must be between 1 and %d", progression.TotalBatches)
	}

	key := fmt.Sprintf("%s:%d", persona.UserID.Hex(), batch)
	v, err, shared := g.group.Do(key, func() (interface{}, error) {
		// The work outlives any single caller that joined it.
		return g.open(context.WithoutCancel(ctx), persona, batch)
	})
	if shared {
		slog.Debug("Joined in-flight batch generation", slog.String("key", key))
	}
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (g *BatchGenerator) open(ctx context.Context, persona *models.Persona, batch int) (int64, error) {
	existing, err := g.quests.ListByBatch(ctx, persona.UserID, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to load batch %d: %w", batch, err)
	}

	if len(existing) < progression.QuestsPerBatch {
		if err = g.generate(ctx, persona, batch, existing); err != nil {
			return 0, err
		}
	}

	unlocked, err := g.quests.UnlockBatch(ctx, persona.UserID, batch, g.now())
	if err != nil {
		return 0, fmt.Errorf("failed to unlock batch %d: %w", batch, err)
	}
	if unlocked > 0 {
		slog.Info("Quest batch unlocked",
			slog.String("user_id", persona.UserID.Hex()),
			slog.Int("batch", batch),
			slog.Int64("quests", unlocked))
	}
	return unlocked, nil
}

// generate asks the gateway for a batch and inserts locked quests into the
// slots existing does not occupy. Losing the insert to a concurrent writer
// counts as success.
func (g *BatchGenerator) generate(ctx context.Context, persona *models.Persona, batch int, existing []*models.Quest) error {
	difficulty, _ := progression.RangeFor(batch)
	drafts, err := g.gateway.GenerateQuestBatch(ctx, persona, batch, difficulty)
	if err != nil {
		return err
	}

	quests, err := progression.BuildBatch(drafts, batch, persona.UserID, persona.ID, models.QuestStatusLocked, g.now())
	if err != nil {
		return err
	}

	quests = missingSlots(quests, existing)
	if len(existing) > 0 {
		slog.Warn("Refilling short quest batch",
			slog.String("user_id", persona.UserID.Hex()),
			slog.Int("batch", batch),
			slog.Int("stored", len(existing)),
			slog.Int("missing", len(quests)))
	}

	if err = g.quests.InsertBatch(ctx, quests); err != nil {
		if repositories.IsConflict(err) {
			slog.Info("Quest batch already generated",
				slog.String("user_id", persona.UserID.Hex()),
				slog.Int("batch", batch))
			return nil
		}
		return fmt.Errorf("failed to store batch %d: %w", batch, err)
	}
	return nil
}

func missingSlots(generated, existing []*models.Quest) []*models.Quest {
	taken := make(map[int]bool, len(existing))
	for _, q := range existing {
		taken[q.Slot] = true
	}
	var out []*models.Quest
	for _, q := range generated {
		if !taken[q.Slot] {
			out = append(out, q)
		}
	}
	return out
}
