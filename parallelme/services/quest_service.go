package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
	"github.com/parallelme/parallelme/parallelme/progression"
	"github.com/sahilm/fuzzy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestList struct {
	Quests       []*models.Quest `json:"quests"`
	CurrentBatch int             `json:"currentBatch"`
	TotalBatches int             `json:"totalBatches"`
}

// CompletionResult describes a completed quest and what it unlocked.
type CompletionResult struct {
	Quest            *models.Quest `json:"quest"`
	PointsEarned     int           `json:"pointsEarned"`
	BatchCompleted   bool          `json:"batchCompleted"`
	UnlockedNewBatch bool          `json:"unlockedNewBatch"`
	NewBatchNumber   *int          `json:"newBatchNumber"`
	UnlockPending    bool          `json:"unlockPending"`
	JourneyComplete  bool          `json:"journeyComplete"`
}

// Progress is the outcome of bringing a user's batches up to date.
type Progress struct {
	CurrentBatch    int   `json:"currentBatch"`
	OpenedBatch     int   `json:"openedBatch,omitempty"`
	Unlocked        int64 `json:"unlocked"`
	JourneyComplete bool  `json:"journeyComplete"`
}

type QuestService struct {
	quests   repositories.QuestRepository
	personas *PersonaService
	batches  *BatchGenerator
	loc      *time.Location
	now      func() time.Time
}

func NewQuestService(quests repositories.QuestRepository, personas *PersonaService, batches *BatchGenerator, loc *time.Location) *QuestService {
	if loc == nil {
		loc = time.Local
	}
	return &QuestService{
		quests:   quests,
		personas: personas,
		batches:  batches,
		loc:      loc,
		now:      time.Now,
	}
}

// List returns the available and active quests. Pending batch work is
// retried first; its failure is logged and the listing still succeeds.
func (s *QuestService) List(ctx context.Context, userID primitive.ObjectID) (*QuestList, error) {
	if _, err := s.EnsureProgress(ctx, userID); err != nil && !apperror.Is(err, apperror.KindNotFound) {
		slog.Warn("Quest progress not brought up to date",
			slog.String("user_id", userID.Hex()),
			slog.String("error", err.Error()))
	}

	quests, err := s.quests.ListByStatus(ctx, userID, models.QuestStatusAvailable, models.QuestStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	return &QuestList{
		Quests:       quests,
		CurrentBatch: progression.CurrentBatch(quests),
		TotalBatches: progression.TotalBatches,
	}, nil
}

func (s *QuestService) Start(ctx context.Context, userID primitive.ObjectID, rawID string) (*models.Quest, error) {
	id, err := parseQuestID(rawID)
	if err != nil {
		return nil, err
	}
	quest, err := s.ownedQuest(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !progression.CanTransition(quest.Status, models.QuestStatusActive) {
		return nil, apperror.Newf(apperror.KindConflict, "Cannot start quest. Current status: %s", quest.Status)
	}

	started, err := s.quests.Start(ctx, userID, quest.ID, s.now())
	if err != nil {
		if repositories.IsConflict(err) {
			return nil, apperror.New(apperror.KindConflict, "Quest is no longer available")
		}
		return nil, fmt.Errorf("failed to start quest: %w", err)
	}
	return started, nil
}

// Complete records the reflection and, when this finishes the batch, opens
// the next one. The completion stands even if opening the next batch fails.
func (s *QuestService) Complete(ctx context.Context, userID primitive.ObjectID, rawID, reflection string) (*CompletionResult, error) {
	id, err := parseQuestID(rawID)
	if err != nil {
		return nil, err
	}
	reflection, err = progression.ValidateReflection(reflection)
	if err != nil {
		return nil, err
	}

	quest, err := s.ownedQuest(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !progression.CanTransition(quest.Status, models.QuestStatusCompleted) {
		return nil, apperror.Newf(apperror.KindConflict, "Cannot complete quest. Current status: %s", quest.Status)
	}

	completed, err := s.quests.Complete(ctx, userID, quest.ID, reflection, s.now())
	if err != nil {
		if repositories.IsConflict(err) {
			return nil, apperror.New(apperror.KindConflict, "Quest was already completed")
		}
		return nil, fmt.Errorf("failed to complete quest: %w", err)
	}

	result := &CompletionResult{Quest: completed, PointsEarned: completed.Points}

	batch, err := s.quests.ListByBatch(ctx, userID, completed.BatchNumber)
	if err != nil {
		slog.Warn("Batch completion not checked",
			slog.String("user_id", userID.Hex()),
			slog.Int("batch", completed.BatchNumber),
			slog.String("error", err.Error()))
		result.UnlockPending = true
		return result, nil
	}
	if !progression.IsBatchComplete(batch) {
		return result, nil
	}
	result.BatchCompleted = true

	next, ok := progression.NextBatch(completed.BatchNumber)
	if !ok {
		result.JourneyComplete = true
		slog.Info("Journey complete", slog.String("user_id", userID.Hex()))
		return result, nil
	}
	result.NewBatchNumber = &next

	if err = s.openBatch(ctx, userID, next); err != nil {
		slog.Warn("Next quest batch not unlocked, will retry",
			slog.String("user_id", userID.Hex()),
			slog.Int("batch", next),
			slog.String("error", err.Error()))
		result.UnlockPending = true
		return result, nil
	}
	result.UnlockedNewBatch = true
	return result, nil
}

// Completed returns completed quests newest first. A non-empty search
// filters and orders them by fuzzy title match.
func (s *QuestService) Completed(ctx context.Context, userID primitive.ObjectID, search string) ([]*models.Quest, error) {
	quests, err := s.quests.ListCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed quests: %w", err)
	}

	search = strings.TrimSpace(search)
	if search == "" {
		return quests, nil
	}
	matches := fuzzy.FindFrom(search, questTitles(quests))
	out := make([]*models.Quest, len(matches))
	for i, m := range matches {
		out[i] = quests[m.Index]
	}
	return out, nil
}

func (s *QuestService) Stats(ctx context.Context, userID primitive.ObjectID) (*progression.Stats, error) {
	quests, err := s.quests.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quests: %w", err)
	}
	stats := progression.Summarize(quests, s.now(), s.loc)
	return &stats, nil
}

// Unlock retries any pending batch work on request and reports failures.
func (s *QuestService) Unlock(ctx context.Context, userID primitive.ObjectID) (*Progress, error) {
	return s.EnsureProgress(ctx, userID)
}

// EnsureProgress opens the batch the user is entitled to if it is not open
// yet: the first batch when none exists, a locked or short batch whose
// predecessor is complete, or the batch after a completed one.
func (s *QuestService) EnsureProgress(ctx context.Context, userID primitive.ObjectID) (*Progress, error) {
	persona, err := s.personas.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.quests.MaxBatch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current batch: %w", err)
	}
	progress := &Progress{CurrentBatch: current}

	target := 0
	if current == 0 {
		target = 1
	} else {
		inCurrent, err := s.quests.ListByBatch(ctx, userID, current)
		if err != nil {
			return progress, fmt.Errorf("failed to load batch %d: %w", current, err)
		}
		switch {
		case progression.IsBatchComplete(inCurrent):
			next, ok := progression.NextBatch(current)
			if !ok {
				progress.JourneyComplete = true
				return progress, nil
			}
			target = next
		case hasLocked(inCurrent) || len(inCurrent) < progression.QuestsPerBatch:
			ready, err := s.previousComplete(ctx, userID, current)
			if err != nil {
				return progress, err
			}
			if ready {
				target = current
			}
		}
	}
	if target == 0 {
		return progress, nil
	}

	unlocked, err := s.batches.Open(ctx, persona, target)
	if err != nil {
		return progress, err
	}
	progress.CurrentBatch = target
	progress.OpenedBatch = target
	progress.Unlocked = unlocked
	return progress, nil
}

// previousComplete reports whether every quest before batch is done.
func (s *QuestService) previousComplete(ctx context.Context, userID primitive.ObjectID, batch int) (bool, error) {
	if batch == 1 {
		return true, nil
	}
	prev, err := s.quests.ListByBatch(ctx, userID, batch-1)
	if err != nil {
		return false, fmt.Errorf("failed to load batch %d: %w", batch-1, err)
	}
	return progression.IsBatchComplete(prev), nil
}

func (s *QuestService) openBatch(ctx context.Context, userID primitive.ObjectID, batch int) error {
	persona, err := s.personas.Get(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.batches.Open(ctx, persona, batch)
	return err
}

// ownedQuest loads a quest and checks it belongs to userID.
func (s *QuestService) ownedQuest(ctx context.Context, userID, id primitive.ObjectID) (*models.Quest, error) {
	return loadOwnedQuest(ctx, s.quests, userID, id)
}

func loadOwnedQuest(ctx context.Context, quests repositories.QuestRepository, userID, id primitive.ObjectID) (*models.Quest, error) {
	quest, err := quests.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.New(apperror.KindNotFound, "Quest not found")
		}
		return nil, fmt.Errorf("failed to load quest: %w", err)
	}
	if quest.UserID != userID {
		return nil, apperror.New(apperror.KindForbidden, "Not authorized to access this quest")
	}
	return quest, nil
}

func parseQuestID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperror.New(apperror.KindValidation, "Invalid quest id").
			WithDetails(map[string]string{"questId": "must be a 24 character hex id"})
	}
	return id, nil
}

func hasLocked(quests []*models.Quest) bool {
	for _, q := range quests {
		if q.Status == models.QuestStatusLocked {
			return true
		}
	}
	return false
}

// questTitles adapts a quest list to fuzzy.Source.
type questTitles []*models.Quest

func (q questTitles) String(i int) string {
	return q[i].Title
}

func (q questTitles) Len() int {
	return len(q)
}
