package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/logger"
	"github.com/parallelme/parallelme/parallelme/progression"
)

// Stub returns deterministic content without calling a model. It backs
// development setups without an API key and the end to end tests.
type Stub struct {
	mu   sync.RWMutex
	fail map[string]error
}

func NewStub() *Stub {
	return &Stub{fail: make(map[string]error)}
}

// FailWith makes the operation op return err until cleared with a nil err.
func (s *Stub) FailWith(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *Stub) failure(op string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	err := s.fail[op]
	logger.LogGateway(op, time.Duration(0), err, "stub", true)
	return err
}

func first(list []string, fallback string) string {
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return fallback
}

func (s *Stub) GeneratePersonaDescription(_ context.Context, traits, fears, inspirations []string) (string, error) {
	if err := s.failure(OpPersonaDescription); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"You are someone who has grown into being %s. The fear of %s no longer decides what you try; "+
			"you notice it, breathe, and take the next step anyway. Like %s, you treat every small attempt "+
			"as practice, and you are proud of how far that practice has carried you.",
		strings.Join(traits, ", "),
		first(fears, "failing"),
		first(inspirations, "the people you admire"),
	), nil
}

var stubCategories = [progression.QuestsPerBatch]string{
	models.QuestCategorySocial,
	models.QuestCategoryPersonal,
	models.QuestCategoryCareer,
}

func (s *Stub) GenerateQuestBatch(_ context.Context, persona *models.Persona, batch int, difficulty progression.Range) ([]progression.Draft, error) {
	if err := s.failure(OpQuestBatch); err != nil {
		return nil, err
	}
	trait := first(persona.Traits, "brave")
	fear := first(persona.Fears, "the unknown")

	drafts := make([]progression.Draft, progression.QuestsPerBatch)
	for i, d := range difficulty.Tiers() {
		drafts[i] = progression.Draft{
			Title:       fmt.Sprintf("Batch %d step %d: be %s", batch, i+1, trait),
			Description: fmt.Sprintf("Take one concrete action this week that moves you past %s. Notice how it felt afterwards.", fear),
			Category:    stubCategories[i],
			Difficulty:  d,
		}
	}
	return drafts, nil
}

func (s *Stub) GenerateQuestSnippet(_ context.Context, persona *models.Persona, questTitle, reflection string) (string, error) {
	if err := s.failure(OpQuestSnippet); err != nil {
		return "", err
	}
	return fmt.Sprintf("You finish %q and pause. %s The version of you that was %s a few weeks ago would not recognize this calm.",
		questTitle, strings.TrimSpace(reflection), first(persona.Fears, "afraid")), nil
}

func (s *Stub) GenerateBatchChapter(_ context.Context, persona *models.Persona, batch int, completedTitles []string) (string, error) {
	if err := s.failure(OpBatchChapter); err != nil {
		return "", err
	}
	return fmt.Sprintf("Chapter %d. You carried %d quests through this stretch of the road: %s. Each one asked you to be %s a little longer than was comfortable, and each time you were.",
		batch, len(completedTitles), strings.Join(completedTitles, "; "), first(persona.Traits, "brave")), nil
}
