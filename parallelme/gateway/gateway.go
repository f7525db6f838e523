// Package gateway produces the generated content of a journey: persona
// descriptions, quest batches and story text. Calls block until the model
// answers or the configured timeout passes, and are never retried here.
package gateway

import (
	"context"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/progression"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock

// Gateway is implemented by GenAI and Stub. Failures carry an apperror
// kind: KindRateLimited, KindUpstreamAuth, KindUnavailable or KindUpstream.
type Gateway interface {
	GeneratePersonaDescription(ctx context.Context, traits, fears, inspirations []string) (string, error)
	// GenerateQuestBatch returns exactly QuestsPerBatch drafts aimed at the
	// given difficulty range. Callers still normalize the result.
	GenerateQuestBatch(ctx context.Context, persona *models.Persona, batch int, difficulty progression.Range) ([]progression.Draft, error)
	GenerateQuestSnippet(ctx context.Context, persona *models.Persona, questTitle, reflection string) (string, error)
	GenerateBatchChapter(ctx context.Context, persona *models.Persona, batch int, completedTitles []string) (string, error)
}

// Operation names used in logs.
const (
	OpPersonaDescription = "persona_description"
	OpQuestBatch         = "quest_batch"
	OpQuestSnippet       = "quest_snippet"
	OpBatchChapter       = "batch_chapter"
)
