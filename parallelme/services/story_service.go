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
	"github.com/parallelme/parallelme/parallelme/gateway"
	"github.com/parallelme/parallelme/parallelme/progression"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const markdownContentType = "text/markdown; charset=utf-8"

// ExportResult locates an uploaded journey transcript.
type ExportResult struct {
	Location        string `json:"location"`
	Stories         int    `json:"stories"`
	CompletedQuests int    `json:"completedQuests"`
}

type StoryService struct {
	stories  repositories.StoryRepository
	quests   repositories.QuestRepository
	personas *PersonaService
	gateway  gateway.Gateway
	archive  Archive
	now      func() time.Time
}

// NewStoryService creates the story service. archive may be nil, which
// disables Export.
func NewStoryService(
	stories repositories.StoryRepository,
	quests repositories.QuestRepository,
	personas *PersonaService,
	gw gateway.Gateway,
	archive Archive,
) *StoryService {
	return &StoryService{
		stories:  stories,
		quests:   quests,
		personas: personas,
		gateway:  gw,
		archive:  archive,
		now:      time.Now,
	}
}

// QuestSnippet narrates a completed quest from the persona's point of view.
func (s *StoryService) QuestSnippet(ctx context.Context, userID primitive.ObjectID, rawQuestID string) (*models.Story, error) {
	id, err := parseQuestID(rawQuestID)
	if err != nil {
		return nil, err
	}
	quest, err := loadOwnedQuest(ctx, s.quests, userID, id)
	if err != nil {
		return nil, err
	}
	if quest.Status != models.QuestStatusCompleted {
		return nil, apperror.New(apperror.KindConflict, "Quest must be completed first")
	}

	persona, err := s.personas.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.gateway.GenerateQuestSnippet(ctx, persona, quest.Title, quest.Reflection)
	if err != nil {
		return nil, err
	}

	questID := quest.ID
	story := &models.Story{
		UserID:      userID,
		PersonaID:   persona.ID,
		Type:        models.StoryTypeQuestSnippet,
		Content:     strings.TrimSpace(content),
		TriggeredBy: quest.ID.Hex(),
		QuestID:     &questID,
		QuestTitle:  quest.Title,
		GeneratedAt: s.now(),
	}
	if err = s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	return story, nil
}

// BatchChapter narrates a batch from its completed quests.
func (s *StoryService) BatchChapter(ctx context.Context, userID primitive.ObjectID, batch int) (*models.Story, error) {
	if !progression.ValidBatch(batch) {
		return nil, apperror.Newf(apperror.KindValidation, "Batch number must be between 1 and %d", progression.TotalBatches).
			WithDetails(map[string]string{"batchNumber": "out of range"})
	}

	quests, err := s.quests.ListByBatch(ctx, userID, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %d: %w", batch, err)
	}
	var titles []string
	for _, q := range quests {
		if q.Status == models.QuestStatusCompleted {
			titles = append(titles, q.Title)
		}
	}
	if len(titles) == 0 {
		return nil, apperror.New(apperror.KindValidation, "No completed quests in this batch")
	}

	persona, err := s.personas.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.gateway.GenerateBatchChapter(ctx, persona, batch, titles)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		UserID:      userID,
		PersonaID:   persona.ID,
		Type:        models.StoryTypeBatchChapter,
		Content:     strings.TrimSpace(content),
		TriggeredBy: models.BatchTrigger(batch),
		BatchNumber: batch,
		GeneratedAt: s.now(),
	}
	if err = s.stories.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	return story, nil
}

func (s *StoryService) List(ctx context.Context, userID primitive.ObjectID, ascending bool) ([]*models.Story, error) {
	stories, err := s.stories.ListByUser(ctx, userID, ascending)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Export renders the journey as Markdown and uploads it to the archive.
func (s *StoryService) Export(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error) {
	if s.archive == nil {
		return nil, apperror.New(apperror.KindUnavailable, "Journey export is not configured")
	}

	persona, err := s.personas.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	quests, err := s.quests.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quests: %w", err)
	}
	stories, err := s.stories.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}

	now := s.now()
	doc := RenderJourney(persona, quests, stories, now)
	key := fmt.Sprintf("journeys/%s/%s.md", userID.Hex(), now.UTC().Format("20060102T150405Z"))

	location, err := s.archive.Put(ctx, key, []byte(doc), markdownContentType)
	if err != nil {
		slog.Error("Journey export failed",
			slog.String("user_id", userID.Hex()),
			slog.String("error", err.Error()))
		return nil, apperror.Wrap(apperror.KindUnavailable, "Journey archive is currently unavailable", err)
	}

	completed := 0
	for _, q := range quests {
		if q.Status == models.QuestStatusCompleted {
			completed++
		}
	}
	return &ExportResult{Location: location, Stories: len(stories), CompletedQuests: completed}, nil
}

// RenderJourney writes a persona's journey as a Markdown document: the
// persona, every quest grouped by batch, then the stories in order.
func RenderJourney(persona *models.Persona, quests []*models.Quest, stories []*models.Story, at time.Time) string {
	var b strings.Builder

	b.WriteString("# My ParallelMe Journey\n\n")
	fmt.Fprintf(&b, "_Exported %s_\n\n", at.UTC().Format(time.RFC3339))

	b.WriteString("## Persona\n\n")
	fmt.Fprintf(&b, "- **Traits:** %s\n", strings.Join(persona.Traits, ", "))
	fmt.Fprintf(&b, "- **Fears:** %s\n", strings.Join(persona.Fears, ", "))
	fmt.Fprintf(&b, "- **Inspirations:** %s\n\n", strings.Join(persona.Inspirations, ", "))
	fmt.Fprintf(&b, "%s\n\n", persona.Description)

	b.WriteString("## Quests\n")
	batch := 0
	for _, q := range quests {
		if q.BatchNumber != batch {
			batch = q.BatchNumber
			fmt.Fprintf(&b, "\n### Batch %d\n\n", batch)
		}
		mark := " "
		if q.Status == models.QuestStatusCompleted {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] **%s** (%s, difficulty %.1f, %d points)\n", mark, q.Title, q.Category, q.Difficulty, q.Points)
		if q.CompletedAt != nil {
			fmt.Fprintf(&b, "  - completed %s\n", q.CompletedAt.UTC().Format("2006-01-02"))
		}
		if q.Reflection != "" {
			fmt.Fprintf(&b, "  > %s\n", q.Reflection)
		}
	}

	if len(stories) > 0 {
		b.WriteString("\n## Story\n")
		for _, st := range stories {
			switch st.Type {
			case models.StoryTypeBatchChapter:
				fmt.Fprintf(&b, "\n### Chapter %d\n\n", st.BatchNumber)
			default:
				fmt.Fprintf(&b, "\n### %s\n\n", st.QuestTitle)
			}
			fmt.Fprintf(&b, "%s\n", st.Content)
		}
	}
	return b.String()
}
