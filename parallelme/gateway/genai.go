package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/logger"
	"github.com/parallelme/parallelme/parallelme/progression"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// contentGenerator is the part of genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GenAI generates content with the Gemini API.
type GenAI struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

func NewGenAI(ctx context.Context, cfg GenAIConfig) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenAI(client.Models, cfg.Model, cfg.Timeout), nil
}

func newGenAI(models contentGenerator, model string, timeout time.Duration) *GenAI {
	return &GenAI{models: models, model: model, timeout: timeout}
}

// generate sends one prompt and returns the trimmed text of the answer.
func (g *GenAI) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		err = classify(err)
		logger.LogGateway(op, time.Since(start), err, slog.String("model", g.model))
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err = apperror.New(apperror.KindUpstream, "AI service returned an empty response.")
		logger.LogGateway(op, time.Since(start), err, slog.String("model", g.model))
		return "", err
	}
	logger.LogGateway(op, time.Since(start), nil,
		slog.String("model", g.model),
		slog.Int("chars", len(text)))
	return text, nil
}

// textConfig disables thinking: 2.5 models count thought tokens against
// MaxOutputTokens and can exhaust it before any text is produced.
func textConfig(maxTokens int32, temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: maxTokens,
		Temperature:     genai.Ptr(temperature),
		ThinkingConfig:  &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
}

var draftSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":           {Type: genai.TypeString},
			"description":     {Type: genai.TypeString},
			"category":        {Type: genai.TypeString, Enum: models.QuestCategories},
			"difficultyLevel": {Type: genai.TypeNumber},
		},
		Required: []string{"title", "description", "category", "difficultyLevel"},
	},
}

func (g *GenAI) GeneratePersonaDescription(ctx context.Context, traits, fears, inspirations []string) (string, error) {
	prompt, err := render("persona", personaPrompt{Traits: traits, Fears: fears, Inspirations: inspirations})
	if err != nil {
		return "", fmt.Errorf("failed to render persona prompt: %w", err)
	}
	return g.generate(ctx, OpPersonaDescription, prompt, textConfig(1024, 0.9))
}

func (g *GenAI) GenerateQuestBatch(ctx context.Context, persona *models.Persona, batch int, difficulty progression.Range) ([]progression.Draft, error) {
	prompt, err := render("quests", questsPrompt{
		Persona:      persona,
		Batch:        batch,
		TotalBatches: progression.TotalBatches,
		Range:        difficulty,
		Categories:   models.QuestCategories,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render quest prompt: %w", err)
	}

	config := textConfig(2048, 0.8)
	config.ResponseMIMEType = "application/json"
	config.ResponseSchema = draftSchema

	text, err := g.generate(ctx, OpQuestBatch, prompt, config)
	if err != nil {
		return nil, err
	}
	return parseDrafts(text)
}

func (g *GenAI) GenerateQuestSnippet(ctx context.Context, persona *models.Persona, questTitle, reflection string) (string, error) {
	prompt, err := render("snippet", snippetPrompt{Persona: persona, QuestTitle: questTitle, Reflection: reflection})
	if err != nil {
		return "", fmt.Errorf("failed to render snippet prompt: %w", err)
	}
	return g.generate(ctx, OpQuestSnippet, prompt, textConfig(400, 1.0))
}

func (g *GenAI) GenerateBatchChapter(ctx context.Context, persona *models.Persona, batch int, completedTitles []string) (string, error) {
	prompt, err := render("chapter", chapterPrompt{
		Persona:      persona,
		Batch:        batch,
		TotalBatches: progression.TotalBatches,
		Titles:       completedTitles,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render chapter prompt: %w", err)
	}
	return g.generate(ctx, OpBatchChapter, prompt, textConfig(1024, 1.0))
}
