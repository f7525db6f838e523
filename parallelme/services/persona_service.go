package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru"
	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
	"github.com/parallelme/parallelme/parallelme/gateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultPersonaCacheSize = 1024

// PersonaInput holds the three lists a persona is described by.
type PersonaInput struct {
	Traits       []string
	Fears        []string
	Inspirations []string
}

// PersonaUpdate replaces the lists that are non-nil. Regenerate asks for a
// fresh description from the resulting lists.
type PersonaUpdate struct {
	Traits       []string
	Fears        []string
	Inspirations []string
	Regenerate   bool
}

type PersonaService struct {
	personas repositories.PersonaRepository
	quests   repositories.QuestRepository
	stories  repositories.StoryRepository
	gateway  gateway.Gateway
	batches  *BatchGenerator
	cache    *lru.Cache
	now      func() time.Time
}

func NewPersonaService(
	personas repositories.PersonaRepository,
	quests repositories.QuestRepository,
	stories repositories.StoryRepository,
	gw gateway.Gateway,
	batches *BatchGenerator,
	cacheSize int,
) (*PersonaService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultPersonaCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create persona cache: %w", err)
	}
	return &PersonaService{
		personas: personas,
		quests:   quests,
		stories:  stories,
		gateway:  gw,
		batches:  batches,
		cache:    cache,
		now:      time.Now,
	}, nil
}

// Create generates the persona description, stores the persona and opens
// the first quest batch. A failed first batch is retried later by the quest
// service, so it does not fail the creation; questsGenerated is 0 then.
func (s *PersonaService) Create(ctx context.Context, userID primitive.ObjectID, in PersonaInput) (*models.Persona, int, error) {
	in, err := cleanInput(in)
	if err != nil {
		return nil, 0, err
	}

	if _, err = s.personas.GetByUserID(ctx, userID); err == nil {
		return nil, 0, apperror.New(apperror.KindDuplicate, "Persona already exists for this user")
	} else if !repositories.IsNotFound(err) {
		return nil, 0, fmt.Errorf("failed to check existing persona: %w", err)
	}

	description, err := s.describe(ctx, in)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	persona := &models.Persona{
		UserID:       userID,
		Traits:       in.Traits,
		Fears:        in.Fears,
		Inspirations: in.Inspirations,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.personas.Create(ctx, persona); err != nil {
		if repositories.IsConflict(err) {
			return nil, 0, apperror.New(apperror.KindDuplicate, "Persona already exists for this user")
		}
		return nil, 0, fmt.Errorf("failed to create persona: %w", err)
	}
	s.cache.Add(userID, persona)
	slog.Info("Persona created", slog.String("user_id", userID.Hex()))

	generated, err := s.batches.Open(ctx, persona, 1)
	if err != nil {
		slog.Warn("First quest batch not generated, will retry on next quest listing",
			slog.String("user_id", userID.Hex()),
			slog.String("error", err.Error()))
		return clonePersona(persona), 0, nil
	}
	return clonePersona(persona), int(generated), nil
}

// Get returns the user's persona.
func (s *PersonaService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Persona, error) {
	if v, ok := s.cache.Get(userID); ok {
		return clonePersona(v.(*models.Persona)), nil
	}

	persona, err := s.personas.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.New(apperror.KindNotFound, "Persona not found")
		}
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}
	s.cache.Add(userID, persona)
	return clonePersona(persona), nil
}

func (s *PersonaService) Update(ctx context.Context, userID primitive.ObjectID, upd PersonaUpdate) (*models.Persona, error) {
	persona, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := map[string]string{}
	if upd.Traits != nil {
		persona.Traits = cleanList("traits", upd.Traits, details)
	}
	if upd.Fears != nil {
		persona.Fears = cleanList("fears", upd.Fears, details)
	}
	if upd.Inspirations != nil {
		persona.Inspirations = cleanList("inspirations", upd.Inspirations, details)
	}
	if len(details) > 0 {
		return nil, apperror.New(apperror.KindValidation, "Invalid persona details").WithDetails(details)
	}

	if upd.Regenerate {
		persona.Description, err = s.describe(ctx, PersonaInput{
			Traits:       persona.Traits,
			Fears:        persona.Fears,
			Inspirations: persona.Inspirations,
		})
		if err != nil {
			return nil, err
		}
	}
	persona.UpdatedAt = s.now()

	updated, err := s.personas.Update(ctx, persona)
	if err != nil {
		s.cache.Remove(userID)
		if repositories.IsNotFound(err) {
			return nil, apperror.New(apperror.KindNotFound, "Persona not found")
		}
		return nil, fmt.Errorf("failed to update persona: %w", err)
	}
	s.cache.Add(userID, updated)
	return clonePersona(updated), nil
}

// Delete removes the persona and the journey built on it so a new persona
// starts again at batch 1.
func (s *PersonaService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	s.cache.Remove(userID)

	if _, err := s.personas.DeleteByUserID(ctx, userID); err != nil {
		if repositories.IsNotFound(err) {
			return apperror.New(apperror.KindNotFound, "Persona not found")
		}
		return fmt.Errorf("failed to delete persona: %w", err)
	}

	quests, err := s.quests.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete quests: %w", err)
	}
	stories, err := s.stories.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete stories: %w", err)
	}

	slog.Info("Persona deleted",
		slog.String("user_id", userID.Hex()),
		slog.Int64("quests", quests),
		slog.Int64("stories", stories))
	return nil
}

// describe asks the gateway for a description and checks its length.
func (s *PersonaService) describe(ctx context.Context, in PersonaInput) (string, error) {
	description, err := s.gateway.GeneratePersonaDescription(ctx, in.Traits, in.Fears, in.Inspirations)
	if err != nil {
		return "", err
	}
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < models.DescriptionMinLength || n > models.DescriptionMaxLength {
		return "", apperror.Newf(apperror.KindUpstream,
			"AI service returned a description of %d characters, expected %d to %d",
			n, models.DescriptionMinLength, models.DescriptionMaxLength)
	}
	return description, nil
}

func cleanInput(in PersonaInput) (PersonaInput, error) {
	details := map[string]string{}
	out := PersonaInput{
		Traits:       cleanList("traits", in.Traits, details),
		Fears:        cleanList("fears", in.Fears, details),
		Inspirations: cleanList("inspirations", in.Inspirations, details),
	}
	if len(details) > 0 {
		return PersonaInput{}, apperror.New(apperror.KindValidation, "Invalid persona details").WithDetails(details)
	}
	return out, nil
}

// cleanList trims every entry and records a detail for an empty list or entry.
func cleanList(field string, list []string, details map[string]string) []string {
	if len(list) == 0 {
		details[field] = "must contain at least one entry"
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" {
			details[field] = "entries must not be empty"
			return nil
		}
		out = append(out, v)
	}
	return out
}

func clonePersona(p *models.Persona) *models.Persona {
	cp := *p
	cp.Traits = append([]string(nil), p.Traits...)
	cp.Fears = append([]string(nil), p.Fears...)
	cp.Inspirations = append([]string(nil), p.Inspirations...)
	return &cp
}
