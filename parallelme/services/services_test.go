package services

import (
	"testing"
	"time"

	"github.com/parallelme/parallelme/parallelme/database/models"
	repomock "github.com/parallelme/parallelme/parallelme/database/repositories/mock"
	gwmock "github.com/parallelme/parallelme/parallelme/gateway/mock"
	"github.com/parallelme/parallelme/parallelme/progression"
	"github.com/parallelme/parallelme/parallelme/services/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fixture struct {
	userID   primitive.ObjectID
	persona  *models.Persona
	users    *repomock.MockUserRepository
	personas *repomock.MockPersonaRepository
	quests   *repomock.MockQuestRepository
	stories  *repomock.MockStoryRepository
	gateway  *gwmock.MockGateway
	archive  *mock.MockArchive

	batchSvc   *BatchGenerator
	personaSvc *PersonaService
	questSvc   *QuestService
	storySvc   *StoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	fx := &fixture{
		userID:   primitive.NewObjectID(),
		users:    repomock.NewMockUserRepository(ctrl),
		personas: repomock.NewMockPersonaRepository(ctrl),
		quests:   repomock.NewMockQuestRepository(ctrl),
		stories:  repomock.NewMockStoryRepository(ctrl),
		gateway:  gwmock.NewMockGateway(ctrl),
		archive:  mock.NewMockArchive(ctrl),
	}
	fx.persona = &models.Persona{
		ID:           primitive.NewObjectID(),
		UserID:       fx.userID,
		Traits:       []string{"confident"},
		Fears:        []string{"public speaking"},
		Inspirations: []string{"Ada Lovelace"},
		Description:  "You stand in front of a room and enjoy the quiet before you speak.",
	}

	fx.batchSvc = NewBatchGenerator(fx.quests, fx.gateway)
	fx.batchSvc.now = fixedNow

	var err error
	fx.personaSvc, err = NewPersonaService(fx.personas, fx.quests, fx.stories, fx.gateway, fx.batchSvc, 8)
	if err != nil {
		t.Fatal(err)
	}
	fx.personaSvc.now = fixedNow

	fx.questSvc = NewQuestService(fx.quests, fx.personaSvc, fx.batchSvc, time.UTC)
	fx.questSvc.now = fixedNow

	fx.storySvc = NewStoryService(fx.stories, fx.quests, fx.personaSvc, fx.gateway, fx.archive)
	fx.storySvc.now = fixedNow
	return fx
}

// withPersona puts the persona in the cache so lookups skip the repository.
func (fx *fixture) withPersona() *fixture {
	fx.personaSvc.cache.Add(fx.userID, fx.persona)
	return fx
}

func testDrafts() []progression.Draft {
	return []progression.Draft{
		{Title: "Give a toast", Description: "Say a few words at dinner.", Category: models.QuestCategorySocial, Difficulty: 2},
		{Title: "Ask one question", Description: "Ask a question in class.", Category: models.QuestCategoryAcademic, Difficulty: 1},
		{Title: "Say hello", Description: "Greet a neighbour.", Category: models.QuestCategorySocial, Difficulty: 1.5},
	}
}

func testQuest(userID primitive.ObjectID, batch, slot int, status string) *models.Quest {
	r, _ := progression.RangeFor(batch)
	d := r.Tiers()[slot]
	return &models.Quest{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       "Quest",
		Description: "Do the thing.",
		Category:    models.QuestCategoryPersonal,
		Difficulty:  d,
		BatchNumber: batch,
		Slot:        slot,
		Status:      status,
		Points:      progression.Points(d),
	}
}

func testBatch(userID primitive.ObjectID, batch int, statuses ...string) []*models.Quest {
	out := make([]*models.Quest, len(statuses))
	for i, st := range statuses {
		out[i] = testQuest(userID, batch, i, st)
	}
	return out
}
