package backend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/parallelme/parallelme/backend"
	"github.com/parallelme/parallelme/backend/config"
	"github.com/parallelme/parallelme/backend/handlers"
	"github.com/parallelme/parallelme/internal/testkit"
	"github.com/parallelme/parallelme/parallelme"
	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/gateway"
	"github.com/parallelme/parallelme/parallelme/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type harness struct {
	t     *testing.T
	app   *fiber.App
	store *testkit.Store
	stub  *gateway.Stub
}

func newHarness(t *testing.T, configure ...func(*parallelme.Config)) *harness {
	t.Helper()

	cfg := parallelme.DefaultConfig()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Web.AuthRateLimit = 1000
	for _, fn := range configure {
		fn(cfg)
	}

	store := testkit.NewStore()
	stub := gateway.NewStub()

	auth := services.NewAuthService(store.Users(), services.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	batches := services.NewBatchGenerator(store.Quests(), stub)
	personas, err := services.NewPersonaService(store.Personas(), store.Quests(), store.Stories(), stub, batches, 16)
	require.NoError(t, err)

	app := backend.NewApp(&handlers.WebApp{
		Config:   config.NewWebAppConfig(cfg),
		DB:       store,
		Auth:     auth,
		Personas: personas,
		Quests:   services.NewQuestService(store.Quests(), personas, batches, time.UTC),
		Stories:  services.NewStoryService(store.Stories(), store.Quests(), personas, stub, nil),
		Version:  "test",
		Commit:   "abc123",
	})
	return &harness{t: t, app: app, store: store, stub: stub}
}

func (h *harness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(h.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (h *harness) register(email string) string {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Ada",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	return decode[services.Session](h.t, env).Token
}

func (h *harness) createPersona(token string) (int, envelope) {
	return h.do(http.MethodPost, "/api/personas", token, map[string][]string{
		"traits":       {"confident"},
		"fears":        {"public speaking"},
		"inspirations": {"Ada Lovelace"},
	})
}

func (h *harness) listQuests(token string) services.QuestList {
	h.t.Helper()
	status, env := h.do(http.MethodGet, "/api/quests", token, nil)
	require.Equal(h.t, http.StatusOK, status, env.Message)
	return decode[services.QuestList](h.t, env)
}

// finish starts and completes a quest and returns the completion result.
func (h *harness) finish(token string, q *models.Quest) services.CompletionResult {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/quests/"+q.ID.Hex()+"/start", token, nil)
	require.Equal(h.t, http.StatusOK, status, env.Message)

	status, env = h.do(http.MethodPut, "/api/quests/"+q.ID.Hex()+"/complete", token, map[string]string{"reflection": "Did it!"})
	require.Equal(h.t, http.StatusOK, status, env.Message)
	return decode[services.CompletionResult](h.t, env)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	h.store.SetPingError(errors.New("no reachable servers"))
	status, env = h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, env.Success)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")

	status, env := h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": "ADA@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_RESOURCE", env.Error.Code)

	status, env = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[services.Session](t, env).Token)

	status, env = h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[struct {
		User models.User `json:"user"`
	}](t, env)
	assert.Equal(t, "ada@example.com", me.User.Email)
}

func TestRequiresToken(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "garbage", header: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := h.do(http.MethodGet, "/api/quests", tt.header, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		})
	}
}

func TestRequestSchemas(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{name: "unknown field", path: "/api/personas", body: map[string]interface{}{
			"traits": []string{"a"}, "fears": []string{"b"}, "inspirations": []string{"c"}, "age": 30,
		}},
		{name: "missing list", path: "/api/personas", body: map[string]interface{}{
			"traits": []string{"a"}, "fears": []string{"b"},
		}},
		{name: "wrong type", path: "/api/personas", body: map[string]interface{}{
			"traits": "confident", "fears": []string{"b"}, "inspirations": []string{"c"},
		}},
		{name: "malformed json", path: "/api/personas", body: `{"traits": [`},
		{name: "batch out of range", path: "/api/stories/batch-chapter", body: map[string]int{"batchNumber": 11}},
		{name: "bad quest id", path: "/api/stories/quest-snippet", body: map[string]string{"questId": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := h.do(http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestPersonaCreation(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")

	status, env := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status, env.Message)
	created := decode[struct {
		Persona         models.Persona `json:"persona"`
		QuestsGenerated int            `json:"questsGenerated"`
	}](t, env)
	assert.Equal(t, 3, created.QuestsGenerated)
	assert.GreaterOrEqual(t, len(created.Persona.Description), models.DescriptionMinLength)
	assert.LessOrEqual(t, len(created.Persona.Description), models.DescriptionMaxLength)

	list := h.listQuests(token)
	require.Len(t, list.Quests, 3)
	assert.Equal(t, 1, list.CurrentBatch)
	for _, q := range list.Quests {
		assert.Equal(t, 1, q.BatchNumber)
		assert.Equal(t, models.QuestStatusAvailable, q.Status)
		assert.GreaterOrEqual(t, q.Difficulty, 1.0)
		assert.LessOrEqual(t, q.Difficulty, 2.0)
		assert.Equal(t, int(math.Round(q.Difficulty*5)), q.Points)
	}

	status, env = h.createPersona(token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_RESOURCE", env.Error.Code)
}

func TestPersonaUpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")
	status, _ := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status)

	status, env := h.do(http.MethodPut, "/api/personas/me", token, map[string]interface{}{
		"traits":       []string{"patient", "curious"},
		"regenerateAI": true,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	updated := decode[struct {
		Persona models.Persona `json:"persona"`
	}](t, env)
	assert.Equal(t, []string{"patient", "curious"}, updated.Persona.Traits)
	assert.Equal(t, []string{"public speaking"}, updated.Persona.Fears)
	assert.Contains(t, updated.Persona.Description, "patient, curious")

	status, _ = h.do(http.MethodDelete, "/api/personas/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = h.do(http.MethodGet, "/api/personas/me", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Empty(t, h.store.QuestsOf(mustUserID(t, h, token)))
}

func TestCompleteQuestAndUnlockNextBatch(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")
	status, _ := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status)

	quests := h.listQuests(token).Quests
	require.Len(t, quests, 3)

	// Completing without starting is a state conflict.
	status, env := h.do(http.MethodPut, "/api/quests/"+quests[0].ID.Hex()+"/complete", token, map[string]string{"reflection": "Did it!"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STATE_CONFLICT", env.Error.Code)

	first := h.finish(token, quests[0])
	assert.Equal(t, models.QuestStatusCompleted, first.Quest.Status)
	assert.Equal(t, "Did it!", first.Quest.Reflection)
	assert.NotNil(t, first.Quest.CompletedAt)
	assert.False(t, first.BatchCompleted)

	status, env = h.do(http.MethodGet, "/api/quests/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[struct {
		Stats struct {
			Completed   int `json:"completed"`
			TotalPoints int `json:"totalPoints"`
		} `json:"stats"`
	}](t, env)
	assert.Equal(t, 1, stats.Stats.Completed)
	assert.Equal(t, quests[0].Points, stats.Stats.TotalPoints)

	h.finish(token, quests[1])
	third := h.finish(token, quests[2])
	assert.True(t, third.BatchCompleted)
	assert.True(t, third.UnlockedNewBatch)
	require.NotNil(t, third.NewBatchNumber)
	assert.Equal(t, 2, *third.NewBatchNumber)

	list := h.listQuests(token)
	assert.Equal(t, 2, list.CurrentBatch)
	require.Len(t, list.Quests, 3)
	for _, q := range list.Quests {
		assert.Equal(t, 2, q.BatchNumber)
		assert.Equal(t, models.QuestStatusAvailable, q.Status)
	}

	status, env = h.do(http.MethodGet, "/api/quests/completed?search=step", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[struct {
		Quests []models.Quest `json:"quests"`
	}](t, env).Quests, 3)
}

func TestUnlockPendingIsRetried(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")
	status, _ := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status)
	quests := h.listQuests(token).Quests

	h.stub.FailWith(gateway.OpQuestBatch, apperror.New(apperror.KindUnavailable, "model overloaded"))
	h.finish(token, quests[0])
	h.finish(token, quests[1])
	last := h.finish(token, quests[2])
	assert.True(t, last.BatchCompleted)
	assert.True(t, last.UnlockPending)
	assert.False(t, last.UnlockedNewBatch)

	status, env := h.do(http.MethodPost, "/api/quests/unlock", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)

	h.stub.FailWith(gateway.OpQuestBatch, nil)
	status, env = h.do(http.MethodPost, "/api/quests/unlock", token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	progress := decode[services.Progress](t, env)
	assert.Equal(t, 2, progress.OpenedBatch)
	assert.Equal(t, int64(3), progress.Unlocked)
}

func TestShortBatchIsRefilled(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")

	// The first batch is lost, then only one of its quests gets stored.
	h.stub.FailWith(gateway.OpQuestBatch, apperror.New(apperror.KindUnavailable, "model overloaded"))
	status, env := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status, env.Message)
	created := decode[struct {
		Persona         models.Persona `json:"persona"`
		QuestsGenerated int            `json:"questsGenerated"`
	}](t, env)
	require.Equal(t, 0, created.QuestsGenerated)

	userID := mustUserID(t, h, token)
	err := h.store.Quests().InsertBatch(context.Background(), []*models.Quest{{
		UserID:      userID,
		PersonaID:   created.Persona.ID,
		Title:       "Hold the door",
		Description: "Hold the door for a stranger.",
		Category:    models.QuestCategorySocial,
		Difficulty:  1,
		BatchNumber: 1,
		Slot:        0,
		Status:      models.QuestStatusLocked,
		Points:      5,
	}})
	require.NoError(t, err)
	h.stub.FailWith(gateway.OpQuestBatch, nil)

	quests := h.listQuests(token).Quests
	require.Len(t, quests, 3)
	slots := map[int]bool{}
	for _, q := range quests {
		assert.Equal(t, 1, q.BatchNumber)
		assert.Equal(t, models.QuestStatusAvailable, q.Status)
		slots[q.Slot] = true
	}
	assert.Len(t, slots, 3)

	var last services.CompletionResult
	for _, q := range quests {
		last = h.finish(token, q)
	}
	assert.True(t, last.BatchCompleted)
	assert.True(t, last.UnlockedNewBatch)

	next := h.listQuests(token)
	assert.Equal(t, 2, next.CurrentBatch)
	assert.Len(t, next.Quests, 3)
}

func TestJourneyEndsAfterBatchTen(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")
	status, _ := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status)

	var last services.CompletionResult
	for batch := 1; batch <= 10; batch++ {
		quests := h.listQuests(token).Quests
		require.Len(t, quests, 3, "batch %d", batch)
		for _, q := range quests {
			require.Equal(t, batch, q.BatchNumber)
			last = h.finish(token, q)
		}
	}
	assert.True(t, last.BatchCompleted)
	assert.True(t, last.JourneyComplete)
	assert.Nil(t, last.NewBatchNumber)

	assert.Empty(t, h.listQuests(token).Quests)
	all := h.store.QuestsOf(mustUserID(t, h, token))
	assert.Len(t, all, 30)
	for _, q := range all {
		assert.Equal(t, models.QuestStatusCompleted, q.Status)
		assert.LessOrEqual(t, q.BatchNumber, 10)
	}
}

func TestStories(t *testing.T) {
	h := newHarness(t)
	token := h.register("ada@example.com")
	status, _ := h.createPersona(token)
	require.Equal(t, http.StatusCreated, status)
	quests := h.listQuests(token).Quests

	status, env := h.do(http.MethodPost, "/api/stories/quest-snippet", token, map[string]string{"questId": quests[0].ID.Hex()})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STATE_CONFLICT", env.Error.Code)

	h.finish(token, quests[0])
	status, env = h.do(http.MethodPost, "/api/stories/quest-snippet", token, map[string]string{"questId": quests[0].ID.Hex()})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = h.do(http.MethodPost, "/api/stories/batch-chapter", token, map[string]int{"batchNumber": 1})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = h.do(http.MethodGet, "/api/stories?order=asc", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Stories []models.Story `json:"stories"`
		Count   int            `json:"count"`
	}](t, env)
	assert.Equal(t, 2, list.Count)

	status, env = h.do(http.MethodPost, "/api/stories/export", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)
}

func TestAuthRateLimit(t *testing.T) {
	h := newHarness(t, func(cfg *parallelme.Config) { cfg.Web.AuthRateLimit = 2 })

	login := map[string]string{"email": "nobody@example.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		status, _ := h.do(http.MethodPost, "/api/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, env := h.do(http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	status, env := h.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func mustUserID(t *testing.T, h *harness, token string) primitive.ObjectID {
	t.Helper()
	status, env := h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	return decode[struct {
		User models.User `json:"user"`
	}](t, env).User.ID
}
