// Package testkit provides in-memory repositories with the same conflict and
// not-found behavior as the MongoDB ones, for end to end tests.
package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/database/repositories"
)

// Store holds every collection behind one lock. Documents are copied on the
// way in and out so callers never share memory with the store.
type Store struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	personas map[primitive.ObjectID]models.Persona // by user
	quests   map[primitive.ObjectID]models.Quest
	stories  map[primitive.ObjectID]models.Story
	pingErr  error
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]models.User),
		personas: make(map[primitive.ObjectID]models.Persona),
		quests:   make(map[primitive.ObjectID]models.Quest),
		stories:  make(map[primitive.ObjectID]models.Story),
	}
}

func (s *Store) Users() repositories.UserRepository       { return userRepo{s} }
func (s *Store) Personas() repositories.PersonaRepository { return personaRepo{s} }
func (s *Store) Quests() repositories.QuestRepository     { return questRepo{s} }
func (s *Store) Stories() repositories.StoryRepository    { return storyRepo{s} }

// Ping returns the error set with SetPingError.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *Store) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// QuestsOf returns a snapshot of the user's quests ordered by batch and slot.
func (s *Store) QuestsOf(userID primitive.ObjectID) []*models.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questsWhere(func(q *models.Quest) bool { return q.UserID == userID }, byBatchSlot)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return &repositories.ConflictError{Entity: "user", Field: "email", Value: user.Email}
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "user", ID: id.Hex()}
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "user", ID: email}
}

type personaRepo struct{ s *Store }

func (r personaRepo) Create(_ context.Context, persona *models.Persona) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.personas[persona.UserID]; ok {
		return &repositories.ConflictError{Entity: "persona", Field: "user_id", Value: persona.UserID.Hex()}
	}
	now := time.Now()
	if persona.ID.IsZero() {
		persona.ID = primitive.NewObjectID()
	}
	if persona.CreatedAt.IsZero() {
		persona.CreatedAt = now
	}
	persona.UpdatedAt = now
	r.s.personas[persona.UserID] = clonePersona(*persona)
	return nil
}

func (r personaRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Persona, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personas[userID]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "persona", ID: userID.Hex()}
	}
	p = clonePersona(p)
	return &p, nil
}

func (r personaRepo) Update(_ context.Context, persona *models.Persona) (*models.Persona, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personas[persona.UserID]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "persona", ID: persona.UserID.Hex()}
	}
	p.Traits = persona.Traits
	p.Fears = persona.Fears
	p.Inspirations = persona.Inspirations
	p.Description = persona.Description
	p.UpdatedAt = time.Now()
	p = clonePersona(p)
	r.s.personas[persona.UserID] = p
	out := clonePersona(p)
	return &out, nil
}

func (r personaRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (*models.Persona, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personas[userID]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "persona", ID: userID.Hex()}
	}
	delete(r.s.personas, userID)
	return &p, nil
}

func clonePersona(p models.Persona) models.Persona {
	p.Traits = append([]string(nil), p.Traits...)
	p.Fears = append([]string(nil), p.Fears...)
	p.Inspirations = append([]string(nil), p.Inspirations...)
	return p
}

type storyRepo struct{ s *Store }

func (r storyRepo) Create(_ context.Context, story *models.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if story.ID.IsZero() {
		story.ID = primitive.NewObjectID()
	}
	if story.GeneratedAt.IsZero() {
		story.GeneratedAt = time.Now()
	}
	r.s.stories[story.ID] = *story
	return nil
}

func (r storyRepo) ListByUser(_ context.Context, userID primitive.ObjectID, ascending bool) ([]*models.Story, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stories := make([]*models.Story, 0)
	for _, st := range r.s.stories {
		if st.UserID == userID {
			st := st
			stories = append(stories, &st)
		}
	}
	sort.SliceStable(stories, func(i, j int) bool {
		if ascending {
			return stories[i].GeneratedAt.Before(stories[j].GeneratedAt)
		}
		return stories[i].GeneratedAt.After(stories[j].GeneratedAt)
	})
	return stories, nil
}

func (r storyRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, st := range r.s.stories {
		if st.UserID == userID {
			delete(r.s.stories, id)
			n++
		}
	}
	return n, nil
}
