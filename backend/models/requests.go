package models

import (
	dbmodels "github.com/parallelme/parallelme/parallelme/database/models"
)

// Request bodies. Each one is checked against the JSON schema of the same
// name in utils/schemas before it is decoded.

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PersonaCreateRequest struct {
	Traits       []string `json:"traits"`
	Fears        []string `json:"fears"`
	Inspirations []string `json:"inspirations"`
}

// PersonaUpdateRequest leaves omitted lists unchanged.
type PersonaUpdateRequest struct {
	Traits       []string `json:"traits"`
	Fears        []string `json:"fears"`
	Inspirations []string `json:"inspirations"`
	RegenerateAI bool     `json:"regenerateAI"`
}

type QuestCompleteRequest struct {
	Reflection string `json:"reflection"`
}

type QuestSnippetRequest struct {
	QuestID string `json:"questId"`
}

type BatchChapterRequest struct {
	BatchNumber int `json:"batchNumber"`
}

// PersonaCreated is returned when a persona is created.
type PersonaCreated struct {
	Persona         *dbmodels.Persona `json:"persona"`
	QuestsGenerated int               `json:"questsGenerated"`
}

// CompletedQuests is the completed quest listing.
type CompletedQuests struct {
	Quests []*dbmodels.Quest `json:"quests"`
	Count  int               `json:"count"`
}

// StoryList is the story listing.
type StoryList struct {
	Stories []*dbmodels.Story `json:"stories"`
	Count   int               `json:"count"`
}
