package gateway

import (
	"strings"
	"text/template"

	"github.com/parallelme/parallelme/parallelme/database/models"
	"github.com/parallelme/parallelme/parallelme/progression"
)

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
{{define "persona"}}You are a compassionate life coach helping someone envision their best self.

Traits they wish they had:
{{range .Traits}}- {{.}}
{{end}}
Fears they want to overcome:
{{range .Fears}}- {{.}}
{{end}}
Inspirations they look up to:
{{range .Inspirations}}- {{.}}
{{end}}
Write a 2-3 paragraph description of their "alternate self", a version of them who has developed these traits, overcome these fears and embodies the qualities of their inspirations.
Use "you" language, a warm and encouraging tone, and keep it realistic but aspirational. 150-250 words.{{end}}

{{define "quests"}}You are a supportive personal growth coach helping someone become their best self.

PERSONA DESCRIPTION:
{{.Persona.Description}}

THEIR FEARS: {{join .Persona.Fears ", "}}
TRAITS THEY WANT TO DEVELOP: {{join .Persona.Traits ", "}}
WHO INSPIRES THEM: {{join .Persona.Inspirations ", "}}

TASK: Generate 3 personalized confidence-building quests for Batch {{.Batch}} (out of {{.TotalBatches}} total batches).
DIFFICULTY LEVEL: {{.Range.Min}} to {{.Range.Max}} out of 10.
{{- if eq .Batch 1}}
These are their FIRST quests. Make them achievable and encouraging.
{{- end}}
{{- if eq .Batch .TotalBatches}}
These are their FINAL quests. Make them transformative and challenging.
{{- end}}

Guidelines:
- Each quest directly helps them overcome their fears or develop their desired traits.
- Each quest is ONE specific, actionable task they can complete in 1-7 days.
- Increase difficulty: quest 1 ({{.Range.Min}}), quest 2 ({{.Range.Mid}}), quest 3 ({{.Range.Max}}).
- Categories: {{join .Categories ", "}}.

Return ONLY a JSON array of 3 objects with fields "title" (max 8 words), "description" (2-3 sentences), "category" and "difficultyLevel" (number).{{end}}

{{define "snippet"}}You are a creative writer helping someone visualize their personal growth journey.

Their alternate self: "{{.Persona.Description}}"
They just completed the quest: "{{.QuestTitle}}"
Their reflection: "{{.Reflection}}"

Write a SHORT, inspiring 50-80 word story snippet showing their alternate self taking a small step forward, connected to the quest they completed.
Second person, present tense, vivid imagery. No quotation marks or dialogue.{{end}}

{{define "chapter"}}You are a creative writer helping someone visualize their personal growth journey.

Their alternate self: "{{.Persona.Description}}"
They just completed Batch {{.Batch}} of {{.TotalBatches}} of their confidence-building journey.
Quests completed in this batch:
{{range .Titles}}- {{.}}
{{end}}
{{- if eq .Batch 1}}This is their very first batch. The journey begins.
{{else if eq .Batch .TotalBatches}}This is their FINAL batch. The journey culminates here.
{{else if ge .Batch 5}}They are halfway through their transformation.
{{end}}
Write a 200-250 word story chapter, Chapter {{.Batch}} of their hero's journey, showing their alternate self overcoming a significant challenge.
Second person, past tense. Structure: setup, challenge, breakthrough. No quotation marks or dialogue.{{end}}
`))

type personaPrompt struct {
	Traits       []string
	Fears        []string
	Inspirations []string
}

type questsPrompt struct {
	Persona      *models.Persona
	Batch        int
	TotalBatches int
	Range        progression.Range
	Categories   []string
}

type snippetPrompt struct {
	Persona    *models.Persona
	QuestTitle string
	Reflection string
}

type chapterPrompt struct {
	Persona      *models.Persona
	Batch        int
	TotalBatches int
	Titles       []string
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
