// Package lesson derives a child's daily lesson from progress and the catalog.
package lesson

import (
	"fmt"
	"strings"
	"time"

	"tinysteps/internal/catalog"
	"tinysteps/internal/models"
)

// activitiesPerLesson caps how many catalog templates a lesson uses
const activitiesPerLesson = 5

// DefaultEstimatedMinutes is used when no estimate is configured
const DefaultEstimatedMinutes = 9

// IDSource mints entity ids
type IDSource interface {
	NextID(prefix string) string
}

// Generator builds daily lessons. It is not idempotent: every call mints
// fresh lesson and activity ids, and caching per day is the caller's job.
type Generator struct {
	ids              IDSource
	estimatedMinutes int
}

// NewGenerator creates a lesson generator
func NewGenerator(ids IDSource, estimatedMinutes int) *Generator {
	if estimatedMinutes <= 0 {
		estimatedMinutes = DefaultEstimatedMinutes
	}
	return &Generator{ids: ids, estimatedMinutes: estimatedMinutes}
}

// Generate builds a lesson for the child's current progress
func (g *Generator) Generate(childID string, sessionsCompleted int) *models.DailyLesson {
	unit := catalog.UnitForSession(sessionsCompleted)

	plan := catalog.ActivityPlan()
	if len(plan) > activitiesPerLesson {
		plan = plan[:activitiesPerLesson]
	}

	activities := make([]models.Activity, 0, len(plan))
	for index, template := range plan {
		word := pickWord(unit.Vocabulary, sessionsCompleted+index)
		prompt := fmt.Sprintf("%s Theme %s. Word %s.", template.Instruction, unit.Theme, word)

		activities = append(activities, models.Activity{
			ID:             g.ids.NextID("act"),
			Type:           template.Type,
			PromptAudioURL: catalog.SpeechPrompt(prompt),
			AssetIDs:       []string{"image:" + word, "theme:" + strings.ToLower(unit.Theme)},
			TargetSkill:    template.TargetSkill,
		})
	}

	return &models.DailyLesson{
		LessonID:         g.ids.NextID("lesson"),
		ChildID:          childID,
		UnitID:           unit.ID,
		Activities:       activities,
		EstimatedMinutes: g.estimatedMinutes,
	}
}

func pickWord(words []string, cursor int) string {
	return words[cursor%len(words)]
}

// DateKey is the UTC calendar day a lesson is cached under
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
