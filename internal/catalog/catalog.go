// Package catalog holds the static curriculum: thematic units, activity templates
// and avatars, plus the pure placement and unit selection rules.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"tinysteps/internal/models"
)

const (
	MinAgeMonths = 36
	MaxAgeMonths = 71
)

// Unit is a themed vocabulary set with its phonics sound family
type Unit struct {
	ID          string   `yaml:"id"`
	Theme       string   `yaml:"theme"`
	SoundFamily string   `yaml:"soundFamily"`
	Vocabulary  []string `yaml:"vocabulary"`
}

// ActivityTemplate describes one activity slot of every daily lesson
type ActivityTemplate struct {
	Type        models.ActivityType `yaml:"type"`
	TargetSkill models.SkillArea    `yaml:"targetSkill"`
	Instruction string              `yaml:"instruction"`
}

type document struct {
	Units      []Unit             `yaml:"units"`
	Activities []ActivityTemplate `yaml:"activities"`
	Avatars    []string           `yaml:"avatars"`
}

//go:embed units.yaml
var rawCatalog []byte

var (
	units      []Unit
	activities []ActivityTemplate
	avatars    []string
)

func init() {
	doc, err := parse(rawCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	units, activities, avatars = doc.Units, doc.Activities, doc.Avatars
}

func parse(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(doc.Units) == 0 {
		return nil, fmt.Errorf("catalog has no units")
	}
	for _, unit := range doc.Units {
		if len(unit.Vocabulary) == 0 {
			return nil, fmt.Errorf("unit %s has no vocabulary", unit.ID)
		}
	}
	if len(doc.Activities) == 0 {
		return nil, fmt.Errorf("catalog has no activity templates")
	}
	if len(doc.Avatars) == 0 {
		return nil, fmt.Errorf("catalog has no avatars")
	}
	return &doc, nil
}

// Units returns the ordered unit list. Callers must not modify it.
func Units() []Unit {
	return units
}

// ActivityPlan returns the ordered activity templates. Callers must not modify it.
func ActivityPlan() []ActivityTemplate {
	return activities
}

// Avatars returns the allowed avatar ids; the first one is the fallback
func Avatars() []string {
	return avatars
}

// NormalizeAvatar returns avatarID when it is a known avatar, the default otherwise
func NormalizeAvatar(avatarID string) string {
	for _, id := range avatars {
		if id == avatarID {
			return avatarID
		}
	}
	return avatars[0]
}

// PlacementTrack maps an age in months to its curriculum entry band
func PlacementTrack(ageMonths int) models.PlacementTrack {
	switch {
	case ageMonths <= 41:
		return models.TrackStarterA
	case ageMonths <= 53:
		return models.TrackStarterB
	default:
		return models.TrackStarterC
	}
}

// UnitForSession picks the unit round-robin by sessions already completed
func UnitForSession(sessionsCompleted int) Unit {
	if sessionsCompleted < 0 {
		sessionsCompleted = 0
	}
	return units[sessionsCompleted%len(units)]
}

// SpeechPrompt builds the text-to-speech reference for a prompt
func SpeechPrompt(text string) string {
	return "speech:" + text
}
