package lesson

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinysteps/internal/models"
)

type counterIDs struct {
	counts map[string]int
}

func (c *counterIDs) NextID(prefix string) string {
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[prefix]++
	return fmt.Sprintf("%s_%08d", prefix, c.counts[prefix])
}

func TestGenerateFirstLesson(t *testing.T) {
	g := NewGenerator(&counterIDs{}, 9)

	lesson := g.Generate("child_00000001", 0)

	assert.Equal(t, "u01", lesson.UnitID)
	assert.Equal(t, "child_00000001", lesson.ChildID)
	assert.Equal(t, "lesson_00000001", lesson.LessonID)
	assert.Equal(t, 9, lesson.EstimatedMinutes)
	require.Len(t, lesson.Activities, 5)

	first := lesson.Activities[0]
	assert.Equal(t, "act_00000001", first.ID)
	assert.Equal(t, models.ActivityListenTap, first.Type)
	assert.Equal(t, models.SkillListening, first.TargetSkill)
	assert.Equal(t, "speech:Listen and tap the picture. Theme Family. Word mama.", first.PromptAudioURL)
	assert.Equal(t, []string{"image:mama", "theme:family"}, first.AssetIDs)

	assert.Equal(t, []string{"image:home", "theme:family"}, lesson.Activities[3].AssetIDs)
	assert.Equal(t, models.ActivityLetterSound, lesson.Activities[3].Type)
	assert.Equal(t, models.SkillPhonics, lesson.Activities[3].TargetSkill)

	for _, activity := range lesson.Activities {
		assert.True(t, strings.HasPrefix(activity.PromptAudioURL, "speech:"))
	}
}

func TestGenerateWordCursorFollowsSessions(t *testing.T) {
	g := NewGenerator(&counterIDs{}, 0)

	lesson := g.Generate("child_00000001", 13)

	// 13 mod 12 -> u02 Colors; first word index 13 mod 10 = 3 -> green
	assert.Equal(t, "u02", lesson.UnitID)
	assert.Equal(t, "image:green", lesson.Activities[0].AssetIDs[0])
	assert.Equal(t, "image:pink", lesson.Activities[2].AssetIDs[0])
	assert.Equal(t, "theme:colors", lesson.Activities[0].AssetIDs[1])
	assert.Equal(t, DefaultEstimatedMinutes, lesson.EstimatedMinutes)
}

func TestGenerateMintsFreshIDs(t *testing.T) {
	g := NewGenerator(&counterIDs{}, 9)

	a := g.Generate("child_00000001", 2)
	b := g.Generate("child_00000001", 2)

	assert.NotEqual(t, a.LessonID, b.LessonID)
	assert.NotEqual(t, a.ActivityIDs(), b.ActivityIDs())
	assert.Equal(t, a.UnitID, b.UnitID)
}

func TestDateKey(t *testing.T) {
	at := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("SGT", 8*3600))
	assert.Equal(t, "2026-10-18", DateKey(at))

	late := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-18", DateKey(late))
	assert.Equal(t, "2026-10-19", DateKey(late.Add(time.Hour)))
}
