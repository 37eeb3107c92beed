package models

// ActivityType is the closed set of lesson activity kinds
type ActivityType string

const (
	ActivityListenTap    ActivityType = "listen_tap"
	ActivityMatchPicture ActivityType = "match_picture"
	ActivityLetterSound  ActivityType = "letter_sound"
	ActivityRepeatAudio  ActivityType = "repeat_audio"
	ActivityTraceTap     ActivityType = "trace_tap"
)

// Activity is a single step of a daily lesson; immutable once generated
type Activity struct {
	ID             string       `json:"id"`
	Type           ActivityType `json:"type"`
	PromptAudioURL string       `json:"promptAudioUrl"`
	AssetIDs       []string     `json:"assetIds"`
	TargetSkill    SkillArea    `json:"targetSkill"`
}

// DailyLesson is the lesson a child gets for one calendar day
type DailyLesson struct {
	LessonID         string     `json:"lessonId"`
	ChildID          string     `json:"childId"`
	UnitID           string     `json:"unitId"`
	Activities       []Activity `json:"activities"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
}

// ActivityIDs returns the ids of the lesson's activities in order
func (l *DailyLesson) ActivityIDs() []string {
	ids := make([]string, len(l.Activities))
	for i, activity := range l.Activities {
		ids[i] = activity.ID
	}
	return ids
}
