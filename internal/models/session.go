package models

import "time"

// Session is one learning session bound to a day's lesson.
// It moves from started to completed exactly once.
type Session struct {
	ID                   string     `json:"id"`
	ParentID             string     `json:"parentId"`
	ChildID              string     `json:"childId"`
	LessonID             string     `json:"lessonId"`
	StartedAt            time.Time  `json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	CompletedActivityIDs []string   `json:"completedActivityIds"`
	Reward               *Reward    `json:"reward,omitempty"`
}

// IsCompleted reports whether the session has already recorded its completion
func (s *Session) IsCompleted() bool {
	return s.CompletedAt != nil && s.Reward != nil
}

// OwnedBy reports whether the session belongs to the parent/child pair
func (s *Session) OwnedBy(parentID, childID string) bool {
	return s.ParentID == parentID && s.ChildID == childID
}
