package service

import (
	"context"
	"log/slog"
	"time"

	"tinysteps/internal/analytics"
	"tinysteps/internal/clock"
	"tinysteps/internal/lesson"
	"tinysteps/internal/metrics"
	"tinysteps/internal/models"
	"tinysteps/internal/store"
)

// recentRewardCount is how many rewards the progress view carries
const recentRewardCount = 5

// RewardPolicy chooses the reward minted for a completed session
type RewardPolicy interface {
	RewardFor(child *models.Child) (models.RewardType, string)
}

// StickerPolicy always awards the same sticker
type StickerPolicy struct{}

func (StickerPolicy) RewardFor(*models.Child) (models.RewardType, string) {
	return models.RewardSticker, "Shiny Star"
}

// Completion is the result of completing a session. Progress is nil when
// the completion was a replay.
type Completion struct {
	SessionID   string                   `json:"sessionId"`
	CompletedAt time.Time                `json:"completedAt"`
	Reward      models.Reward            `json:"reward"`
	Progress    *models.ProgressSnapshot `json:"progress,omitempty"`
	Idempotent  bool                     `json:"idempotent,omitempty"`
}

// ProgressView is a child's progress plus their most recent rewards
type ProgressView struct {
	models.ProgressSnapshot
	Rewards []models.Reward `json:"rewards"`
}

// SessionService is the session and progress engine. Every read or write of
// a child's records runs under that child's store lock.
type SessionService struct {
	store   *store.Store
	lessons *lesson.Generator
	events  *analytics.Sink
	clock   clock.Clock
	rewards RewardPolicy
	logger  *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(st *store.Store, lessons *lesson.Generator, events *analytics.Sink, clk clock.Clock, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		store:   st,
		lessons: lessons,
		events:  events,
		clock:   clk,
		rewards: StickerPolicy{},
		logger:  logger,
	}
}

// todayLessonLocked returns the cached lesson for today, generating it on a
// miss. The child's lock must be held.
func (s *SessionService) todayLessonLocked(child *models.Child) *models.DailyLesson {
	key := store.LessonKey(child.ID, lesson.DateKey(s.clock.Now()))
	if cached, ok := s.store.Lesson(key); ok {
		return cached
	}

	generated := s.lessons.Generate(child.ID, child.Progress.SessionsCompleted)
	s.store.PutLesson(key, generated)
	return generated
}

// TodayLesson returns the child's lesson for the current UTC day
func (s *SessionService) TodayLesson(parentID, childID string) (models.DailyLesson, error) {
	child, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return models.DailyLesson{}, err
	}
	defer unlock()

	return *s.todayLessonLocked(child), nil
}

// StartSession opens a new session against today's lesson
func (s *SessionService) StartSession(ctx context.Context, parentID, childID string) (models.Session, models.DailyLesson, error) {
	child, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return models.Session{}, models.DailyLesson{}, err
	}
	defer unlock()

	today := s.todayLessonLocked(child)
	session := &models.Session{
		ID:                   s.store.NextID("session"),
		ParentID:             parentID,
		ChildID:              childID,
		LessonID:             today.LessonID,
		StartedAt:            s.clock.Now(),
		CompletedActivityIDs: []string{},
	}
	s.store.PutSession(session)

	metrics.SessionsStarted.Inc()
	s.logger.DebugContext(ctx, "session started", "child_id", childID, "session_id", session.ID, "lesson_id", today.LessonID)

	s.events.Log(analytics.LessonStarted, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"sessionId": session.ID, "lessonId": today.LessonID},
	})

	return *session, *today, nil
}

// CompleteSession records a session's completion exactly once. A repeated
// call returns the stored completion time and reward with Idempotent set,
// and changes nothing.
func (s *SessionService) CompleteSession(ctx context.Context, parentID, childID, sessionID string, activityIDs []string) (Completion, error) {
	child, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return Completion{}, err
	}
	defer unlock()

	session, ok := s.store.Session(sessionID)
	if !ok || !session.OwnedBy(parentID, childID) {
		return Completion{}, ErrSessionNotFound
	}

	if session.IsCompleted() {
		metrics.CompletionReplays.Inc()
		s.logger.DebugContext(ctx, "session completion replayed", "session_id", sessionID)
		return Completion{
			SessionID:   session.ID,
			CompletedAt: *session.CompletedAt,
			Reward:      *session.Reward,
			Idempotent:  true,
		}, nil
	}

	now := s.clock.Now()
	completedIDs := make([]string, len(activityIDs))
	copy(completedIDs, activityIDs)

	rewardType, label := s.rewards.RewardFor(child)
	reward := models.Reward{
		ID:       s.store.NextID("reward"),
		Type:     rewardType,
		Label:    label,
		EarnedAt: now,
	}

	session.CompletedActivityIDs = completedIDs
	session.CompletedAt = &now
	session.Reward = &reward

	child.Rewards = append(child.Rewards, reward)

	progress := &child.Progress
	progress.SessionsCompleted++
	progress.LastActiveAt = &now
	if today, ok := s.store.Lesson(store.LessonKey(childID, lesson.DateKey(now))); ok {
		if child.CompletedUnitIDs == nil {
			child.CompletedUnitIDs = make(map[string]struct{})
		}
		child.CompletedUnitIDs[today.UnitID] = struct{}{}
	}
	progress.UnitsCompleted = len(child.CompletedUnitIDs)
	progress.MilestoneBySkill = MilestonesFor(progress.SessionsCompleted)

	metrics.SessionsCompleted.Inc()
	s.logger.InfoContext(ctx, "session completed",
		"child_id", childID,
		"session_id", sessionID,
		"sessions_completed", progress.SessionsCompleted,
	)

	for _, activityID := range completedIDs {
		s.events.Log(analytics.ActivityCompleted, analytics.Fields{
			ParentID: parentID,
			ChildID:  childID,
			Metadata: analytics.Metadata{"sessionId": sessionID, "activityId": activityID},
		})
	}
	s.events.Log(analytics.LessonCompleted, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"sessionId": sessionID, "lessonId": session.LessonID},
	})
	s.events.Log(analytics.RewardEarned, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"rewardId": reward.ID, "rewardType": string(reward.Type)},
	})

	snapshot := progress.Clone()
	return Completion{
		SessionID:   session.ID,
		CompletedAt: now,
		Reward:      reward,
		Progress:    &snapshot,
	}, nil
}

// GetProgress returns the child's progress with their last five rewards
func (s *SessionService) GetProgress(parentID, childID string) (ProgressView, error) {
	child, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return ProgressView{}, err
	}
	defer unlock()

	view := ProgressView{
		ProgressSnapshot: child.Progress.Clone(),
		Rewards:          child.RecentRewards(recentRewardCount),
	}

	s.events.Log(analytics.DashboardViewed, analytics.Fields{ParentID: parentID, ChildID: childID})

	return view, nil
}
