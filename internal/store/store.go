// Package store is the process-lifetime state of the learning core: every
// collection, the per-kind id counters and the per-child write locks.
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tinysteps/internal/models"
)

// Store owns all in-memory collections. Map structure is guarded by mu;
// a child's records (profile, progress, rewards, its sessions) are only
// mutated while that child's lock is held.
type Store struct {
	mu sync.RWMutex

	// runID names one lifetime of the id counters. Ids restart on Reset and
	// on process start, so records copied out of the store carry it.
	runID    string
	counters map[string]uint64

	parents          map[string]*models.Parent
	parentByLoginKey map[string]string
	consents         map[string]models.Consent
	children         map[string]*models.Child
	childLocks       map[string]*sync.Mutex
	lessons          map[string]*models.DailyLesson
	sessions         map[string]*models.Session
	deletions        []models.DeletionRequest
}

// New creates an empty store
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset clears every collection and every id counter
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runID = uuid.NewString()
	s.counters = make(map[string]uint64)
	s.parents = make(map[string]*models.Parent)
	s.parentByLoginKey = make(map[string]string)
	s.consents = make(map[string]models.Consent)
	s.children = make(map[string]*models.Child)
	s.childLocks = make(map[string]*sync.Mutex)
	s.lessons = make(map[string]*models.DailyLesson)
	s.sessions = make(map[string]*models.Session)
	s.deletions = nil
}

// RunID returns the id of the current counter lifetime
func (s *Store) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// NextID mints the next id for an entity kind, e.g. "child_00000003"
func (s *Store) NextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[prefix]++
	return fmt.Sprintf("%s_%08d", prefix, s.counters[prefix])
}

// GetOrCreateParent returns the parent registered under loginKey, creating it
// with build when the key is new. The bool reports whether it was created.
func (s *Store) GetOrCreateParent(loginKey string, build func(id string) models.Parent) (models.Parent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.parentByLoginKey[loginKey]; ok {
		return *s.parents[id], false
	}

	s.counters["parent"]++
	parent := build(fmt.Sprintf("parent_%08d", s.counters["parent"]))
	s.parents[parent.ID] = &parent
	s.parentByLoginKey[loginKey] = parent.ID
	return parent, true
}

// ParentByLoginKey looks a parent up by normalized login key
func (s *Store) ParentByLoginKey(loginKey string) (models.Parent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.parentByLoginKey[loginKey]
	if !ok {
		return models.Parent{}, false
	}
	return *s.parents[id], true
}

// ParentByID looks a parent up by id
func (s *Store) ParentByID(parentID string) (models.Parent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, ok := s.parents[parentID]
	if !ok {
		return models.Parent{}, false
	}
	return *parent, true
}

// PutConsent stores a parent's consent, replacing any previous record
func (s *Store) PutConsent(consent models.Consent) {
	s.mu.Lock()
	s.consents[consent.ParentID] = consent
	s.mu.Unlock()
}

// Consent returns a parent's consent record
func (s *Store) Consent(parentID string) (models.Consent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	consent, ok := s.consents[parentID]
	return consent, ok
}

// InsertChild registers a fully built child profile
func (s *Store) InsertChild(child *models.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.children[child.ID] = child
	s.childLocks[child.ID] = &sync.Mutex{}
}

// LockChild acquires the child's write lock and returns the live record.
// The caller must call unlock. ok is false when the child does not exist.
func (s *Store) LockChild(childID string) (child *models.Child, unlock func(), ok bool) {
	s.mu.RLock()
	lock, found := s.childLocks[childID]
	s.mu.RUnlock()
	if !found {
		return nil, nil, false
	}

	lock.Lock()

	s.mu.RLock()
	child, found = s.children[childID]
	s.mu.RUnlock()
	if !found {
		lock.Unlock()
		return nil, nil, false
	}
	return child, lock.Unlock, true
}

// LessonKey is the cache key of a child's lesson for one calendar day
func LessonKey(childID, dateKey string) string {
	return childID + ":" + dateKey
}

// Lesson returns the cached lesson for a (child, day) key
func (s *Store) Lesson(key string) (*models.DailyLesson, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lesson, ok := s.lessons[key]
	return lesson, ok
}

// PutLesson caches a lesson under a (child, day) key
func (s *Store) PutLesson(key string, lesson *models.DailyLesson) {
	s.mu.Lock()
	s.lessons[key] = lesson
	s.mu.Unlock()
}

// PutSession stores a session
func (s *Store) PutSession(session *models.Session) {
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
}

// Session returns the live session record
func (s *Store) Session(sessionID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	return session, ok
}

// AppendDeletion adds a request to the deletion queue
func (s *Store) AppendDeletion(request models.DeletionRequest) {
	s.mu.Lock()
	s.deletions = append(s.deletions, request)
	s.mu.Unlock()
}

// Deletions returns a copy of the deletion queue in request order
func (s *Store) Deletions() []models.DeletionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queue := make([]models.DeletionRequest, len(s.deletions))
	copy(queue, s.deletions)
	return queue
}
