package handlers

import (
	"net/http"

	"tinysteps/internal/models"
	"tinysteps/internal/service"
)

// ChildHandler handles child profiles and everything scoped to one child
type ChildHandler struct {
	identity  *service.IdentityService
	sessions  *service.SessionService
	deletions *service.DeletionService
}

// NewChildHandler creates a new child handler
func NewChildHandler(identity *service.IdentityService, sessions *service.SessionService, deletions *service.DeletionService) *ChildHandler {
	return &ChildHandler{identity: identity, sessions: sessions, deletions: deletions}
}

type createChildRequest struct {
	DisplayName  interface{} `json:"displayName"`
	AgeMonths    interface{} `json:"ageMonths"`
	HomeLanguage interface{} `json:"homeLanguage"`
	AvatarID     interface{} `json:"avatarId"`
}

// CreateChild creates a child profile for the authenticated parent
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	child, err := h.identity.CreateChild(r.Context(), GetParentIDFromContext(r.Context()), service.NewChild{
		DisplayName:  stringValue(req.DisplayName),
		AgeMonths:    intValue(req.AgeMonths),
		HomeLanguage: stringValue(req.HomeLanguage),
		AvatarID:     stringValue(req.AvatarID),
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}

// TodayLesson returns the child's lesson for the current day
func (h *ChildHandler) TodayLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.sessions.TodayLesson(GetParentIDFromContext(r.Context()), r.PathValue("childId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lesson)
}

type startSessionResponse struct {
	SessionID  string            `json:"sessionId"`
	LessonID   string            `json:"lessonId"`
	Activities []models.Activity `json:"activities"`
}

// StartSession opens a learning session against today's lesson
func (h *ChildHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, lesson, err := h.sessions.StartSession(r.Context(), GetParentIDFromContext(r.Context()), r.PathValue("childId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:  session.ID,
		LessonID:   lesson.LessonID,
		Activities: lesson.Activities,
	})
}

type completeSessionRequest struct {
	SessionID            interface{} `json:"sessionId"`
	CompletedActivityIDs interface{} `json:"completedActivityIds"`
}

// CompleteSession records a session's completion; repeats replay the stored result
func (h *ChildHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	completion, err := h.sessions.CompleteSession(
		r.Context(),
		GetParentIDFromContext(r.Context()),
		r.PathValue("childId"),
		stringValue(req.SessionID),
		stringSlice(req.CompletedActivityIDs),
	)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, completion)
}

// Progress returns the child's progress dashboard
func (h *ChildHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.sessions.GetProgress(GetParentIDFromContext(r.Context()), r.PathValue("childId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

// RequestDeletion queues deletion of the child's data
func (h *ChildHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	request, err := h.deletions.RequestDeletion(r.Context(), GetParentIDFromContext(r.Context()), r.PathValue("childId"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, request)
}
