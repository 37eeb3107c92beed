package handlers

import (
	"net/http"

	"tinysteps/internal/security"
	"tinysteps/internal/service"
)

// ParentHandler handles parent signup, login and consent
type ParentHandler struct {
	identity *service.IdentityService
	tokens   *security.TokenRegistry
}

// NewParentHandler creates a new parent handler
func NewParentHandler(identity *service.IdentityService, tokens *security.TokenRegistry) *ParentHandler {
	return &ParentHandler{identity: identity, tokens: tokens}
}

type identityRequest struct {
	Email interface{} `json:"email"`
	Phone interface{} `json:"phone"`
}

func (req identityRequest) identity() service.LoginIdentity {
	return service.LoginIdentity{Email: stringValue(req.Email), Phone: stringValue(req.Phone)}
}

type authResponse struct {
	ParentID string `json:"parentId"`
	Token    string `json:"token"`
}

// Signup resolves or creates a parent and issues a token
func (h *ParentHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	parent, _, err := h.identity.ResolveOrCreateParent(r.Context(), req.identity())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{ParentID: parent.ID, Token: h.tokens.Issue(parent.ID)})
}

// Login issues a token for an existing parent
func (h *ParentHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	parent, err := h.identity.FindParent(req.identity())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{ParentID: parent.ID, Token: h.tokens.Issue(parent.ID)})
}

type consentRequest struct {
	Accepted interface{} `json:"accepted"`
	Market   interface{} `json:"market"`
}

// RecordConsent stores the authenticated parent's consent
func (h *ParentHandler) RecordConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	parentID := GetParentIDFromContext(r.Context())
	consent, err := h.identity.RecordConsent(r.Context(), parentID, boolValue(req.Accepted), stringValue(req.Market))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, consent)
}
