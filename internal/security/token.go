package security

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// TokenPrefix marks bearer tokens issued by the registry
const TokenPrefix = "tok_"

// TokenRegistry maps opaque bearer tokens to parent ids. Tokens live for
// the life of the process; there is no expiry or revocation.
type TokenRegistry struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewTokenRegistry creates an empty token registry
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{tokens: make(map[string]string)}
}

// Issue mints a new token for a parent. Every call returns a fresh token.
func (r *TokenRegistry) Issue(parentID string) string {
	token := TokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")

	r.mu.Lock()
	r.tokens[token] = parentID
	r.mu.Unlock()

	return token
}

// Resolve returns the parent id a token was issued for
func (r *TokenRegistry) Resolve(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parentID, ok := r.tokens[token]
	return parentID, ok
}

// Reset forgets every issued token
func (r *TokenRegistry) Reset() {
	r.mu.Lock()
	r.tokens = make(map[string]string)
	r.mu.Unlock()
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is case-insensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
