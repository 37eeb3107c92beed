package service

import (
	"context"
	"log/slog"
	"strings"

	"tinysteps/internal/analytics"
	"tinysteps/internal/catalog"
	"tinysteps/internal/clock"
	"tinysteps/internal/models"
	"tinysteps/internal/store"
	"tinysteps/internal/validation"
)

// LoginIdentity is the signup/login input; one of email or phone is required
type LoginIdentity struct {
	Email string `json:"email" validate:"required_without=Phone"`
	Phone string `json:"phone" validate:"required_without=Email"`
}

// normalize trims both fields and lowercases the email
func (li LoginIdentity) normalize() LoginIdentity {
	return LoginIdentity{
		Email: strings.ToLower(strings.TrimSpace(li.Email)),
		Phone: strings.TrimSpace(li.Phone),
	}
}

// LoginKey builds the lookup key for a normalized identity, preferring email
func (li LoginIdentity) LoginKey() string {
	if li.Email != "" {
		return "email:" + li.Email
	}
	if li.Phone != "" {
		return "phone:" + li.Phone
	}
	return ""
}

// NewChild is the child-profile creation input
type NewChild struct {
	DisplayName  string `json:"displayName" validate:"notblank"`
	AgeMonths    *int   `json:"ageMonths" validate:"required,between=36 71"`
	HomeLanguage string `json:"homeLanguage" validate:"notblank"`
	AvatarID     string `json:"avatarId"`
}

// IdentityService is the identity and consent ledger
type IdentityService struct {
	store         *store.Store
	events        *analytics.Sink
	clock         clock.Clock
	notifier      Notifier
	defaultMarket string
	logger        *slog.Logger
}

// NewIdentityService creates a new identity service. notifier may be nil.
func NewIdentityService(st *store.Store, events *analytics.Sink, clk clock.Clock, notifier Notifier, defaultMarket string, logger *slog.Logger) *IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{
		store:         st,
		events:        events,
		clock:         clk,
		notifier:      notifier,
		defaultMarket: defaultMarket,
		logger:        logger,
	}
}

func resolveIdentity(identity LoginIdentity) (LoginIdentity, error) {
	identity = identity.normalize()
	if err := validation.Struct(identity); err != nil {
		return identity, err
	}
	return identity, nil
}

// ResolveOrCreateParent signs a parent up. Repeating a signup with the same
// login key returns the existing parent; created reports which case happened.
func (s *IdentityService) ResolveOrCreateParent(ctx context.Context, identity LoginIdentity) (parent models.Parent, created bool, err error) {
	identity, err = resolveIdentity(identity)
	if err != nil {
		return models.Parent{}, false, err
	}

	parent, created = s.store.GetOrCreateParent(identity.LoginKey(), func(id string) models.Parent {
		return models.Parent{
			ID:        id,
			Email:     identity.Email,
			Phone:     identity.Phone,
			CreatedAt: s.clock.Now(),
		}
	})

	if created {
		s.logger.InfoContext(ctx, "parent created", "parent_id", parent.ID)
	}
	s.events.Log(analytics.ParentSignupCompleted, analytics.Fields{ParentID: parent.ID})

	return parent, created, nil
}

// FindParent resolves an existing parent by login identity without creating one
func (s *IdentityService) FindParent(identity LoginIdentity) (models.Parent, error) {
	identity, err := resolveIdentity(identity)
	if err != nil {
		return models.Parent{}, err
	}

	parent, ok := s.store.ParentByLoginKey(identity.LoginKey())
	if !ok {
		return models.Parent{}, ErrParentNotFound
	}
	return parent, nil
}

// ParentByID returns a parent by id
func (s *IdentityService) ParentByID(parentID string) (models.Parent, error) {
	parent, ok := s.store.ParentByID(parentID)
	if !ok {
		return models.Parent{}, ErrParentNotFound
	}
	return parent, nil
}

// RecordConsent stores the parent's consent, overwriting any earlier record.
// accepted must be explicitly true.
func (s *IdentityService) RecordConsent(ctx context.Context, parentID string, accepted *bool, market string) (models.Consent, error) {
	parent, ok := s.store.ParentByID(parentID)
	if !ok {
		return models.Consent{}, ErrParentNotFound
	}
	if accepted == nil || !*accepted {
		return models.Consent{}, validation.ValidationError{Field: "accepted", Message: "Consent must be accepted to continue."}
	}

	market = strings.TrimSpace(market)
	if market == "" {
		market = s.defaultMarket
	}

	consent := models.Consent{
		ParentID:   parentID,
		Accepted:   true,
		Market:     market,
		AcceptedAt: s.clock.Now(),
	}
	s.store.PutConsent(consent)

	s.events.Log(analytics.ConsentAccepted, analytics.Fields{
		ParentID: parentID,
		Metadata: analytics.Metadata{"market": market},
	})

	if s.notifier != nil {
		if err := s.notifier.ConsentRecorded(ctx, parent, consent); err != nil {
			s.logger.WarnContext(ctx, "failed to send consent receipt", "parent_id", parentID, "error", err)
		}
	}

	return consent, nil
}

// RequireConsent reports whether the parent has an accepted consent record
func (s *IdentityService) RequireConsent(parentID string) bool {
	consent, ok := s.store.Consent(parentID)
	return ok && consent.Accepted
}

// CreateChild creates a child profile for a consenting parent. Nothing is
// minted or stored unless every check passes.
func (s *IdentityService) CreateChild(ctx context.Context, parentID string, input NewChild) (models.Child, error) {
	if !s.RequireConsent(parentID) {
		return models.Child{}, ErrConsentRequired
	}

	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.HomeLanguage = strings.TrimSpace(input.HomeLanguage)
	input.AvatarID = strings.TrimSpace(input.AvatarID)
	if err := validation.Struct(input); err != nil {
		return models.Child{}, err
	}

	ageMonths := *input.AgeMonths
	childID := s.store.NextID("child")
	child := &models.Child{
		ID:               childID,
		DisplayName:      input.DisplayName,
		AgeMonths:        ageMonths,
		HomeLanguage:     input.HomeLanguage,
		AvatarID:         catalog.NormalizeAvatar(input.AvatarID),
		PlacementTrack:   catalog.PlacementTrack(ageMonths),
		CreatedAt:        s.clock.Now(),
		ParentID:         parentID,
		Rewards:          []models.Reward{},
		Progress:         EmptyProgress(childID),
		CompletedUnitIDs: make(map[string]struct{}),
	}
	profile := *child
	s.store.InsertChild(child)

	s.logger.InfoContext(ctx, "child profile created", "parent_id", parentID, "child_id", childID, "placement_track", child.PlacementTrack)

	s.events.Log(analytics.ChildProfileCreated, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"ageMonths": ageMonths, "homeLanguage": input.HomeLanguage},
	})
	s.events.Log(analytics.PlacementCompleted, analytics.Fields{
		ParentID: parentID,
		ChildID:  childID,
		Metadata: analytics.Metadata{"placementTrack": string(child.PlacementTrack)},
	})

	return profile, nil
}

// lockOwnedChild locks a child owned by parentID. Foreign and unknown
// children both yield ErrChildNotFound.
func lockOwnedChild(st *store.Store, parentID, childID string) (*models.Child, func(), error) {
	child, unlock, ok := st.LockChild(childID)
	if !ok {
		return nil, nil, ErrChildNotFound
	}
	if child.ParentID != parentID {
		unlock()
		return nil, nil, ErrChildNotFound
	}
	return child, unlock, nil
}

// ChildFor returns a copy of the parent's child profile
func (s *IdentityService) ChildFor(parentID, childID string) (models.Child, error) {
	child, unlock, err := lockOwnedChild(s.store, parentID, childID)
	if err != nil {
		return models.Child{}, err
	}
	defer unlock()

	return *child, nil
}
