package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"github.com/lumanotes/session-backend/internal/repositories"
)

// ErrNotSessionOwner is returned when a remote session logout targets a
// session owned by another user.
var ErrNotSessionOwner = errors.New("session does not belong to user")

// ResolutionState classifies what a request's cookie resolved to. The caller
// at the HTTP boundary interprets the state instead of this service throwing
// redirects.
type ResolutionState int

const (
	// StateAnonymous means no cookie, or a cookie that failed signature checks.
	StateAnonymous ResolutionState = iota
	// StateAuthenticated means the cookie mapped to a live session row.
	StateAuthenticated
	// StateStale means the cookie was validly signed but its session row is
	// gone; the boundary must clear the cookie and treat the request as a
	// forced logout.
	StateStale
)

type Resolution struct {
	State        ResolutionState
	UserID       uuid.UUID
	SessionID    uuid.UUID
	MembershipID uuid.UUID
}

// activeMembershipResolver is the slice of MembershipService that session
// creation needs.
type activeMembershipResolver interface {
	GetActiveMembershipID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type passwordVerifier interface {
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error)
}

// SessionService owns the lifecycle of persisted sessions: creation at login,
// per-request resolution with last_active refresh, enumeration with
// current-device flagging, and single or bulk logout.
type SessionService struct {
	sessions    repositories.SessionRepository
	memberships activeMembershipResolver
	passwords   passwordVerifier
	now         func() time.Time
}

func NewSessionService(
	sessions repositories.SessionRepository,
	memberships activeMembershipResolver,
	passwords passwordVerifier,
) *SessionService {
	return &SessionService{
		sessions:    sessions,
		memberships: memberships,
		passwords:   passwords,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new session bound to the user's active membership. A user
// with no membership is a consistency violation and fails the operation.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, device models.DeviceData) (*models.Session, error) {
	membershipID, err := s.memberships.GetActiveMembershipID(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       userID,
		MembershipID: membershipID,
		Device:       device,
		LastActive:   s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve maps a session id extracted from the request cookie to a
// Resolution. Resolving an authenticated session refreshes last_active before
// returning, so the update is visible to any subsequent request.
func (s *SessionService) Resolve(ctx context.Context, sessionID uuid.UUID) (Resolution, error) {
	if sessionID == uuid.Nil {
		return Resolution{State: StateAnonymous}, nil
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return Resolution{}, err
	}
	if session == nil {
		return Resolution{State: StateStale}, nil
	}

	if err := s.sessions.Update(ctx, session.ID, nil, s.now()); err != nil {
		return Resolution{}, err
	}

	return Resolution{
		State:        StateAuthenticated,
		UserID:       session.UserID,
		SessionID:    session.ID,
		MembershipID: session.MembershipID,
	}, nil
}

// SessionInfo is a session annotated with whether it backs the requesting
// device. The flag is computed per request by id equality, never stored.
type SessionInfo struct {
	models.Session
	IsCurrentDevice bool `json:"is_current_device"`
}

// ListSessions returns the user's sessions ordered by last_active descending.
// When currentID is uuid.Nil no entry is flagged as the current device.
func (s *SessionService) ListSessions(ctx context.Context, userID, currentID uuid.UUID) ([]SessionInfo, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, SessionInfo{
			Session:         session,
			IsCurrentDevice: currentID != uuid.Nil && session.ID == currentID,
		})
	}
	return infos, nil
}

// LogoutSession deletes one session by id. Deleting an id that no longer
// exists is not an error.
func (s *SessionService) LogoutSession(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Delete(ctx, id)
}

// LogoutUserSession deletes a session after checking it belongs to the given
// user, for remote device logout.
func (s *SessionService) LogoutUserSession(ctx context.Context, userID, id uuid.UUID) error {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	if session.UserID != userID {
		return ErrNotSessionOwner
	}
	return s.sessions.Delete(ctx, id)
}

// LogoutOtherSessions deletes every session of the user except the current
// one ("log out everywhere else").
func (s *SessionService) LogoutOtherSessions(ctx context.Context, userID, currentID uuid.UUID) error {
	return s.sessions.DeleteOthers(ctx, userID, currentID)
}

// VerifyPassword re-authenticates the session's user against a freshly
// supplied password before a destructive action.
func (s *SessionService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	return s.passwords.VerifyPassword(ctx, userID, password)
}
