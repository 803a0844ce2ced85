package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"github.com/lumanotes/session-backend/internal/repositories"
)

var (
	// ErrNoMembership signals a consistency violation: a user must own at
	// least one membership at all times.
	ErrNoMembership = errors.New("user has no memberships")
	// ErrMembershipNotOwned is returned when a tenant switch targets a
	// membership that does not belong to the requesting user.
	ErrMembershipNotOwned = errors.New("membership does not belong to user")
)

// MembershipService resolves which tenant context a login operates under and
// handles explicit tenant switches.
type MembershipService struct {
	memberships repositories.MembershipRepository
	sessions    repositories.SessionRepository
}

func NewMembershipService(
	memberships repositories.MembershipRepository,
	sessions repositories.SessionRepository,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		sessions:    sessions,
	}
}

// GetActiveMembershipID prefers the membership of the user's most recently
// active session and falls back to the user's first membership when no
// session exists.
func (s *MembershipService) GetActiveMembershipID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	last, err := s.sessions.LastActiveForUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if last != nil {
		return last.MembershipID, nil
	}

	first, err := s.memberships.FirstForUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if first == nil {
		return uuid.Nil, ErrNoMembership
	}
	return first.ID, nil
}

func (s *MembershipService) GetActiveMembership(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	id, err := s.GetActiveMembershipID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.memberships.GetByID(ctx, id)
}

// SwitchMembership persists a new active membership onto the session. The
// target membership must belong to the requesting user; the lookup is scoped
// to the user rather than trusting the raw id. A nil membership id is a no-op.
func (s *MembershipService) SwitchMembership(ctx context.Context, sessionID, userID, membershipID uuid.UUID) error {
	if membershipID == uuid.Nil {
		return nil
	}

	membership, err := s.memberships.GetByUserAndID(ctx, userID, membershipID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMembershipNotOwned
	}

	return s.sessions.Update(ctx, sessionID, &membership.ID, time.Now().UTC())
}
