package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"github.com/lumanotes/session-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// IPResolver reports the public address used as audit metadata on login
// attempts. Lookups are best-effort; callers fall back to the direct peer IP.
type IPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}

// CredentialService verifies email/password pairs and creates accounts. Every
// verification that reaches the hash compare writes exactly one login attempt,
// success or failure.
type CredentialService struct {
	users      repositories.UserRepository
	attempts   repositories.LoginAttemptRepository
	ipResolver IPResolver
	bcryptCost int
}

func NewCredentialService(
	users repositories.UserRepository,
	attempts repositories.LoginAttemptRepository,
	ipResolver IPResolver,
	bcryptCost int,
) *CredentialService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CredentialService{
		users:      users,
		attempts:   attempts,
		ipResolver: ipResolver,
		bcryptCost: bcryptCost,
	}
}

// VerifyLogin checks the password against the stored hash. It fails closed
// when the user or its password record is missing. The returned user carries
// no password material.
func (s *CredentialService) VerifyLogin(ctx context.Context, email, password, peerIP string) (*models.User, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.Hash), []byte(password)); err != nil {
		if err := s.recordAttempt(ctx, &user.ID, email, false, peerIP); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.recordAttempt(ctx, &user.ID, email, true, peerIP); err != nil {
		return nil, err
	}

	user.Password = nil
	return user, nil
}

// CreateUser hashes the password and persists the user, password, default
// organization, and admin membership atomically.
func (s *CredentialService) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email}
	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword re-checks a freshly supplied password for an already
// authenticated user, used as a step-up check before destructive actions.
// A missing password record yields not-verified.
func (s *CredentialService) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	record, err := s.users.GetPassword(ctx, userID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.Hash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *CredentialService) UserExists(ctx context.Context, email string) (bool, error) {
	return s.users.ExistsByEmail(ctx, email)
}

func (s *CredentialService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *CredentialService) recordAttempt(ctx context.Context, userID *uuid.UUID, email string, success bool, peerIP string) error {
	attempt := &models.LoginAttempt{
		UserID:      userID,
		Email:       email,
		Success:     success,
		IPAddress:   s.attemptIP(ctx, peerIP),
		AttemptedAt: time.Now().UTC(),
	}
	return s.attempts.Create(ctx, attempt)
}

// attemptIP prefers the external lookup but never blocks login on its failure.
func (s *CredentialService) attemptIP(ctx context.Context, peerIP string) string {
	if s.ipResolver == nil {
		return peerIP
	}
	ip, err := s.ipResolver.PublicIP(ctx)
	if err != nil {
		log.Printf("geoip lookup failed, falling back to peer address: %v", err)
		return peerIP
	}
	return ip
}
