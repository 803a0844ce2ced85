package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
)

type mockUserRepo struct {
	getByIDFunc                func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getByEmailFunc             func(ctx context.Context, email string) (*models.User, error)
	getByEmailWithPasswordFunc func(ctx context.Context, email string) (*models.User, error)
	getPasswordFunc            func(ctx context.Context, userID uuid.UUID) (*models.Password, error)
	createFunc                 func(ctx context.Context, user *models.User, passwordHash string) error
	existsByEmailFunc          func(ctx context.Context, email string) (bool, error)
	deleteByEmailFunc          func(ctx context.Context, email string) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailWithPasswordFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByEmailWithPasswordFunc(ctx, email)
}

func (m *mockUserRepo) GetPassword(ctx context.Context, userID uuid.UUID) (*models.Password, error) {
	if m.getPasswordFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getPasswordFunc(ctx, userID)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User, passwordHash string) error {
	if m.createFunc == nil {
		return errors.New("not implemented")
	}
	return m.createFunc(ctx, user, passwordHash)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFunc == nil {
		return false, errors.New("not implemented")
	}
	return m.existsByEmailFunc(ctx, email)
}

func (m *mockUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	if m.deleteByEmailFunc == nil {
		return errors.New("not implemented")
	}
	return m.deleteByEmailFunc(ctx, email)
}

type mockSessionRepo struct {
	createFunc            func(ctx context.Context, session *models.Session) error
	getByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.Session, error)
	updateFunc            func(ctx context.Context, id uuid.UUID, membershipID *uuid.UUID, lastActive time.Time) error
	deleteFunc            func(ctx context.Context, id uuid.UUID) error
	listByUserFunc        func(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	lastActiveForUserFunc func(ctx context.Context, userID uuid.UUID) (*models.Session, error)
	deleteOthersFunc      func(ctx context.Context, userID, keep uuid.UUID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.createFunc == nil {
		return errors.New("not implemented")
	}
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	if m.getByIDFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockSessionRepo) Update(ctx context.Context, id uuid.UUID, membershipID *uuid.UUID, lastActive time.Time) error {
	if m.updateFunc == nil {
		return errors.New("not implemented")
	}
	return m.updateFunc(ctx, id, membershipID, lastActive)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc == nil {
		return errors.New("not implemented")
	}
	return m.deleteFunc(ctx, id)
}

func (m *mockSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	if m.listByUserFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.listByUserFunc(ctx, userID)
}

func (m *mockSessionRepo) LastActiveForUser(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	if m.lastActiveForUserFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.lastActiveForUserFunc(ctx, userID)
}

func (m *mockSessionRepo) DeleteOthers(ctx context.Context, userID, keep uuid.UUID) error {
	if m.deleteOthersFunc == nil {
		return errors.New("not implemented")
	}
	return m.deleteOthersFunc(ctx, userID, keep)
}

type mockMembershipRepo struct {
	getByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Membership, error)
	getByUserAndIDFunc func(ctx context.Context, userID, id uuid.UUID) (*models.Membership, error)
	firstForUserFunc   func(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
}

func (m *mockMembershipRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	if m.getByIDFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockMembershipRepo) GetByUserAndID(ctx context.Context, userID, id uuid.UUID) (*models.Membership, error) {
	if m.getByUserAndIDFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByUserAndIDFunc(ctx, userID, id)
}

func (m *mockMembershipRepo) FirstForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	if m.firstForUserFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.firstForUserFunc(ctx, userID)
}

type mockAttemptRepo struct {
	createFunc     func(ctx context.Context, attempt *models.LoginAttempt) error
	listByUserFunc func(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error)
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.createFunc == nil {
		return errors.New("not implemented")
	}
	return m.createFunc(ctx, attempt)
}

func (m *mockAttemptRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.LoginAttempt, error) {
	if m.listByUserFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.listByUserFunc(ctx, userID)
}

type stubIPResolver struct {
	ip  string
	err error
}

func (s *stubIPResolver) PublicIP(ctx context.Context) (string, error) {
	return s.ip, s.err
}
