package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("memberships.created_at ASC")
		}).
		Preload("Memberships.Organization").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("memberships.created_at ASC")
		}).
		Preload("Memberships.Organization").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Password").
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetPassword(ctx context.Context, userID uuid.UUID) (*models.Password, error) {
	var password models.Password
	err := r.db.WithContext(ctx).First(&password, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &password, nil
}

// Create inserts the user, its password, a default organization, and an admin
// membership atomically. A failure on any row rolls the whole creation back so
// a user without a membership is never observable.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User, passwordHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		password := &models.Password{
			UserID: user.ID,
			Hash:   passwordHash,
		}
		if err := tx.Create(password).Error; err != nil {
			return err
		}

		org := &models.Organization{Name: models.DefaultOrganizationName}
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		membership := &models.Membership{
			UserID:         user.ID,
			OrganizationID: org.ID,
			Role:           models.RoleAdmin,
		}
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		membership.Organization = org
		user.Memberships = []models.Membership{*membership}
		return nil
	})
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "email = ?", email).Error
}
