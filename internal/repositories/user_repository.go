package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
	GetPassword(ctx context.Context, userID uuid.UUID) (*models.Password, error)
	// Create persists the user together with its password record, a default
	// organization, and an admin membership in one transaction.
	Create(ctx context.Context, user *models.User, passwordHash string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	DeleteByEmail(ctx context.Context, email string) error
}
