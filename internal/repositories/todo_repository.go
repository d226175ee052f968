package repositories

import (
	"context"

	"todoapp/internal/models"
)

// TodoRepository defines the interface for todo data access.
type TodoRepository interface {
	GetAll(ctx context.Context) ([]models.Todo, error)
	// GetByOwnerAndStatus returns the todos of userID whose completion flag equals complete.
	GetByOwnerAndStatus(ctx context.Context, userID uint, complete bool) ([]models.Todo, error)
	GetByID(ctx context.Context, id uint) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id uint) error
}
