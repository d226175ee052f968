package repositories

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/models"

	"gorm.io/gorm"
)

// GORMTodoRepository is a GORM implementation of TodoRepository.
type GORMTodoRepository struct {
	db *gorm.DB
}

// NewGORMTodoRepository creates a new instance of GORMTodoRepository.
func NewGORMTodoRepository(db *gorm.DB) *GORMTodoRepository {
	return &GORMTodoRepository{
		db: db,
	}
}

// GetAll retrieves all todos regardless of owner.
func (r *GORMTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.db.WithContext(ctx).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to get all todos: %w", err)
	}
	return todos, nil
}

// GetByOwnerAndStatus retrieves the todos of one user filtered by completion.
func (r *GORMTodoRepository) GetByOwnerAndStatus(ctx context.Context, userID uint, complete bool) ([]models.Todo, error) {
	var todos []models.Todo
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND complete = ?", userID, complete).
		Order("id").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get todos of user %d: %w", userID, err)
	}
	return todos, nil
}

// GetByID retrieves a single todo by its ID from the database.
func (r *GORMTodoRepository) GetByID(ctx context.Context, id uint) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get todo by ID %d: %w", id, err)
	}
	return &todo, nil
}

// Create creates a new todo in the database.
func (r *GORMTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// Update writes every column of an existing todo.
func (r *GORMTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	// Save would insert a missing row, so update explicitly by primary key.
	res := r.db.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", todo.ID).Updates(map[string]interface{}{
		"title":       todo.Title,
		"description": todo.Description,
		"complete":    todo.Complete,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("todo with ID %d for update: %w", todo.ID, ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a todo by its ID from the database.
func (r *GORMTodoRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Todo{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("todo with ID %d for deletion: %w", id, ErrRecordNotFound)
	}
	return nil
}
