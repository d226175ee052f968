package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"todoapp/internal/models"
	"todoapp/internal/repositories"
)

// Routing keys of the todo lifecycle events.
const (
	EventTodoCreated   = "todo.created"
	EventTodoUpdated   = "todo.updated"
	EventTodoCompleted = "todo.completed"
	EventTodoDeleted   = "todo.deleted"

	todoExchange = "todo"
)

// EventPublisher publishes a message body under a routing key.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// TodoEvent is the payload published for every todo mutation.
type TodoEvent struct {
	Event  string    `json:"event"`
	TodoID uint      `json:"todo_id"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

// TodoService handles business logic related to todos.
//
// Listings treat an empty result as ErrNotFound. Lookups and mutations by id
// are not scoped to the caller; only the per-status listings and Create are.
type TodoService struct {
	repo   repositories.TodoRepository
	events EventPublisher
}

// NewTodoService creates a new TodoService. events may be nil, in which case
// nothing is published.
func NewTodoService(repo repositories.TodoRepository, events EventPublisher) *TodoService {
	return &TodoService{
		repo:   repo,
		events: events,
	}
}

// GetAllTodos retrieves the todos of every user.
func (s *TodoService) GetAllTodos(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, fmt.Errorf("todos: %w", ErrNotFound)
	}
	return todos, nil
}

// GetIncompleteTodos retrieves the open todos owned by user.
func (s *TodoService) GetIncompleteTodos(ctx context.Context, user *models.User) ([]models.Todo, error) {
	return s.byStatus(ctx, user, false)
}

// GetCompletedTodos retrieves the completed todos owned by user.
func (s *TodoService) GetCompletedTodos(ctx context.Context, user *models.User) ([]models.Todo, error) {
	return s.byStatus(ctx, user, true)
}

func (s *TodoService) byStatus(ctx context.Context, user *models.User, complete bool) ([]models.Todo, error) {
	todos, err := s.repo.GetByOwnerAndStatus(ctx, user.ID, complete)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, fmt.Errorf("todos of user %d with complete=%t: %w", user.ID, complete, ErrNotFound)
	}
	return todos, nil
}

// GetTodoByID retrieves a single todo by its ID.
func (s *TodoService) GetTodoByID(ctx context.Context, id uint) (*models.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return todo, nil
}

// CreateTodo stores a new open todo owned by user.
func (s *TodoService) CreateTodo(ctx context.Context, user *models.User, title, description string) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       title,
		Description: description,
		Complete:    false,
		UserID:      user.ID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}
	log.Printf("Created todo %d for user %s", todo.ID, user.Username)
	s.publish(EventTodoCreated, todo)
	return todo, nil
}

// UpdateTodo replaces the title and description of a todo.
func (s *TodoService) UpdateTodo(ctx context.Context, id uint, title, description string) (*models.Todo, error) {
	todo, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	todo.Title = title
	todo.Description = description
	if err := s.repo.Update(ctx, todo); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	s.publish(EventTodoUpdated, todo)
	return todo, nil
}

// DeleteTodo deletes a todo by its ID.
func (s *TodoService) DeleteTodo(ctx context.Context, id uint) error {
	todo, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("todo %d: %w", id, ErrNotFound)
		}
		return err
	}
	s.publish(EventTodoDeleted, todo)
	return nil
}

// CompleteTask marks a todo complete. Completing it a second time fails with
// ErrAlreadyComplete.
func (s *TodoService) CompleteTask(ctx context.Context, id uint) error {
	todo, err := s.GetTodoByID(ctx, id)
	if err != nil {
		return err
	}
	if todo.Complete {
		return fmt.Errorf("todo %d: %w", id, ErrAlreadyComplete)
	}
	todo.Complete = true
	if err := s.repo.Update(ctx, todo); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("todo %d: %w", id, ErrNotFound)
		}
		return err
	}
	s.publish(EventTodoCompleted, todo)
	return nil
}

// publish sends a lifecycle event. Failures are logged and never returned.
func (s *TodoService) publish(event string, todo *models.Todo) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(TodoEvent{
		Event:  event,
		TodoID: todo.ID,
		UserID: todo.UserID,
		At:     time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for todo %d: %v", event, todo.ID, err)
		return
	}
	if err := s.events.Publish(todoExchange, event, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for todo %d: %v", event, todo.ID, err)
	}
}
