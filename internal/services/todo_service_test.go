package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"todoapp/internal/models"
	"todoapp/internal/repositories"
	"todoapp/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notFound(id uint) error {
	return fmt.Errorf("todo with ID %d: %w", id, repositories.ErrRecordNotFound)
}

func TestTodoService_GetAllTodos(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil)

	expected := []models.Todo{
		{ID: 1, Title: "a", UserID: 1},
		{ID: 2, Title: "b", UserID: 2},
	}
	mockRepo.On("GetAll", mock.Anything).Return(expected, nil).Once()
	todos, err := service.GetAllTodos(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, todos)

	// An empty table is reported as not found, not as an empty list
	mockRepo.On("GetAll", mock.Anything).Return([]models.Todo{}, nil).Once()
	todos, err = service.GetAllTodos(ctx)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Nil(t, todos)
	mockRepo.AssertExpectations(t)
}

func TestTodoService_ListsByStatusAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil)
	alice := &models.User{ID: 3, Username: "alice"}

	open := []models.Todo{{ID: 1, Title: "open", UserID: 3}}
	mockRepo.On("GetByOwnerAndStatus", mock.Anything, uint(3), false).Return(open, nil).Once()
	todos, err := service.GetIncompleteTodos(ctx, alice)
	assert.NoError(t, err)
	assert.Equal(t, open, todos)

	mockRepo.On("GetByOwnerAndStatus", mock.Anything, uint(3), true).Return([]models.Todo{}, nil).Once()
	_, err = service.GetCompletedTodos(ctx, alice)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestTodoService_GetTodoByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil)

	todo := &models.Todo{ID: 5, Title: "x", UserID: 1}
	mockRepo.On("GetByID", mock.Anything, uint(5)).Return(todo, nil).Once()
	got, err := service.GetTodoByID(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, todo, got)

	mockRepo.On("GetByID", mock.Anything, uint(6)).Return(nil, notFound(6)).Once()
	_, err = service.GetTodoByID(ctx, 6)
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockRepo.On("GetByID", mock.Anything, uint(7)).Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = service.GetTodoByID(ctx, 7)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestTodoService_CreateTodo(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewTodoService(mockRepo, mockEvents)
	alice := &models.User{ID: 9, Username: "alice"}

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(todo *models.Todo) bool {
		return todo.UserID == 9 && !todo.Complete && todo.Title == "x" && todo.Description == "y"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Todo).ID = 11
	}).Return(nil).Once()
	mockEvents.On("Publish", "todo", services.EventTodoCreated, mock.MatchedBy(func(body []byte) bool {
		var event services.TodoEvent
		return json.Unmarshal(body, &event) == nil &&
			event.Event == services.EventTodoCreated &&
			event.TodoID == 11 &&
			event.UserID == 9
	})).Return(nil).Once()

	todo, err := service.CreateTodo(ctx, alice, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, uint(11), todo.ID)
	assert.Equal(t, uint(9), todo.UserID)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestTodoService_PublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewTodoService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	mockEvents.On("Publish", "todo", services.EventTodoCreated, mock.Anything).
		Return(fmt.Errorf("channel closed")).Once()

	_, err := service.CreateTodo(ctx, &models.User{ID: 1}, "x", "y")
	assert.NoError(t, err)
	mockEvents.AssertExpectations(t)
}

func TestTodoService_UpdateTodo(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Todo{ID: 1, Title: "old", Description: "old", Complete: true, UserID: 2}, nil).Once()
	mockRepo.On("Update", mock.Anything, &models.Todo{ID: 1, Title: "new", Description: "desc", Complete: true, UserID: 2}).
		Return(nil).Once()

	todo, err := service.UpdateTodo(ctx, 1, "new", "desc")
	require.NoError(t, err)
	assert.Equal(t, "new", todo.Title)
	assert.Equal(t, uint(2), todo.UserID, "update never reassigns the owner")
	assert.True(t, todo.Complete, "update never touches the completion flag")

	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, notFound(2)).Once()
	_, err = service.UpdateTodo(ctx, 2, "new", "desc")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestTodoService_DeleteTodo(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewTodoService(mockRepo, mockEvents)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Todo{ID: 1, UserID: 2}, nil).Once()
	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	mockEvents.On("Publish", "todo", services.EventTodoDeleted, mock.Anything).Return(nil).Once()
	assert.NoError(t, service.DeleteTodo(ctx, 1))

	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, notFound(2)).Once()
	assert.ErrorIs(t, service.DeleteTodo(ctx, 2), services.ErrNotFound)

	// Deleted concurrently between the lookup and the delete
	mockRepo.On("GetByID", mock.Anything, uint(3)).Return(&models.Todo{ID: 3, UserID: 2}, nil).Once()
	mockRepo.On("Delete", mock.Anything, uint(3)).
		Return(fmt.Errorf("todo with ID 3 for deletion: %w", repositories.ErrRecordNotFound)).Once()
	assert.ErrorIs(t, service.DeleteTodo(ctx, 3), services.ErrNotFound)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestTodoService_CompleteTask(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewTodoService(mockRepo, mockEvents)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Todo{ID: 1, UserID: 2}, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(todo *models.Todo) bool {
		return todo.ID == 1 && todo.Complete
	})).Return(nil).Once()
	mockEvents.On("Publish", "todo", services.EventTodoCompleted, mock.Anything).Return(nil).Once()
	assert.NoError(t, service.CompleteTask(ctx, 1))

	// Completing twice is rejected rather than ignored
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.Todo{ID: 1, UserID: 2, Complete: true}, nil).Once()
	assert.ErrorIs(t, service.CompleteTask(ctx, 1), services.ErrAlreadyComplete)

	mockRepo.On("GetByID", mock.Anything, uint(4)).Return(nil, notFound(4)).Once()
	assert.ErrorIs(t, service.CompleteTask(ctx, 4), services.ErrNotFound)

	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}
