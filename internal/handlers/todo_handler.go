package handlers

import (
	"todoapp/internal/middleware"
	"todoapp/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TodoHandler handles HTTP requests for todos.
type TodoHandler struct {
	service  *services.TodoService
	validate *validator.Validate
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(service *services.TodoService) *TodoHandler {
	return &TodoHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the todo routes. Only the per-status listings and
// creation go through requireAuth; the routes addressing a todo by id are open.
func (h *TodoHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/get_todo", h.HandleGetTodos)
	router.Get("/get-incomplete-todo/", requireAuth, h.HandleGetIncompleteTodos)
	router.Get("/get-todo/:id", h.HandleGetTodoByID)
	router.Get("/get-completed-todo/", requireAuth, h.HandleGetCompletedTodos)
	router.Post("/create-todo", requireAuth, h.HandleCreateTodo)
	router.Delete("/delete-todo/:id", h.HandleDeleteTodo)
	router.Put("/update-todo/:id", h.HandleUpdateTodo)
	router.Patch("/complete-task/:id", h.HandleCompleteTask)
}

// TodoRequest is the body of create and update requests. Any owner supplied
// by the client is ignored.
type TodoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// HandleGetTodos lists the todos of every user.
func (h *TodoHandler) HandleGetTodos(c *fiber.Ctx) error {
	todos, err := h.service.GetAllTodos(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Items not found")
	}
	return c.JSON(todos)
}

// HandleGetIncompleteTodos lists the caller's open todos.
func (h *TodoHandler) HandleGetIncompleteTodos(c *fiber.Ctx) error {
	todos, err := h.service.GetIncompleteTodos(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return errorResponse(c, err, "Items not found")
	}
	return c.JSON(todos)
}

// HandleGetCompletedTodos lists the caller's completed todos.
func (h *TodoHandler) HandleGetCompletedTodos(c *fiber.Ctx) error {
	todos, err := h.service.GetCompletedTodos(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return errorResponse(c, err, "No completed items found")
	}
	return c.JSON(todos)
}

// HandleGetTodoByID returns one todo.
func (h *TodoHandler) HandleGetTodoByID(c *fiber.Ctx) error {
	id, ok, err := todoID(c)
	if !ok {
		return err
	}
	todo, err := h.service.GetTodoByID(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "No item matched")
	}
	return c.JSON(todo)
}

// HandleCreateTodo creates a todo owned by the caller.
func (h *TodoHandler) HandleCreateTodo(c *fiber.Ctx) error {
	var req TodoRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	todo, err := h.service.CreateTodo(c.UserContext(), middleware.CurrentUser(c), req.Title, req.Description)
	if err != nil {
		return errorResponse(c, err, "Could not create todo")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Todo created successfully",
		"todo":    todo,
	})
}

// HandleDeleteTodo deletes a todo.
func (h *TodoHandler) HandleDeleteTodo(c *fiber.Ctx) error {
	id, ok, err := todoID(c)
	if !ok {
		return err
	}
	if err := h.service.DeleteTodo(c.UserContext(), id); err != nil {
		return errorResponse(c, err, "Item not found")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Todo deleted successfully",
	})
}

// HandleUpdateTodo replaces the title and description of a todo.
func (h *TodoHandler) HandleUpdateTodo(c *fiber.Ctx) error {
	id, ok, err := todoID(c)
	if !ok {
		return err
	}
	var req TodoRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	todo, err := h.service.UpdateTodo(c.UserContext(), id, req.Title, req.Description)
	if err != nil {
		return errorResponse(c, err, "Item not found")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Todo updated successfully",
		"todo":    todo,
	})
}

// HandleCompleteTask marks a todo complete.
func (h *TodoHandler) HandleCompleteTask(c *fiber.Ctx) error {
	id, ok, err := todoID(c)
	if !ok {
		return err
	}
	if err := h.service.CompleteTask(c.UserContext(), id); err != nil {
		detail := "Item not found"
		if statusFor(err) == fiber.StatusNotAcceptable {
			detail = "Task already complete"
		}
		return errorResponse(c, err, detail)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Task marked as complete successfully",
	})
}
