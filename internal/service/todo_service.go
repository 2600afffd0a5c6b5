package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/repository"
)

var (
	// ErrNotFound means the todo is missing or belongs to another user.
	ErrNotFound = errors.New("todo not found")
	// ErrValidation wraps every request rejected before touching the database.
	ErrValidation = errors.New("validation failed")
)

// TodoRequest is the body of both create and update. Update replaces all
// four fields; there is no partial patch. Unknown fields such as owner_id
// are ignored by the decoder and never reach the model.
type TodoRequest struct {
	Title       string `json:"title" validate:"min=3"`
	Description string `json:"description" validate:"min=3,max=100"`
	Priority    int    `json:"priority" validate:"gt=0,lt=6"`
	Complete    *bool  `json:"complete" validate:"required"`
}

// TodoResponse is the representation of a Todo returned by the service.
type TodoResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
	OwnerID     uint   `json:"owner_id"`
}

func toResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Complete:    t.Complete,
		OwnerID:     t.OwnerID,
	}
}

// TodoService defines the operations for managing todos. Every method is
// scoped to ownerID, the id of the authenticated caller.
type TodoService interface {
	// ListTodos returns exactly the todos owned by ownerID, ordered by id.
	ListTodos(ctx context.Context, ownerID uint) ([]TodoResponse, error)

	// GetTodo returns one todo if it exists and is owned by ownerID.
	GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error)

	// CreateTodo validates req and stores a new todo stamped with ownerID.
	CreateTodo(ctx context.Context, ownerID uint, req TodoRequest) (*TodoResponse, error)

	// UpdateTodo overwrites title, description, priority and complete.
	UpdateTodo(ctx context.Context, ownerID, id uint, req TodoRequest) error

	// DeleteTodo removes the todo.
	DeleteTodo(ctx context.Context, ownerID, id uint) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{
		repo: repo,
	}
}

// ValidateID rejects ids that cannot name a row.
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: todo_id must be greater than 0", ErrValidation)
	}
	return nil
}

func (s *todoService) ListTodos(ctx context.Context, ownerID uint) ([]TodoResponse, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.Error("list todos", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error) {
	if err := ValidateID(int64(id)); err != nil {
		return nil, err
	}

	todo, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, s.mapRepoError("get todo", ownerID, id, err)
	}

	resp := toResponse(todo)
	return &resp, nil
}

func (s *todoService) CreateTodo(ctx context.Context, ownerID uint, req TodoRequest) (*TodoResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    *req.Complete,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		logger.Error("create todo", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("create todo: %w", err)
	}

	resp := toResponse(todo)
	return &resp, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, ownerID, id uint, req TodoRequest) error {
	if err := ValidateID(int64(id)); err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	err := s.repo.UpdateByIDAndOwner(ctx, id, ownerID, repository.TodoFields{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    *req.Complete,
	})
	if err != nil {
		return s.mapRepoError("update todo", ownerID, id, err)
	}
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, ownerID, id uint) error {
	if err := ValidateID(int64(id)); err != nil {
		return err
	}

	if err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		return s.mapRepoError("delete todo", ownerID, id, err)
	}
	return nil
}

func (s *todoService) mapRepoError(op string, ownerID, id uint, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	logger.Error(op, "owner_id", ownerID, "todo_id", id, "error", err)
	return fmt.Errorf("%s %d: %w", op, id, err)
}
