package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/domain"
)

// ErrNotFound is returned when no row matches the owner-scoped predicate.
// A row owned by someone else is reported the same way as a missing one.
var ErrNotFound = errors.New("record not found")

// TodoRepository defines the owner-scoped todo data operations.
// Every lookup and mutation takes both the todo id and the owner id.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]domain.Todo, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID uint, fields TodoFields) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint) error
}

// TodoFields are the four columns an update replaces.
type TodoFields struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) conn(ctx context.Context) *gorm.DB {
	return database.SessionFrom(ctx, r.db)
}

func ownedBy(id, ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND owner_id = ?", id, ownerID)
	}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.conn(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.conn(ctx).Scopes(ownedBy(id, ownerID)).First(&todo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *gormTodoRepository) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)
	err := r.conn(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateByIDAndOwner locates the row and overwrites it inside one transaction.
func (r *gormTodoRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID uint, fields TodoFields) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var todo domain.Todo
		err := tx.Scopes(ownedBy(id, ownerID)).First(&todo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Select lists the columns explicitly so zero values (complete=false) are written.
		return tx.Model(&domain.Todo{}).
			Scopes(ownedBy(id, ownerID)).
			Select("title", "description", "priority", "complete").
			Updates(&domain.Todo{
				Title:       fields.Title,
				Description: fields.Description,
				Priority:    fields.Priority,
				Complete:    fields.Complete,
			}).Error
	})
}

func (r *gormTodoRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(ownedBy(id, ownerID)).Delete(&domain.Todo{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
