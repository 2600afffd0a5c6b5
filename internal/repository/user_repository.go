package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/domain"
)

// ErrDuplicate is returned when a unique column already holds the value.
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := database.SessionFrom(ctx, r.db).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := database.SessionFrom(ctx, r.db).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := database.SessionFrom(ctx, r.db).
		Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}
