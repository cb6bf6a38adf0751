package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storyhub/entities"
	"storyhub/pkg/apperr"
	"storyhub/pkg/user/repository"
)

type userRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.UserRepository { return &userRepo{db} }

func (r *userRepo) Create(ctx context.Context, u *entities.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperr.Internal("create user", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	return r.find(ctx, "user_id = ?", id)
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.find(ctx, "username = ?", username)
}

func (r *userRepo) find(ctx context.Context, cond string, arg any) (*entities.User, error) {
	var u entities.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", arg)
		}
		return nil, apperr.Internal("load user", err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]entities.User, error) {
	var out []entities.User
	if err := r.db.WithContext(ctx).Order("user_id ASC").Find(&out).Error; err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return out, nil
}
