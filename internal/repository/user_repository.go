package repository

import (
	"context"

	"deliverus/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error

	//見つからなければ (nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}
