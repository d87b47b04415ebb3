package repository

import (
	"context"
	"errors"

	"deliverus/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
