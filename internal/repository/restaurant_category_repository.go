package repository

import (
	"context"

	"deliverus/internal/domain/model"
)

type RestaurantCategoryRepository interface {
	List(ctx context.Context) ([]model.RestaurantCategory, error)

	//nameで1件取得（重複チェックで使う）。見つからなければ (zero, false, nil)
	FindByName(ctx context.Context, name string) (model.RestaurantCategory, bool, error)

	Create(ctx context.Context, c model.RestaurantCategory) (int64, error)
}
