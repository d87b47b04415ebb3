package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

type RestaurantCategoryUsecase struct {
	categories repo.RestaurantCategoryRepository
}

func NewRestaurantCategoryUsecase(categories repo.RestaurantCategoryRepository) *RestaurantCategoryUsecase {
	return &RestaurantCategoryUsecase{categories: categories}
}

func (u *RestaurantCategoryUsecase) List(ctx context.Context) ([]model.RestaurantCategory, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		return []model.RestaurantCategory{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Createはカテゴリ追加。同名カテゴリが既にあれば409。
func (u *RestaurantCategoryUsecase) Create(ctx context.Context, ownerID int64, name string) (int64, error) {
	if ownerID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, NewValidationError(map[string]string{"name": "name is required"})
	}

	_, exists, err := u.categories.FindByName(ctx, name)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return 0, NewHTTPError(http.StatusConflict, "this category already exists")
	}

	now := time.Now()
	id, err := u.categories.Create(ctx, model.RestaurantCategory{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}
