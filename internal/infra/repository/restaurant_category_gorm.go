package repository

import (
	"context"
	"errors"

	"deliverus/internal/domain/model"

	"gorm.io/gorm"
)

type RestaurantCategoryGormRepository struct {
	db *gorm.DB
}

func NewRestaurantCategoryGormRepository(db *gorm.DB) *RestaurantCategoryGormRepository {
	return &RestaurantCategoryGormRepository{db: db}
}

func (r *RestaurantCategoryGormRepository) List(ctx context.Context) ([]model.RestaurantCategory, error) {
	var items []model.RestaurantCategory
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return []model.RestaurantCategory{}, err
	}
	return items, nil
}

func (r *RestaurantCategoryGormRepository) FindByName(ctx context.Context, name string) (model.RestaurantCategory, bool, error) {
	var c model.RestaurantCategory
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RestaurantCategory{}, false, nil
	}
	if err != nil {
		return model.RestaurantCategory{}, false, err
	}
	return c, true, nil
}

func (r *RestaurantCategoryGormRepository) Create(ctx context.Context, c model.RestaurantCategory) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}
