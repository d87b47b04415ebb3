package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

type ProductUsecase struct {
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
}

func NewProductUsecase(products repo.ProductRepository, restaurants repo.RestaurantRepository) *ProductUsecase {
	return &ProductUsecase{products: products, restaurants: restaurants}
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type CreateProductInput struct {
	RestaurantID int64
	Name         string
	Description  string
	Price        float64
	Availability bool
}

// Createはownerが自分のレストランに商品を追加する。
func (u *ProductUsecase) Create(ctx context.Context, ownerID int64, in CreateProductInput) (model.Product, error) {
	if ownerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if in.Price < 0 {
		fields["price"] = "price must be >= 0"
	}
	if in.RestaurantID <= 0 {
		fields["restaurantId"] = "restaurantId is required"
	}
	if len(fields) > 0 {
		return model.Product{}, NewValidationError(fields)
	}

	rest, err := u.restaurants.FindByID(ctx, in.RestaurantID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の店には追加できない
	if rest.UserID != ownerID {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "not enough privileges")
	}

	now := time.Now()
	p, err := u.products.Create(ctx, model.Product{
		RestaurantID: in.RestaurantID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Availability: in.Availability,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}
