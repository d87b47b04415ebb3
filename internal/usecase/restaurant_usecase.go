package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

type RestaurantUsecase struct {
	restaurants repo.RestaurantRepository
	products    repo.ProductRepository
	orders      repo.OrderRepository
	categories  repo.RestaurantCategoryRepository
}

func NewRestaurantUsecase(
	restaurants repo.RestaurantRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	categories repo.RestaurantCategoryRepository,
) *RestaurantUsecase {
	return &RestaurantUsecase{
		restaurants: restaurants,
		products:    products,
		orders:      orders,
		categories:  categories,
	}
}

type CreateRestaurantInput struct {
	CategoryID    int64
	Name          string
	Description   string
	Address       string
	PostalCode    string
	ShippingCosts float64
}

func (u *RestaurantUsecase) Create(ctx context.Context, ownerID int64, in CreateRestaurantInput) (int64, error) {
	if ownerID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.Address) == "" {
		fields["address"] = "address is required"
	}
	if in.ShippingCosts < 0 {
		fields["shippingCosts"] = "shippingCosts must be >= 0"
	}
	if in.CategoryID <= 0 {
		fields["categoryId"] = "categoryId is required"
	}
	if len(fields) > 0 {
		return 0, NewValidationError(fields)
	}

	now := time.Now()
	id, err := u.restaurants.Create(ctx, model.Restaurant{
		UserID:        ownerID,
		CategoryID:    in.CategoryID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Address:       strings.TrimSpace(in.Address),
		PostalCode:    in.PostalCode,
		ShippingCosts: in.ShippingCosts,
		Status:        model.RestaurantStatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

func (u *RestaurantUsecase) List(ctx context.Context) ([]model.Restaurant, error) {
	items, err := u.restaurants.List(ctx)
	if err != nil {
		return []model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *RestaurantUsecase) ListMine(ctx context.Context, ownerID int64) ([]model.Restaurant, error) {
	if ownerID <= 0 {
		return []model.Restaurant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.restaurants.ListByOwner(ctx, ownerID)
	if err != nil {
		return []model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Detailはレストラン＋その商品一覧。
func (u *RestaurantUsecase) Detail(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	if restaurantID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rest, err := u.restaurants.FindByID(ctx, restaurantID)
	if err == repo.ErrNotFound {
		return model.Restaurant{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.products.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	rest.Products = products

	return rest, nil
}

// Deleteはレストランの削除。
// 注文が1件でも紐づいていたら消せない（409）。
func (u *RestaurantUsecase) Delete(ctx context.Context, ownerID int64, restaurantID int64) error {
	if ownerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if restaurantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rest, err := u.restaurants.FindByID(ctx, restaurantID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if rest.UserID != ownerID {
		return NewHTTPError(http.StatusForbidden, "not enough privileges")
	}

	numOrders, err := u.orders.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if numOrders > 0 {
		return NewHTTPError(http.StatusConflict, "some orders belong to this restaurant")
	}

	deleted, err := u.restaurants.Delete(ctx, restaurantID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if deleted == 0 {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}
