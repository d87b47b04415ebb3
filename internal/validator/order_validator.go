package validator

import (
	"context"
	"net/http"
	"strings"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
	"deliverus/internal/usecase"
)

// usecase.OrderValidator の実装。
// チェックは名前付きステップの列で、宣言した順に実行する。
// 形のチェックが落ちたらDBを引くステップまでは進まない。
type orderValidator struct {
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
}

// Usecaseには interface で渡す
func NewOrderValidator(products repo.ProductRepository, restaurants repo.RestaurantRepository) usecase.OrderValidator {
	return &orderValidator{products: products, restaurants: restaurants}
}

type fieldErrors map[string]string

type checkStep struct {
	name string
	run  func(ctx context.Context) (fieldErrors, error)
}

// runStepsは各ステップを順に実行してフィールドエラーを集める。
// runがerrorを返したらインフラ障害としてそこで打ち切る。
func runSteps(ctx context.Context, steps []checkStep) error {
	merged := fieldErrors{}
	for _, step := range steps {
		fe, err := step.run(ctx)
		if err != nil {
			return err
		}
		for field, msg := range fe {
			if _, dup := merged[field]; !dup {
				merged[field] = msg
			}
		}
	}
	if len(merged) > 0 {
		return usecase.NewValidationError(merged)
	}
	return nil
}

// ValidateCreateは注文作成の入力検証。
// レストランが実在しない・閉店中の場合は422ではなく409で返す。
func (v *orderValidator) ValidateCreate(ctx context.Context, in usecase.CreateOrderInput) error {
	if in.RestaurantID <= 0 {
		return usecase.NewValidationError(fieldErrors{"restaurantId": "restaurantId is required"})
	}

	rest, err := v.restaurants.FindByID(ctx, in.RestaurantID)
	if err == repo.ErrNotFound {
		return usecase.NewHTTPError(http.StatusConflict, "the restaurant of the order does not exist")
	}
	if err != nil {
		return usecase.NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//閉店中（一時閉店含む）の店には注文できない
	if rest.Status == model.RestaurantStatusClosed || rest.Status == model.RestaurantStatusTemporarilyClosed {
		return usecase.NewHTTPError(http.StatusConflict, "the restaurant is closed")
	}

	if err := runSteps(ctx, []checkStep{
		v.checkAddress(in.Address),
		v.checkLineShape(in.Products),
	}); err != nil {
		return err
	}

	return runSteps(ctx, []checkStep{
		v.checkProductsAvailable(in.Products),
		v.checkProductsBelongTo(in.Products, in.RestaurantID, "the product does not belong to the restaurant"),
	})
}

// ValidateUpdateは注文編集の入力検証。
// restaurantIdは受け付けない。商品は「元の注文のレストラン」に属していること。
func (v *orderValidator) ValidateUpdate(ctx context.Context, original model.Order, in usecase.UpdateOrderInput) error {
	if in.RestaurantID != nil {
		return usecase.NewValidationError(fieldErrors{"restaurantId": "restaurantId cannot be modified"})
	}

	if err := runSteps(ctx, []checkStep{
		v.checkAddress(in.Address),
		v.checkLineShape(in.Products),
	}); err != nil {
		return err
	}

	return runSteps(ctx, []checkStep{
		v.checkProductsAvailable(in.Products),
		v.checkProductsBelongTo(in.Products, original.RestaurantID, "there are products from different restaurants"),
	})
}

func (v *orderValidator) checkAddress(address string) checkStep {
	return checkStep{
		name: "address",
		run: func(ctx context.Context) (fieldErrors, error) {
			if strings.TrimSpace(address) == "" {
				return fieldErrors{"address": "address is required"}, nil
			}
			return nil, nil
		},
	}
}

// 明細の形チェック：空でない・productId/quantityが正の整数
func (v *orderValidator) checkLineShape(lines []usecase.OrderLineInput) checkStep {
	return checkStep{
		name: "products shape",
		run: func(ctx context.Context) (fieldErrors, error) {
			if len(lines) == 0 {
				return fieldErrors{"products": "order has no products"}, nil
			}
			for _, line := range lines {
				if line.ProductID <= 0 {
					return fieldErrors{"products": "productId must be a positive integer"}, nil
				}
				if line.Quantity < 1 {
					return fieldErrors{"products": "quantity must be greater than 0"}, nil
				}
			}
			return nil, nil
		},
	}
}

// 商品が実在して注文可能（availability=true）であること
func (v *orderValidator) checkProductsAvailable(lines []usecase.OrderLineInput) checkStep {
	return checkStep{
		name: "products available",
		run: func(ctx context.Context) (fieldErrors, error) {
			for _, line := range lines {
				p, err := v.products.FindByID(ctx, line.ProductID)
				if err == repo.ErrNotFound {
					return fieldErrors{"products": "the product does not exist"}, nil
				}
				if err != nil {
					return nil, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !p.Availability {
					return fieldErrors{"products": "the product is not available"}, nil
				}
			}
			return nil, nil
		},
	}
}

// 全商品が指定レストランに属すること
func (v *orderValidator) checkProductsBelongTo(lines []usecase.OrderLineInput, restaurantID int64, msg string) checkStep {
	return checkStep{
		name: "products restaurant",
		run: func(ctx context.Context) (fieldErrors, error) {
			for _, line := range lines {
				p, err := v.products.FindByID(ctx, line.ProductID)
				if err == repo.ErrNotFound {
					//存在チェックは前段で報告済み
					continue
				}
				if err != nil {
					return nil, usecase.NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if p.RestaurantID != restaurantID {
					return fieldErrors{"products": msg}, nil
				}
			}
			return nil, nil
		},
	}
}
