package usecase

import (
	"context"
	"net/http"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

// 小計がこの額を超えたら送料無料
const freeShippingThreshold = 10.00

type OrderLineInput struct {
	ProductID int64
	Quantity  int64
}

// priceOrderLines は各明細の商品を現在価格で引いて単価スナップショットを作り、
// 明細リストと小計を返す。作成と更新で同じ計算を使う。
func priceOrderLines(ctx context.Context, products repo.ProductRepository, lines []OrderLineInput) ([]model.OrderItem, float64, error) {
	items := make([]model.OrderItem, 0, len(lines))
	subtotal := 0.0

	now := time.Now()
	for _, line := range lines {
		p, err := products.FindByID(ctx, line.ProductID)
		if err == repo.ErrNotFound {
			return nil, 0, NewValidationError(map[string]string{
				"products": "the product does not exist",
			})
		}
		if err != nil {
			return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items = append(items, model.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
			CreatedAt: now,
		})
		subtotal += float64(line.Quantity) * p.Price
	}

	return items, subtotal, nil
}

// shippingCostsFor は送料ルール。
// 小計が閾値を超えたら0、以下ならレストランの既定送料。
func shippingCostsFor(subtotal float64, restaurant model.Restaurant) float64 {
	if subtotal > freeShippingThreshold {
		return 0.0
	}
	return restaurant.ShippingCosts
}
