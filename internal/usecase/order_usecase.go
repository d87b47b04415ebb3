package usecase

import (
	"context"
	"net/http"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	restaurants repo.RestaurantRepository
	validator   OrderValidator
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	restaurants repo.RestaurantRepository,
	validator OrderValidator,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, restaurants: restaurants, validator: validator}
}

type CreateOrderInput struct {
	RestaurantID int64
	Address      string
	Products     []OrderLineInput
}

type UpdateOrderInput struct {
	//更新でrestaurantIdは渡してはいけない（レストランは作成後不変）。
	//typed requestで受けてここで拒否する。
	RestaurantID *int64
	Address      string
	Products     []OrderLineInput
}

// 作成・更新の入力検証の約束。実装は validator パッケージ。
type OrderValidator interface {
	ValidateCreate(ctx context.Context, in CreateOrderInput) error
	ValidateUpdate(ctx context.Context, original model.Order, in UpdateOrderInput) error
}

type OrderItemOutput struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	RestaurantID  int64             `json:"restaurant_id"`
	Address       string            `json:"address"`
	Status        string            `json:"status"`
	Price         float64           `json:"price"`
	ShippingCosts float64           `json:"shipping_costs"`
	StartedAt     *time.Time        `json:"started_at"`
	SentAt        *time.Time        `json:"sent_at"`
	DeliveredAt   *time.Time        `json:"delivered_at"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
	Restaurant    *model.Restaurant `json:"restaurant,omitempty"`
}

// PlaceOrderはcustomerの新規注文。
// 価格計算・注文行・明細行の保存は1つのトランザクションで行い、
// 途中で失敗したら全部巻き戻す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, customerID int64, in CreateOrderInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.validator.ValidateCreate(ctx, in); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//単価スナップショット＋小計
		items, subtotal, err := priceOrderLines(ctx, r.Products(), in.Products)
		if err != nil {
			return err
		}

		//送料はレストランの既定値から決める
		rest, err := r.Restaurants().FindByID(ctx, in.RestaurantID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusConflict, "the restaurant of the order does not exist")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		shipping := shippingCostsFor(subtotal, rest)

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:        customerID,
			RestaurantID:  in.RestaurantID,
			Address:       in.Address,
			Price:         subtotal + shipping,
			ShippingCosts: shipping,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//保存済みの注文を明細ごと取り直して返す
		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		savedItems, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(created, savedItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateOrderはpendingの注文の住所と明細の編集。
// 明細は差分ではなく全置き換え（既存を全削除してから新しい行を入れる）。
func (u *OrderUsecase) UpdateOrder(ctx context.Context, viewer Viewer, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	if viewer.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	original, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の注文は編集不可
	if !viewer.canEditOrder(original) {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "not enough privileges")
	}
	//pending以外は編集不可
	if original.Status() != model.OrderStatusPending {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, "the order has already been started")
	}

	if err := u.validator.ValidateUpdate(ctx, original, in); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, subtotal, err := priceOrderLines(ctx, r.Products(), in.Products)
		if err != nil {
			return err
		}

		//送料は元の注文のレストランで再評価する
		rest, err := r.Restaurants().FindByID(ctx, original.RestaurantID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		shipping := shippingCostsFor(subtotal, rest)

		if err := r.Orders().UpdatePricing(ctx, orderID, in.Address, subtotal+shipping, shipping); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//全明細を消してから入れ直す
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		updated, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		savedItems, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(updated, savedItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// DeleteOrderはpendingの注文の削除。明細も同じトランザクションで消す。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, viewer Viewer, orderID int64) error {
	if viewer.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !viewer.canEditOrder(o) {
		return NewHTTPError(http.StatusForbidden, "not enough privileges")
	}
	if o.Status() != model.OrderStatusPending {
		return NewHTTPError(http.StatusConflict, "the order has already been started")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//明細→注文行の順に消す（カスケードを明示）
		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		deleted, err := r.Orders().Delete(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if deleted == 0 {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil
	})
}

// ListMyOrdersはcustomer自身の注文一覧（新しい順）。
// 明細とレストラン情報も付ける。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			out := toOrderOutput(o, items)

			rest, err := r.Restaurants().FindByID(ctx, o.RestaurantID)
			if err == nil {
				out.Restaurant = &rest
			} else if err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// GetOrderDetailは注文詳細。
// customerは自分の注文だけ、ownerは自分の店の注文だけ見られる。
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, viewer Viewer, orderID int64) (OrderOutput, error) {
	if viewer.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		rest, err := r.Restaurants().FindByID(ctx, o.RestaurantID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !viewer.canSeeOrder(o, rest.UserID) {
			return NewHTTPError(http.StatusForbidden, "not enough privileges")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		out.Restaurant = &rest
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		UserID:        o.UserID,
		RestaurantID:  o.RestaurantID,
		Address:       o.Address,
		Status:        string(o.Status()),
		Price:         o.Price,
		ShippingCosts: o.ShippingCosts,
		StartedAt:     o.StartedAt,
		SentAt:        o.SentAt,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
