package repository

import (
	"context"
	"time"

	"deliverus/internal/domain/model"
)

// オーナー向け注文一覧の絞り込み条件。
// From/To は日単位（ハンドラで日付だけをパースして渡す）。
type OrderListFilter struct {
	Status model.OrderStatus
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//customerの注文一覧（createdAt降順）
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	//レストランの注文一覧（状態・期間で絞り込み）
	ListByRestaurant(ctx context.Context, restaurantID int64, f OrderListFilter) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//住所・価格・送料の更新（明細の差し替えは OrderItemRepository 側）
	UpdatePricing(ctx context.Context, orderID int64, address string, price float64, shippingCosts float64) error

	//削除した行数を返す（0なら対象なし）
	Delete(ctx context.Context, orderID int64) (int64, error)

	//状態遷移のタイムスタンプ書き込み。値は入れたら消さない
	MarkStarted(ctx context.Context, orderID int64, at time.Time) error
	MarkSent(ctx context.Context, orderID int64, at time.Time) error
	MarkDelivered(ctx context.Context, orderID int64, at time.Time) error

	//レストランに紐づく注文数（レストラン削除ガードで使う）
	CountByRestaurant(ctx context.Context, restaurantID int64) (int64, error)

	//配達済み注文の (deliveredAt - createdAt) の平均（分）
	AverageServiceMinutes(ctx context.Context, restaurantID int64) (*float64, error)

	//analytics用の独立した集計クエリ
	CountCreatedBetween(ctx context.Context, restaurantID int64, from time.Time, to time.Time) (int64, error)
	CountPending(ctx context.Context, restaurantID int64) (int64, error)
	CountDeliveredSince(ctx context.Context, restaurantID int64, since time.Time) (int64, error)
	SumPriceCreatedSince(ctx context.Context, restaurantID int64, since time.Time) (float64, error)
}
