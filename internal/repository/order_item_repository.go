package repository

import (
	"context"

	"deliverus/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)

	//更新時の全明細差し替え・削除時のカスケードで使う
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
