package repository

import (
	"context"

	"deliverus/internal/domain/model"
)

type RestaurantRepository interface {
	FindByID(ctx context.Context, id int64) (model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]model.Restaurant, error)
	Create(ctx context.Context, r model.Restaurant) (int64, error)

	//削除した行数を返す（0なら対象なし）
	Delete(ctx context.Context, id int64) (int64, error)

	//配達完了時に平均サービス時間を上書きする
	UpdateAverageServiceMinutes(ctx context.Context, id int64, minutes *float64) error
}
