package repository

import (
	"context"
	"errors"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByRestaurant(ctx context.Context, restaurantID int64, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("restaurant_id = ?", restaurantID)

	//statusはタイムスタンプのnull/非nullに写す
	switch f.Status {
	case model.OrderStatusPending:
		q = q.Where("started_at IS NULL")
	case model.OrderStatusInProcess:
		q = q.Where("started_at IS NOT NULL AND sent_at IS NULL AND delivered_at IS NULL")
	case model.OrderStatusSent:
		q = q.Where("sent_at IS NOT NULL AND delivered_at IS NULL")
	case model.OrderStatusDelivered:
		q = q.Where("delivered_at IS NOT NULL")
	}

	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		//終了日を丸ごと含めるため翌日0時まで（境界は <= のまま）
		q = q.Where("created_at <= ?", f.To.AddDate(0, 0, 1))
	}

	var items []model.Order
	if err := q.Order("created_at desc").Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdatePricing(ctx context.Context, orderID int64, address string, price float64, shippingCosts float64) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"address":        address,
			"price":          price,
			"shipping_costs": shippingCosts,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", orderID).Delete(&model.Order{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *OrderGormRepository) MarkStarted(ctx context.Context, orderID int64, at time.Time) error {
	return r.markTimestamp(ctx, orderID, "started_at", at)
}

func (r *OrderGormRepository) MarkSent(ctx context.Context, orderID int64, at time.Time) error {
	return r.markTimestamp(ctx, orderID, "sent_at", at)
}

func (r *OrderGormRepository) MarkDelivered(ctx context.Context, orderID int64, at time.Time) error {
	return r.markTimestamp(ctx, orderID, "delivered_at", at)
}

func (r *OrderGormRepository) markTimestamp(ctx context.Context, orderID int64, column string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update(column, at)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) CountByRestaurant(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderGormRepository) AverageServiceMinutes(ctx context.Context, restaurantID int64) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("AVG(EXTRACT(EPOCH FROM (delivered_at - created_at)) / 60.0)").
		Where("restaurant_id = ? AND delivered_at IS NOT NULL", restaurantID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

func (r *OrderGormRepository) CountCreatedBetween(ctx context.Context, restaurantID int64, from time.Time, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, from, to).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderGormRepository) CountPending(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ? AND started_at IS NULL", restaurantID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderGormRepository) CountDeliveredSince(ctx context.Context, restaurantID int64, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ? AND delivered_at >= ?", restaurantID, since).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderGormRepository) SumPriceCreatedSince(ctx context.Context, restaurantID int64, since time.Time) (float64, error) {
	var sum *float64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("SUM(price)").
		Where("restaurant_id = ? AND created_at >= ?", restaurantID, since).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
