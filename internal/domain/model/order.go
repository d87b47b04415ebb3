package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInProcess OrderStatus = "in process"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
)

type Order struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64  `gorm:"not null;index" json:"user_id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	Address      string `gorm:"type:varchar(255);not null" json:"address"`

	//小計＋送料の合計
	Price float64 `gorm:"not null" json:"price"`

	//作成・更新時に確定する送料（小計が閾値超なら0）
	ShippingCosts float64 `gorm:"not null" json:"shipping_costs"`

	//状態はこの3つのタイムスタンプのnull/非nullから導出する。
	//一度入った値は消さない（単調）。
	StartedAt   *time.Time `json:"started_at"`
	SentAt      *time.Time `json:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Status はタイムスタンプから導出した注文状態。
func (o Order) Status() OrderStatus {
	switch {
	case o.DeliveredAt != nil:
		return OrderStatusDelivered
	case o.SentAt != nil:
		return OrderStatusSent
	case o.StartedAt != nil:
		return OrderStatusInProcess
	default:
		return OrderStatusPending
	}
}
