package model

import "time"

type RestaurantStatus string

const (
	RestaurantStatusOpen              RestaurantStatus = "open"
	RestaurantStatusClosed            RestaurantStatus = "closed"
	RestaurantStatusTemporarilyClosed RestaurantStatus = "temporarily closed"
)

type Restaurant struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//オーナーのユーザーID
	UserID int64 `gorm:"not null;index" json:"user_id"`

	CategoryID int64 `gorm:"not null;index" json:"category_id"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"type:varchar(255);not null" json:"address"`
	PostalCode  string `gorm:"type:varchar(20)" json:"postal_code"`

	//デフォルト送料。小計が閾値以下の注文に加算される
	ShippingCosts float64 `gorm:"not null" json:"shipping_costs"`

	//配達完了ごとに再計算される平均サービス時間（分）
	AverageServiceMinutes *float64 `json:"average_service_minutes"`

	Status RestaurantStatus `gorm:"type:varchar(30);not null;default:'open'" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Products []Product `gorm:"foreignKey:RestaurantID" json:"products,omitempty"`
}
