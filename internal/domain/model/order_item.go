package model

import "time"

// 注文の明細行。
// 注文時点の単価を必ず保存する（後から商品価格が変わっても再計算しない）。
// 注文削除時の明細削除はDBのカスケードではなくトランザクション内で明示的に行う。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	//注文時点の単価スナップショット
	UnitPrice float64 `gorm:"not null" json:"unit_price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
