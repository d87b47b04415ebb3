package model

import "time"

// オーナー操作の種類
type AuditAction string

const (
	AuditActionConfirmOrder AuditAction = "CONFIRM_ORDER"
	AuditActionSendOrder    AuditAction = "SEND_ORDER"
	AuditActionDeliverOrder AuditAction = "DELIVER_ORDER"
)

// 注文の状態遷移ログ。
// 「誰が」「どの注文を」「どの状態からどの状態へ」動かしたかを残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したオーナーのユーザーID
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//JSON文字列で保存する
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
