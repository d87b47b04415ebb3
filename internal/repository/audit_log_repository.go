package repository

import (
	"context"

	"deliverus/internal/domain/model"
)

// 状態遷移ログの保存・取得の約束。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.AuditLog, error)
}
