package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB接続文字列を環境変数から読む。未設定ならこのテストは飛ばす。
func testDSN(t *testing.T) string {
	t.Helper()
	v := os.Getenv("TEST_DATABASE_DSN")
	if v == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	return v
}

// 注文状態のSQL述語が実DBのスキーマと噛み合うかの確認。
// マイグレーション済みのDBに対してだけ走らせる。
func Test_OrderStatusPredicates_AgainstDB(t *testing.T) {
	dsn := testDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	//pendingの件数（started_atがNULL）
	var pending int64
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE started_at IS NULL`,
	).Scan(&pending); err != nil {
		t.Fatalf("pending count query failed: %v", err)
	}

	//deliveredの件数（delivered_atが非NULL）
	var delivered int64
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE delivered_at IS NOT NULL`,
	).Scan(&delivered); err != nil {
		t.Fatalf("delivered count query failed: %v", err)
	}

	//平均サービス時間の式が評価できること
	var avg sql.NullFloat64
	if err := db.QueryRowContext(ctx,
		`SELECT AVG(EXTRACT(EPOCH FROM (delivered_at - created_at)) / 60.0) FROM orders WHERE delivered_at IS NOT NULL`,
	).Scan(&avg); err != nil {
		t.Fatalf("average service minutes query failed: %v", err)
	}

	if pending < 0 || delivered < 0 {
		t.Fatalf("negative counts: pending=%d delivered=%d", pending, delivered)
	}
}
