package usecase

import (
	"context"
	"log"
	"net/http"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
)

// オーナー側の注文操作（一覧・状態遷移・analytics）。
// 状態遷移はread-then-writeで、トランザクションでは包まない。
// 同じ注文への同時遷移は後勝ちになり得る（既知の割り切り）。
type RestaurantOrderUsecase struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	restaurants repo.RestaurantRepository
	auditRepo   repo.AuditLogRepository
}

func NewRestaurantOrderUsecase(
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	restaurants repo.RestaurantRepository,
	auditRepo repo.AuditLogRepository,
) *RestaurantOrderUsecase {
	return &RestaurantOrderUsecase{
		orders:      orders,
		orderItems:  orderItems,
		restaurants: restaurants,
		auditRepo:   auditRepo,
	}
}

// Listはレストランの注文一覧（状態・期間で絞り込み）。
func (u *RestaurantOrderUsecase) List(ctx context.Context, viewer Viewer, restaurantID int64, f repo.OrderListFilter) ([]OrderOutput, error) {
	if viewer.UserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := u.ownedRestaurant(ctx, viewer, restaurantID); err != nil {
		return []OrderOutput{}, err
	}

	orders, err := u.orders.ListByRestaurant(ctx, restaurantID, f)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

// Confirmはpending→in processの遷移。startedAtを入れる。
func (u *RestaurantOrderUsecase) Confirm(ctx context.Context, viewer Viewer, orderID int64) (OrderOutput, error) {
	o, err := u.ownedOrder(ctx, viewer, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	if o.Status() != model.OrderStatusPending {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, "the order has already been started")
	}

	now := time.Now()
	if err := u.orders.MarkStarted(ctx, orderID, now); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := o.Status()
	o.StartedAt = &now
	u.writeTransitionLog(ctx, viewer.UserID, model.AuditActionConfirmOrder, o, before)

	return u.output(ctx, o)
}

// Sendはin process→sentの遷移。sentAtを入れる。
func (u *RestaurantOrderUsecase) Send(ctx context.Context, viewer Viewer, orderID int64) (OrderOutput, error) {
	o, err := u.ownedOrder(ctx, viewer, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	//startedAtが入っていてsentAtが未設定のときだけ送れる
	if o.StartedAt == nil || o.SentAt != nil {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, "the order cannot be sent")
	}

	now := time.Now()
	if err := u.orders.MarkSent(ctx, orderID, now); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := o.Status()
	o.SentAt = &now
	u.writeTransitionLog(ctx, viewer.UserID, model.AuditActionSendOrder, o, before)

	return u.output(ctx, o)
}

// Deliverはsent→deliveredの遷移。deliveredAtを入れ、
// レストランの平均サービス時間を過去の配達実績から引き直す。
func (u *RestaurantOrderUsecase) Deliver(ctx context.Context, viewer Viewer, orderID int64) (OrderOutput, error) {
	o, err := u.ownedOrder(ctx, viewer, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	if o.StartedAt == nil || o.SentAt == nil || o.DeliveredAt != nil {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, "the order cannot be delivered")
	}

	now := time.Now()
	if err := u.orders.MarkDelivered(ctx, orderID, now); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := o.Status()
	o.DeliveredAt = &now

	//配達済み注文の (deliveredAt - createdAt) 平均（分）で上書き
	avg, err := u.orders.AverageServiceMinutes(ctx, o.RestaurantID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.restaurants.UpdateAverageServiceMinutes(ctx, o.RestaurantID, avg); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.writeTransitionLog(ctx, viewer.UserID, model.AuditActionDeliverOrder, o, before)

	return u.output(ctx, o)
}

type AnalyticsOutput struct {
	RestaurantID            int64   `json:"restaurant_id"`
	NumYesterdayOrders      int64   `json:"num_yesterday_orders"`
	NumPendingOrders        int64   `json:"num_pending_orders"`
	NumDeliveredTodayOrders int64   `json:"num_delivered_today_orders"`
	InvoicedToday           float64 `json:"invoiced_today"`
}

// Analyticsはレストランの集計値。
// 4つの値は独立したクエリで、厳密な同時点スナップショットは保証しない。
func (u *RestaurantOrderUsecase) Analytics(ctx context.Context, viewer Viewer, restaurantID int64) (AnalyticsOutput, error) {
	if viewer.UserID <= 0 {
		return AnalyticsOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if _, err := u.ownedRestaurant(ctx, viewer, restaurantID); err != nil {
		return AnalyticsOutput{}, err
	}

	now := time.Now()
	todayZero := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayZero := todayZero.AddDate(0, 0, -1)

	numYesterday, err := u.orders.CountCreatedBetween(ctx, restaurantID, yesterdayZero, todayZero)
	if err != nil {
		return AnalyticsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	numPending, err := u.orders.CountPending(ctx, restaurantID)
	if err != nil {
		return AnalyticsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	numDeliveredToday, err := u.orders.CountDeliveredSince(ctx, restaurantID, todayZero)
	if err != nil {
		return AnalyticsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	invoicedToday, err := u.orders.SumPriceCreatedSince(ctx, restaurantID, todayZero)
	if err != nil {
		return AnalyticsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AnalyticsOutput{
		RestaurantID:            restaurantID,
		NumYesterdayOrders:      numYesterday,
		NumPendingOrders:        numPending,
		NumDeliveredTodayOrders: numDeliveredToday,
		InvoicedToday:           invoicedToday,
	}, nil
}

// ownedOrderは注文とその所有チェック（店のownerであること）。
func (u *RestaurantOrderUsecase) ownedOrder(ctx context.Context, viewer Viewer, orderID int64) (model.Order, error) {
	if viewer.UserID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.ownedRestaurant(ctx, viewer, o.RestaurantID); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (u *RestaurantOrderUsecase) ownedRestaurant(ctx context.Context, viewer Viewer, restaurantID int64) (model.Restaurant, error) {
	if restaurantID <= 0 {
		return model.Restaurant{}, NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}

	rest, err := u.restaurants.FindByID(ctx, restaurantID)
	if err == repo.ErrNotFound {
		return model.Restaurant{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !viewer.ownsRestaurant(rest) {
		return model.Restaurant{}, NewHTTPError(http.StatusForbidden, "not enough privileges")
	}
	return rest, nil
}

// 遷移自体は既に確定しているので、監査ログの書き込み失敗では
// 呼び出し元を失敗させない（記録して続行）。
func (u *RestaurantOrderUsecase) writeTransitionLog(ctx context.Context, actorUserID int64, action model.AuditAction, o model.Order, before model.OrderStatus) {
	beforeJSON := `{"status":"` + string(before) + `"}`
	afterJSON := `{"status":"` + string(o.Status()) + `"}`

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID: actorUserID,
		Action:      action,
		OrderID:     o.ID,
		BeforeJSON:  beforeJSON,
		AfterJSON:   afterJSON,
		CreatedAt:   time.Now(),
	}); err != nil {
		log.Printf("audit log write failed: order=%d action=%s: %v", o.ID, action, err)
	}
}

func (u *RestaurantOrderUsecase) output(ctx context.Context, o model.Order) (OrderOutput, error) {
	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o, items), nil
}
