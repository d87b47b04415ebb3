package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
	"deliverus/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	products    repo.ProductRepository
	restaurants repo.RestaurantRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository       { return r.products }
func (r *TxReposMock) Restaurants() repo.RestaurantRepository { return r.restaurants }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByRestaurant(ctx context.Context, restaurantID int64, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, restaurantID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdatePricing(ctx context.Context, orderID int64, address string, price float64, shippingCosts float64) error {
	args := m.Called(ctx, orderID, address, price, shippingCosts)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) MarkStarted(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkSent(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkDelivered(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *OrderRepoMock) CountByRestaurant(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) AverageServiceMinutes(ctx context.Context, restaurantID int64) (*float64, error) {
	args := m.Called(ctx, restaurantID)
	avg, _ := args.Get(0).(*float64)
	return avg, args.Error(1)
}

func (m *OrderRepoMock) CountCreatedBetween(ctx context.Context, restaurantID int64, from time.Time, to time.Time) (int64, error) {
	args := m.Called(ctx, restaurantID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountPending(ctx context.Context, restaurantID int64) (int64, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountDeliveredSince(ctx context.Context, restaurantID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, restaurantID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SumPriceCreatedSince(ctx context.Context, restaurantID int64, since time.Time) (float64, error) {
	args := m.Called(ctx, restaurantID, since)
	return args.Get(0).(float64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.Product, error) {
	args := m.Called(ctx, restaurantID)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) FindByID(ctx context.Context, id int64) (model.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(model.Restaurant)
	return r, args.Error(1)
}

func (m *RestaurantRepoMock) List(ctx context.Context) ([]model.Restaurant, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Restaurant)
	return items, args.Error(1)
}

func (m *RestaurantRepoMock) ListByOwner(ctx context.Context, ownerUserID int64) ([]model.Restaurant, error) {
	args := m.Called(ctx, ownerUserID)
	items, _ := args.Get(0).([]model.Restaurant)
	return items, args.Error(1)
}

func (m *RestaurantRepoMock) Create(ctx context.Context, r model.Restaurant) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RestaurantRepoMock) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RestaurantRepoMock) UpdateAverageServiceMinutes(ctx context.Context, id int64, minutes *float64) error {
	args := m.Called(ctx, id, minutes)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.RestaurantCategory, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.RestaurantCategory)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByName(ctx context.Context, name string) (model.RestaurantCategory, bool, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.RestaurantCategory)
	return c, args.Bool(1), args.Error(2)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.RestaurantCategory) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, orderID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// OrderValidatorMock はusecase側のテストで検証結果を固定するために使う
type OrderValidatorMock struct{ mock.Mock }

func (m *OrderValidatorMock) ValidateCreate(ctx context.Context, in usecase.CreateOrderInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *OrderValidatorMock) ValidateUpdate(ctx context.Context, original model.Order, in usecase.UpdateOrderInput) error {
	args := m.Called(ctx, original, in)
	return args.Error(0)
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
