package usecase_test

import (
	"context"
	"testing"
	"time"

	"deliverus/internal/domain/model"
	repo "deliverus/internal/repository"
	"deliverus/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// PlaceOrder tests
// =====================

func TestOrderUsecase_PlaceOrder_PricingWithShipping(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	productsRepo := new(ProductRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)
	v := new(OrderValidatorMock)

	tx.Repos = &TxReposMock{
		orders:      ordersRepo,
		orderItems:  itemsRepo,
		products:    productsRepo,
		restaurants: restaurantsRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	in := usecase.CreateOrderInput{
		RestaurantID: 1,
		Address:      "Calle Test 1",
		Products:     []usecase.OrderLineInput{{ProductID: 5, Quantity: 2}},
	}
	v.On("ValidateCreate", mock.Anything, in).Return(nil)

	//単価4.00×2＝小計8.00（閾値以下なので送料3.00が乗る）
	productsRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, RestaurantID: 1, Price: 4.00, Availability: true}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Restaurant{ID: 1, UserID: 9, ShippingCosts: 3.00}, nil)

	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Price == 11.00 && o.ShippingCosts == 3.00 && o.UserID == 7 && o.RestaurantID == 1
	})).Return(int64(100), nil)

	itemsRepo.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].ProductID == 5 && items[0].Quantity == 2 && items[0].UnitPrice == 4.00
	})).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 7, RestaurantID: 1, Price: 11.00, ShippingCosts: 3.00}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{{OrderID: 100, ProductID: 5, Quantity: 2, UnitPrice: 4.00}}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, v)

	out, err := uc.PlaceOrder(ctx, 7, in)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, 11.00, out.Price)
	assert.Equal(t, 3.00, out.ShippingCosts)
	assert.Equal(t, "pending", out.Status)

	tx.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_FreeShippingOverThreshold(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	productsRepo := new(ProductRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)
	v := new(OrderValidatorMock)

	tx.Repos = &TxReposMock{
		orders:      ordersRepo,
		orderItems:  itemsRepo,
		products:    productsRepo,
		restaurants: restaurantsRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	in := usecase.CreateOrderInput{
		RestaurantID: 1,
		Address:      "Calle Test 1",
		Products:     []usecase.OrderLineInput{{ProductID: 5, Quantity: 3}},
	}
	v.On("ValidateCreate", mock.Anything, in).Return(nil)

	//小計15.00は閾値10.00超なので送料0
	productsRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, RestaurantID: 1, Price: 5.00, Availability: true}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Restaurant{ID: 1, ShippingCosts: 3.00}, nil)

	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Price == 15.00 && o.ShippingCosts == 0.0
	})).Return(int64(101), nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(101), mock.Anything).Return(nil)
	ordersRepo.On("FindByID", mock.Anything, int64(101)).Return(model.Order{ID: 101, Price: 15.00}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(101)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, v)

	out, err := uc.PlaceOrder(ctx, 7, in)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, out.ShippingCosts)

	ordersRepo.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_Unauthorized(t *testing.T) {
	tx := new(TxManagerMock)
	uc := usecase.NewOrderUsecase(tx, new(OrderRepoMock), new(RestaurantRepoMock), new(OrderValidatorMock))

	_, err := uc.PlaceOrder(context.Background(), 0, usecase.CreateOrderInput{})
	assertErrContains(t, err, "unauthorized")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// =====================
// UpdateOrder tests
// =====================

func TestOrderUsecase_UpdateOrder_ForeignOrderForbidden(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 2}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	_, err := uc.UpdateOrder(ctx, usecase.CustomerView(1), 10, usecase.UpdateOrderInput{Address: "x"})
	assertErrContains(t, err, "not enough privileges")

	//所有チェックで弾かれたら書き込みは走らない
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_UpdateOrder_AlreadyStartedConflict(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	started := time.Now()
	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1, StartedAt: &started}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	_, err := uc.UpdateOrder(ctx, usecase.CustomerView(1), 10, usecase.UpdateOrderInput{Address: "x"})
	assertErrContains(t, err, "already been started")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_UpdateOrder_OwnerViewerForbidden(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	//userIdが一致してもownerとしての閲覧者は注文を編集できない
	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	_, err := uc.UpdateOrder(ctx, usecase.OwnerView(1), 10, usecase.UpdateOrderInput{Address: "x"})
	assertErrContains(t, err, "not enough privileges")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_UpdateOrder_ReplacesAllItems(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	productsRepo := new(ProductRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)
	v := new(OrderValidatorMock)

	tx.Repos = &TxReposMock{
		orders:      ordersRepo,
		orderItems:  itemsRepo,
		products:    productsRepo,
		restaurants: restaurantsRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	original := model.Order{ID: 10, UserID: 1, RestaurantID: 3}
	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(original, nil).Once()

	in := usecase.UpdateOrderInput{
		Address:  "Calle Nueva 2",
		Products: []usecase.OrderLineInput{{ProductID: 8, Quantity: 1}},
	}
	v.On("ValidateUpdate", mock.Anything, original, in).Return(nil)

	productsRepo.On("FindByID", mock.Anything, int64(8)).Return(model.Product{ID: 8, RestaurantID: 3, Price: 2.50, Availability: true}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Restaurant{ID: 3, ShippingCosts: 1.50}, nil)

	//小計2.50＋送料1.50
	ordersRepo.On("UpdatePricing", mock.Anything, int64(10), "Calle Nueva 2", 4.00, 1.50).Return(nil)

	//既存明細は全削除してから入れ直す
	itemsRepo.On("DeleteByOrderID", mock.Anything, int64(10)).Return(nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(10), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].ProductID == 8 && items[0].UnitPrice == 2.50
	})).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1, RestaurantID: 3, Price: 4.00, ShippingCosts: 1.50, Address: "Calle Nueva 2"}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{{OrderID: 10, ProductID: 8, Quantity: 1, UnitPrice: 2.50}}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, v)

	out, err := uc.UpdateOrder(ctx, usecase.CustomerView(1), 10, in)
	assert.NoError(t, err)
	assert.Equal(t, 4.00, out.Price)
	assert.Equal(t, "Calle Nueva 2", out.Address)

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

// =====================
// DeleteOrder tests
// =====================

func TestOrderUsecase_DeleteOrder_Pending_DeletesItemsThenOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1}, nil)
	itemsRepo.On("DeleteByOrderID", mock.Anything, int64(10)).Return(nil)
	ordersRepo.On("Delete", mock.Anything, int64(10)).Return(int64(1), nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	err := uc.DeleteOrder(ctx, usecase.CustomerView(1), 10)
	assert.NoError(t, err)

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

func TestOrderUsecase_DeleteOrder_NonPendingConflict(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	started := time.Now()
	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 1, StartedAt: &started}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	err := uc.DeleteOrder(ctx, usecase.CustomerView(1), 10)
	assertErrContains(t, err, "already been started")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_DeleteOrder_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)

	ordersRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, new(RestaurantRepoMock), new(OrderValidatorMock))

	err := uc.DeleteOrder(ctx, usecase.CustomerView(1), 99)
	assertErrContains(t, err, "not found")
}

// =====================
// GetOrderDetail tests
// =====================

func TestOrderUsecase_GetOrderDetail_CustomerCannotSeeForeignOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 2, RestaurantID: 3}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Restaurant{ID: 3, UserID: 9}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, new(OrderValidatorMock))

	_, err := uc.GetOrderDetail(ctx, usecase.CustomerView(1), 10)
	assertErrContains(t, err, "not enough privileges")
}

func TestOrderUsecase_GetOrderDetail_OwnerSeesRestaurantOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Order{ID: 10, UserID: 2, RestaurantID: 3}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Restaurant{ID: 3, UserID: 9}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, new(OrderValidatorMock))

	out, err := uc.GetOrderDetail(ctx, usecase.OwnerView(9), 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.NotNil(t, out.Restaurant)
}

// =====================
// ListMyOrders tests
// =====================

func TestOrderUsecase_ListMyOrders_AttachesItemsAndRestaurant(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, restaurants: restaurantsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Order{
		{ID: 10, UserID: 7, RestaurantID: 3},
		{ID: 11, UserID: 7, RestaurantID: 3},
	}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{{OrderID: 10, ProductID: 1, Quantity: 1, UnitPrice: 2.00}}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)
	restaurantsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Restaurant{ID: 3, Name: "Casa Felix"}, nil)

	uc := usecase.NewOrderUsecase(tx, ordersRepo, restaurantsRepo, new(OrderValidatorMock))

	outs, err := uc.ListMyOrders(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))
	assert.Equal(t, 1, len(outs[0].Items))
	if assert.NotNil(t, outs[0].Restaurant) {
		assert.Equal(t, "Casa Felix", outs[0].Restaurant.Name)
	}
}
