package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"deliverus/internal/config"
	"deliverus/internal/domain/model"
	"deliverus/internal/middleware"
	repo "deliverus/internal/repository"
	"deliverus/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders のAPI。customer側とowner側の両方を受ける。
type OrderHandler struct {
	uc      *usecase.OrderUsecase
	ownerUC *usecase.RestaurantOrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, ownerUC *usecase.RestaurantOrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, ownerUC: ownerUC}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)

	//作成・編集・削除はcustomerのみ
	g.POST("", h.create, middleware.RequireRole(model.RoleCustomer))
	g.PUT("/:id", h.update, middleware.RequireRole(model.RoleCustomer))
	g.DELETE("/:id", h.remove, middleware.RequireRole(model.RoleCustomer))

	//状態遷移はownerのみ
	g.PATCH("/:id/confirm", h.confirm, middleware.RequireRole(model.RoleOwner))
	g.PATCH("/:id/send", h.send, middleware.RequireRole(model.RoleOwner))
	g.PATCH("/:id/deliver", h.deliver, middleware.RequireRole(model.RoleOwner))

	g.GET("/analytics/:restaurantId", h.analytics, middleware.RequireRole(model.RoleOwner))
}

type orderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type orderCreateRequest struct {
	RestaurantID int64              `json:"restaurantId"`
	Address      string             `json:"address"`
	Products     []orderLineRequest `json:"products"`
}

type orderUpdateRequest struct {
	//作成後のrestaurantId変更は受け付けない（値が来たら422）
	RestaurantID *int64             `json:"restaurantId"`
	Address      string             `json:"address"`
	Products     []orderLineRequest `json:"products"`
}

// listはroleで分岐する。
// customer: 自分の注文一覧 / owner: restaurantIdを指定してその店の注文一覧。
func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, ok := getUserRoleFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if role == model.RoleCustomer {
		out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	restaurantID, err := strconv.ParseInt(c.QueryParam("restaurantId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "restaurantId is required"})
	}

	f, errMsg := parseOrderListFilter(c)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMsg})
	}

	out, err := h.ownerUC.List(c.Request().Context(), usecase.OwnerView(userID), restaurantID, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// status/from/toクエリの解釈。日付は YYYY-MM-DD のみ受ける。
func parseOrderListFilter(c echo.Context) (repo.OrderListFilter, string) {
	var f repo.OrderListFilter

	if v := c.QueryParam("status"); v != "" {
		status, ok := parseOrderStatus(v)
		if !ok {
			return f, "invalid status"
		}
		f.Status = status
	}

	if v := c.QueryParam("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, "invalid from"
		}
		f.From = &t
	}

	if v := c.QueryParam("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, "invalid to"
		}
		f.To = &t
	}

	return f, ""
}

// "in process" はURLに入れにくいので "in_process" も受ける
func parseOrderStatus(v string) (model.OrderStatus, bool) {
	switch v {
	case "pending":
		return model.OrderStatusPending, true
	case "in process", "in_process":
		return model.OrderStatusInProcess, true
	case "sent":
		return model.OrderStatusSent, true
	case "delivered":
		return model.OrderStatusDelivered, true
	default:
		return "", false
	}
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req orderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.CreateOrderInput{
		RestaurantID: req.RestaurantID,
		Address:      req.Address,
		Products:     toLineInputs(req.Products),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, ok := getUserRoleFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	viewer := usecase.CustomerView(userID)
	if role == model.RoleOwner {
		viewer = usecase.OwnerView(userID)
	}

	out, err := h.uc.GetOrderDetail(c.Request().Context(), viewer, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req orderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateOrder(c.Request().Context(), usecase.CustomerView(userID), id, usecase.UpdateOrderInput{
		RestaurantID: req.RestaurantID,
		Address:      req.Address,
		Products:     toLineInputs(req.Products),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) remove(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), usecase.CustomerView(userID), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *OrderHandler) confirm(c echo.Context) error {
	return h.transition(c, h.ownerUC.Confirm)
}

func (h *OrderHandler) send(c echo.Context) error {
	return h.transition(c, h.ownerUC.Send)
}

func (h *OrderHandler) deliver(c echo.Context) error {
	return h.transition(c, h.ownerUC.Deliver)
}

// transitionはconfirm/send/deliver共通のid取り出しとエラー処理。
func (h *OrderHandler) transition(
	c echo.Context,
	do func(ctx context.Context, viewer usecase.Viewer, orderID int64) (usecase.OrderOutput, error),
) error {
	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := do(c.Request().Context(), usecase.OwnerView(ownerID), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) analytics(c echo.Context) error {
	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	restaurantID, err := strconv.ParseInt(c.Param("restaurantId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid restaurant id"})
	}

	out, err := h.ownerUC.Analytics(c.Request().Context(), usecase.OwnerView(ownerID), restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func toLineInputs(lines []orderLineRequest) []usecase.OrderLineInput {
	out := make([]usecase.OrderLineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, usecase.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}
