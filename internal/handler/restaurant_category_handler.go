package handler

import (
	"net/http"

	"deliverus/internal/config"
	"deliverus/internal/domain/model"
	"deliverus/internal/middleware"
	"deliverus/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /restaurantCategories のAPI
type RestaurantCategoryHandler struct {
	uc *usecase.RestaurantCategoryUsecase
}

// DI
func NewRestaurantCategoryHandler(uc *usecase.RestaurantCategoryUsecase) *RestaurantCategoryHandler {
	return &RestaurantCategoryHandler{uc: uc}
}

func (h *RestaurantCategoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/restaurantCategories", h.list)

	g := e.Group("/restaurantCategories")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RoleOwner))
	g.POST("", h.create)
}

func (h *RestaurantCategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type categoryCreateRequest struct {
	Name string `json:"name"`
}

func (h *RestaurantCategoryHandler) create(c echo.Context) error {
	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req categoryCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.Create(c.Request().Context(), ownerID, req.Name)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}
