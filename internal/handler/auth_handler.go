package handler

import (
	"net/http"
	"time"

	"deliverus/internal/domain/model"
	auth "deliverus/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /auth のAPI
type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
}

// DI
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//role未指定はcustomer
	role := model.RoleCustomer
	if req.Role != "" {
		role = model.Role(req.Role)
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out.User)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		User:      out.User,
	})
}

// auth usecaseのセンチネルエラーをHTTPへ写す
func writeAuthError(c echo.Context, err error) error {
	switch err {
	case auth.ErrInvalidEmailFormat:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Errors: map[string]string{"email": "invalid email format"},
		})
	case auth.ErrPasswordTooShort:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Errors: map[string]string{"password": "password must be at least 8 characters"},
		})
	case auth.ErrInvalidRole:
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Errors: map[string]string{"role": "role must be customer or owner"},
		})
	case auth.ErrEmailAlreadyExists:
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already exists"})
	case auth.ErrInvalidCredentials:
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
