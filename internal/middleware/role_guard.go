package middleware

import (
	"net/http"

	"deliverus/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleが指定のものかを確認します。

func RequireRole(required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role != string(required) {
				return c.JSON(http.StatusForbidden, errorJSON("not enough privileges"))
			}

			return next(c)
		}
	}
}
