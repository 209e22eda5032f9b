package router

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/adapter/api/handler"
)

// SetupDevRouter exposes development-only routes.
func SetupDevRouter(e *echo.Echo, devTokenHandler *handler.DevTokenHandler, environment string) {
	if environment != "development" {
		return
	}

	e.POST("/v1/dev/token", devTokenHandler.GenerateToken)
}
