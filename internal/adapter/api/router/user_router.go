package router

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/adapter/api/handler"
	"barterin/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	e.POST("/v1/auth/register", userHandler.Register, authMiddleware.Authenticate)

	userGroup := e.Group("/v1/users")
	userGroup.Use(authMiddleware.Authenticate)

	userGroup.GET("/me", userHandler.GetMe)
	userGroup.PATCH("/me", userHandler.UpdateMe)
}
