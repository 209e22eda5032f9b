package router

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/adapter/api/handler"
	"barterin/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	userHandler *handler.UserHandler,
	itemHandler *handler.ItemHandler,
	barterHandler *handler.BarterHandler,
) {
	SetupUserRouter(e, userHandler, authMiddleware)
	SetupItemRouter(e, itemHandler, barterHandler, authMiddleware)
	SetupHealthRouter(e)
}
