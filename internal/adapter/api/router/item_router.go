package router

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/adapter/api/handler"
	"barterin/internal/adapter/api/middleware"
)

// SetupItemRouter wires item CRUD, the weighted feed, and the barter
// relationship endpoints.
func SetupItemRouter(e *echo.Echo, itemHandler *handler.ItemHandler, barterHandler *handler.BarterHandler, authMiddleware *middleware.AuthMiddleware) {
	itemGroup := e.Group("/v1/items")
	itemGroup.Use(authMiddleware.Authenticate)

	itemGroup.POST("", itemHandler.CreateItem)
	itemGroup.GET("", itemHandler.ListFeed)
	itemGroup.GET("/mine", itemHandler.ListMyItems)
	itemGroup.GET("/:id", itemHandler.GetItem)
	itemGroup.PATCH("/:id", itemHandler.UpdateItem)
	itemGroup.DELETE("/:id", itemHandler.DeleteItem)

	itemGroup.POST("/:id/like", barterHandler.Like)
	itemGroup.POST("/:id/unlike", barterHandler.Unlike)
	itemGroup.POST("/:id/match", barterHandler.Match)
}
