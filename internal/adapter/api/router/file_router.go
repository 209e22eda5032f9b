package router

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/adapter/api/handler"
	"barterin/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	fileGroup := e.Group("/v1/files")
	fileGroup.Use(authMiddleware.Authenticate)

	fileGroup.POST("/item-image", fileHandler.UploadItemImage)
}
