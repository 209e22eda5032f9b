package handler

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/usecase"
	"barterin/pkg/response"
)

type BarterHandler struct {
	barterUseCase *usecase.BarterUseCase
}

func NewBarterHandler(barterUseCase *usecase.BarterUseCase) *BarterHandler {
	return &BarterHandler{
		barterUseCase: barterUseCase,
	}
}

type likeRequest struct {
	MyItemID string `json:"my_item_id" validate:"required"`
}

type matchRequest struct {
	MyItemID string `json:"my_item_id" validate:"required"`
}

// Like expresses interest in the target item, offering the caller's own item.
func (h *BarterHandler) Like(c echo.Context) error {
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	requesterID := c.Get("uid").(string)
	targetItemID := c.Param("id")

	if err := h.barterUseCase.RequestLike(c.Request().Context(), requesterID, req.MyItemID, targetItemID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Like recorded"})
}

// Unlike declines the target item.
func (h *BarterHandler) Unlike(c echo.Context) error {
	requesterID := c.Get("uid").(string)
	targetItemID := c.Param("id")

	if err := h.barterUseCase.RequestUnlike(c.Request().Context(), requesterID, targetItemID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Unlike recorded"})
}

// Match confirms an incoming like and returns the resulting chatroom.
func (h *BarterHandler) Match(c echo.Context) error {
	var req matchRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)
	targetItemID := c.Param("id")

	result, err := h.barterUseCase.RequestMatch(c.Request().Context(), ownerID, req.MyItemID, targetItemID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}
