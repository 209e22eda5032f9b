package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"barterin/internal/usecase"
	"barterin/pkg/errors"
	"barterin/pkg/response"
	"barterin/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type createItemRequest struct {
	Category       string   `json:"category" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Images         []string `json:"images" validate:"omitempty,dive,url"`
	Description    string   `json:"description"`
	Price          int64    `json:"price" validate:"gte=0"`
	ConditionRank  int      `json:"condition_rank" validate:"gte=0,lte=4"`
	BarterLocation string   `json:"barter_location" validate:"required"`
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	item, err := h.itemUseCase.CreateItem(c.Request().Context(), ownerID, usecase.CreateItemInput{
		Category:       req.Category,
		Name:           req.Name,
		Images:         req.Images,
		Description:    req.Description,
		Price:          req.Price,
		ConditionRank:  req.ConditionRank,
		BarterLocation: req.BarterLocation,
	})

	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	id := c.Param("id")

	item, err := h.itemUseCase.GetItemByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	item, err := h.itemUseCase.UpdateItem(c.Request().Context(), c.Param("id"), ownerID, usecase.CreateItemInput{
		Category:       req.Category,
		Name:           req.Name,
		Images:         req.Images,
		Description:    req.Description,
		Price:          req.Price,
		ConditionRank:  req.ConditionRank,
		BarterLocation: req.BarterLocation,
	})

	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	ownerID := c.Get("uid").(string)

	if err := h.itemUseCase.DeleteItem(c.Request().Context(), c.Param("id"), ownerID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item deleted"})
}

func (h *ItemHandler) ListMyItems(c echo.Context) error {
	ownerID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.itemUseCase.ListByOwnerID(c.Request().Context(), ownerID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

// ListFeed serves the item feed. The three modes are mutually exclusive:
// ?categories=books,toys restricts to an allow-list, ?category_map={"books":0}
// weights the page by preference rank, and neither yields the plain feed.
func (h *ItemHandler) ListFeed(c echo.Context) error {
	viewerID := c.Get("uid").(string)

	input := usecase.FeedInput{
		MaxConditionRank: -1,
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = v
		} else {
			return response.Error(c, errors.BadRequest("limit must be numeric", err))
		}
	}
	if pageStr := c.QueryParam("page"); pageStr != "" {
		if v, err := strconv.Atoi(pageStr); err == nil {
			input.Page = v
		} else {
			return response.Error(c, errors.BadRequest("page must be numeric", err))
		}
	}
	if sortStr := c.QueryParam("sort"); sortStr != "" {
		if v, err := strconv.Atoi(sortStr); err == nil {
			input.Sort = v
		} else {
			return response.Error(c, errors.BadRequest("sort must be numeric", err))
		}
	}

	input.NameQuery = c.QueryParam("q")

	if minStr := c.QueryParam("min_price"); minStr != "" {
		v, err := strconv.ParseInt(minStr, 10, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("min_price must be numeric", err))
		}
		input.MinPrice = v
	}
	if maxStr := c.QueryParam("max_price"); maxStr != "" {
		v, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("max_price must be numeric", err))
		}
		input.MaxPrice = v
	}
	if condStr := c.QueryParam("max_condition"); condStr != "" {
		v, err := strconv.Atoi(condStr)
		if err != nil {
			return response.Error(c, errors.BadRequest("max_condition must be numeric", err))
		}
		input.MaxConditionRank = v
	}
	if statusStr := c.QueryParam("statuses"); statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return response.Error(c, errors.BadRequest("statuses must be numeric", err))
			}
			input.Statuses = append(input.Statuses, v)
		}
	}

	if catStr := c.QueryParam("categories"); catStr != "" {
		input.Categories = strings.Split(catStr, ",")
	}
	if mapStr := c.QueryParam("category_map"); mapStr != "" {
		prefs := make(map[string]int)
		if err := json.Unmarshal([]byte(mapStr), &prefs); err != nil {
			return response.Error(c, errors.BadRequest("category_map must be a JSON object of category to rank", err))
		}
		input.CategoryPreferences = prefs
	}

	items, err := h.itemUseCase.ListFeed(c.Request().Context(), viewerID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}
