package handler

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/usecase"
	"barterin/pkg/response"
	"barterin/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	MyItemID     string `json:"my_item_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
	TargetItemID string `json:"target_item_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateChat opens a conversation about two specific items without a prior
// match. Returns the existing room when one already covers the pair.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, existed, err := h.chatUseCase.CreateDirect(c.Request().Context(), userID, usecase.CreateChatInput{
		MyItemID:     req.MyItemID,
		TargetUserID: req.TargetUserID,
		TargetItemID: req.TargetItemID,
	})

	if err != nil {
		return response.Error(c, err)
	}

	if existed {
		return response.Success(c, chat)
	}
	return response.Created(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	chats, total, err := h.chatUseCase.ListChatrooms(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, chats, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	senderID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), senderID, usecase.SendMessageInput{
		ChatroomID: c.Param("id"),
		Content:    req.Content,
	})

	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetUnseenMessages returns messages past the requester's read watermark and
// marks the counterpart's messages as seen.
func (h *ChatHandler) GetUnseenMessages(c echo.Context) error {
	requesterID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetUnseenMessages(c.Request().Context(), requesterID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) DeleteChat(c echo.Context) error {
	requesterID := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteChatroom(c.Request().Context(), requesterID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Chatroom deleted"})
}
