package handler

import (
	"github.com/labstack/echo/v4"

	"barterin/internal/infrastructure/firebase"
	"barterin/pkg/errors"
	"barterin/pkg/response"
)

// DevTokenHandler mints custom tokens for local development. Never routed in
// production.
type DevTokenHandler struct {
	authClient *firebase.FirebaseAuthClient
}

func NewDevTokenHandler(authClient *firebase.FirebaseAuthClient) *DevTokenHandler {
	return &DevTokenHandler{
		authClient: authClient,
	}
}

type devTokenRequest struct {
	UID string `json:"uid" validate:"required"`
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.authClient.GenerateToken(c.Request().Context(), req.UID)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]string{"token": token})
}
