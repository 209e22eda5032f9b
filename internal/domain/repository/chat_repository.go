package repository

import (
	"context"

	"barterin/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)

	// GetByRelationItems looks up the chatroom whose user-to-item mapping
	// equals relationItems. Returns NOT_FOUND when no such room exists.
	GetByRelationItems(ctx context.Context, relationItems map[string]string) (*entity.Chat, error)

	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id string) error
}
