package repository

import (
	"context"

	"barterin/internal/domain/entity"
)

// ItemListParams carries the filter set for a single feed query. A feed page
// built from a category preference map issues one query per exposure bucket.
type ItemListParams struct {
	// ViewerID enables the baseline exclusions: items the viewer owns, has
	// liked, has unliked, or has matched are dropped from the result.
	ViewerID string

	// Categories restricts the result to these categories. Empty means no
	// restriction. ExcludeCategories inverts the restriction and serves the
	// catch-all bucket; at most one of the two is set.
	Categories        []string
	ExcludeCategories []string

	NameQuery        string
	MinPrice         int64
	MaxPrice         int64 // 0 means unbounded
	MaxConditionRank int   // -1 means unbounded
	Statuses         []int

	Sort   string // e.g. "createdAt_desc", "price_asc"
	Limit  int
	Offset int
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ItemListParams) ([]*entity.Item, int64, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Item, int64, error)
	IncrementViews(ctx context.Context, id string) error
}
