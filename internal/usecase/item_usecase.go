package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/pkg/errors"
)

type ItemUseCase struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

func NewItemUseCase(itemRepo repository.ItemRepository, userRepo repository.UserRepository) *ItemUseCase {
	return &ItemUseCase{
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

type CreateItemInput struct {
	Category       string   `json:"category"`
	Name           string   `json:"name"`
	Images         []string `json:"images"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	ConditionRank  int      `json:"condition_rank"`
	BarterLocation string   `json:"barter_location"`
}

// FeedInput describes one weighted feed page request. Exactly one of
// Categories (allow-list mode) and CategoryPreferences (weighted mode) may be
// set; with neither, the baseline filters apply unweighted.
type FeedInput struct {
	Limit int // default 10
	Page  int // default 1

	// Sort selects the ordering: ±1 creation time, ±2 price, positive for
	// ascending. Zero means creation time descending.
	Sort int

	NameQuery        string
	MinPrice         int64
	MaxPrice         int64
	MaxConditionRank int // -1 means unbounded
	Statuses         []int

	Categories          []string
	CategoryPreferences map[string]int
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, ownerID string, input CreateItemInput) (*entity.Item, error) {
	if _, err := uc.userRepo.GetByID(ctx, ownerID); err != nil {
		return nil, errors.BadRequest("Invalid owner", err)
	}

	if !entity.IsValidCategory(input.Category) {
		return nil, errors.BadRequest("Invalid category", nil)
	}
	if input.ConditionRank < entity.ConditionNew || input.ConditionRank > entity.ConditionWellUsed {
		return nil, errors.BadRequest("Condition rank must be between 0 and 4", nil)
	}
	if input.BarterLocation == "" {
		return nil, errors.BadRequest("Barter location is required", nil)
	}
	if input.Price < 0 {
		return nil, errors.BadRequest("Price must not be negative", nil)
	}

	item := &entity.Item{
		OwnerID:        ownerID,
		Category:       input.Category,
		Name:           input.Name,
		Images:         input.Images,
		Description:    input.Description,
		Price:          input.Price,
		ConditionRank:  input.ConditionRank,
		BarterLocation: input.BarterLocation,
		Status:         entity.ItemStatusUnreserved,
		Views:          0,
		LikedUsers:     make(map[string]string),
		UnlikedUsers:   []string{},
		MatchedUsers:   make(map[string]string),
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (uc *ItemUseCase) GetItemByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Increment view counter (async)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = uc.itemRepo.IncrementViews(ctx, id)
	}()

	return item, nil
}

func (uc *ItemUseCase) UpdateItem(ctx context.Context, id, ownerID string, input CreateItemInput) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != ownerID {
		return nil, errors.Forbidden("You don't have permission to update this item", nil)
	}

	if !entity.IsValidCategory(input.Category) {
		return nil, errors.BadRequest("Invalid category", nil)
	}
	if input.ConditionRank < entity.ConditionNew || input.ConditionRank > entity.ConditionWellUsed {
		return nil, errors.BadRequest("Condition rank must be between 0 and 4", nil)
	}
	if input.BarterLocation == "" {
		return nil, errors.BadRequest("Barter location is required", nil)
	}

	// Relationship maps and status are owned by the barter state machine and
	// never client-writable.
	item.Category = input.Category
	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.ConditionRank = input.ConditionRank
	item.BarterLocation = input.BarterLocation
	if len(input.Images) > 0 {
		item.Images = input.Images
	}

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes the document outright. Counterpart items keep any stale
// relationship keys pointing at the deleted item; readers filter those
// defensively instead of cascading a cleanup here.
func (uc *ItemUseCase) DeleteItem(ctx context.Context, id, ownerID string) error {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if item.OwnerID != ownerID {
		return errors.Forbidden("You don't have permission to delete this item", nil)
	}

	return uc.itemRepo.Delete(ctx, id)
}

func (uc *ItemUseCase) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Item, int64, error) {
	return uc.itemRepo.ListByOwnerID(ctx, ownerID, limit, offset)
}

// ListFeed builds a ranked item page for the viewer. Items the viewer owns or
// has already liked, unliked, or matched are always excluded. With a category
// preference map the page budget is split by successive halving: the most
// preferred category gets half the budget, the next half of the remainder,
// and so on, with the final remainder serving every undeclared category as a
// single catch-all bucket. Each bucket is queried on its own and results are
// concatenated in preference order.
func (uc *ItemUseCase) ListFeed(ctx context.Context, viewerID string, input FeedInput) ([]*entity.Item, error) {
	if viewerID == "" {
		return nil, errors.BadRequest("Viewer is required", nil)
	}
	if len(input.Categories) > 0 && len(input.CategoryPreferences) > 0 {
		return nil, errors.BadRequest("Provide either a category list or a category preference map, not both", nil)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}

	base := repository.ItemListParams{
		ViewerID:         viewerID,
		NameQuery:        input.NameQuery,
		MinPrice:         input.MinPrice,
		MaxPrice:         input.MaxPrice,
		MaxConditionRank: input.MaxConditionRank,
		Statuses:         input.Statuses,
		Sort:             feedSortString(input.Sort),
	}

	if len(input.CategoryPreferences) == 0 {
		params := base
		params.Categories = input.Categories
		params.Limit = limit
		params.Offset = (page - 1) * limit

		items, _, err := uc.itemRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return items, nil
	}

	ordered, err := orderedPreferences(input.CategoryPreferences)
	if err != nil {
		return nil, err
	}

	var feed []*entity.Item
	remaining := 1.0
	for _, category := range ordered {
		remaining /= 2

		params := base
		params.Categories = []string{category}
		params.Limit = int(math.Ceil(float64(limit) * remaining))
		params.Offset = (page - 1) * params.Limit

		items, _, err := uc.itemRepo.List(ctx, params)
		if err != nil {
			return nil, err
		}
		feed = append(feed, items...)
	}

	// The leftover share after the last declared category serves every other
	// category as one catch-all bucket, so declared preferences never starve
	// the rest of the corpus.
	params := base
	params.ExcludeCategories = ordered
	params.Limit = int(math.Ceil(float64(limit) * remaining))
	params.Offset = (page - 1) * params.Limit

	items, _, err := uc.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	feed = append(feed, items...)

	return feed, nil
}

// orderedPreferences validates a category preference map (ranks must form a
// contiguous 0..N-1 permutation over known categories) and returns the
// categories sorted most preferred first.
func orderedPreferences(prefs map[string]int) ([]string, error) {
	seen := make(map[int]bool, len(prefs))
	ordered := make([]string, 0, len(prefs))

	for category, rank := range prefs {
		if !entity.IsValidCategory(category) {
			return nil, errors.BadRequest("Invalid category in preference map", nil)
		}
		if rank < 0 || rank >= len(prefs) || seen[rank] {
			return nil, errors.BadRequest("Category ranks must be a contiguous permutation starting at 0", nil)
		}
		seen[rank] = true
		ordered = append(ordered, category)
	}

	sort.Slice(ordered, func(i, j int) bool {
		return prefs[ordered[i]] < prefs[ordered[j]]
	})

	return ordered, nil
}

func feedSortString(mode int) string {
	switch mode {
	case 1:
		return "createdAt_asc"
	case -1:
		return "createdAt_desc"
	case 2:
		return "price_asc"
	case -2:
		return "price_desc"
	default:
		return "createdAt_desc"
	}
}
