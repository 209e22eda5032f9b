package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/pkg/errors"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		id, err := r.generateUniqueID(ctx)
		if err != nil {
			return err
		}
		item.ID = id
	}

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create item", err)
	}

	return nil
}

// generateUniqueID draws UUIDs until one has no existing document.
func (r *firestoreItemRepository) generateUniqueID(ctx context.Context) (string, error) {
	for {
		id := uuid.New().String()
		_, err := r.client.Collection("items").Doc(id).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return id, nil
			}
			return "", errors.Internal("Failed to check item ID uniqueness", err)
		}
	}
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection("items").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}

	return &item, nil
}

func (r *firestoreItemRepository) Update(ctx context.Context, item *entity.Item) error {
	item.UpdatedAt = time.Now()

	_, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to update item", err)
	}

	return nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("items").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete item", err)
	}

	return nil
}

func (r *firestoreItemRepository) List(ctx context.Context, params repository.ItemListParams) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Query

	if len(params.Categories) == 1 {
		query = query.Where("category", "==", params.Categories[0])
	} else if len(params.Categories) > 1 {
		query = query.Where("category", "in", params.Categories)
	}

	// Apply sorting
	field, order := parseSort(params.Sort)
	query = query.OrderBy(field, order)

	// Viewer exclusions and the remaining filters need map-key and negated
	// membership checks Firestore cannot express, so they are applied after
	// fetching.
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list items", err)
	}

	var matched []*entity.Item
	for _, doc := range docs {
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse item data", err)
		}
		if itemMatchesParams(&item, params) {
			matched = append(matched, &item)
		}
	}

	total := int64(len(matched))

	// Manual pagination over the filtered result
	start := params.Offset
	end := params.Offset + params.Limit
	if params.Limit <= 0 {
		end = len(matched)
	}
	if start >= len(matched) {
		return []*entity.Item{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func itemMatchesParams(item *entity.Item, params repository.ItemListParams) bool {
	if params.ViewerID != "" {
		if item.OwnerID == params.ViewerID ||
			item.LikedBy(params.ViewerID) ||
			item.UnlikedBy(params.ViewerID) ||
			item.MatchedWith(params.ViewerID) {
			return false
		}
	}

	if len(params.ExcludeCategories) > 0 {
		for _, c := range params.ExcludeCategories {
			if item.Category == c {
				return false
			}
		}
	}

	if params.NameQuery != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(params.NameQuery)) {
		return false
	}
	if params.MinPrice > 0 && item.Price < params.MinPrice {
		return false
	}
	if params.MaxPrice > 0 && item.Price > params.MaxPrice {
		return false
	}
	if params.MaxConditionRank >= 0 && item.ConditionRank > params.MaxConditionRank {
		return false
	}
	if len(params.Statuses) > 0 {
		ok := false
		for _, s := range params.Statuses {
			if item.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	return true
}

func parseSort(sortStr string) (string, firestore.Direction) {
	if sortStr == "" {
		return "createdAt", firestore.Desc
	}

	parts := strings.Split(sortStr, "_")
	field := parts[0]
	order := firestore.Asc
	if len(parts) > 1 && parts[1] == "desc" {
		order = firestore.Desc
	}
	return field, order
}

func (r *firestoreItemRepository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Query.
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count items", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var items []*entity.Item

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate items", err)
		}
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse item data", err)
		}
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreItemRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to increment item views", err)
	}

	return nil
}
