package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/internal/cache"
	"shareit/internal/models"
	"shareit/internal/repository"
)

// ItemDetail is an item annotated for its owner: the most recent past
// APPROVED booking, the nearest future one, and all comments. For
// non-owners the booking fields stay nil.
type ItemDetail struct {
	Item        models.Item
	LastBooking *models.Booking
	NextBooking *models.Booking
	Comments    []models.Comment
}

type ItemService struct {
	items       *repository.ItemRepository
	users       *repository.UserRepository
	bookings    *repository.BookingRepository
	comments    *repository.CommentRepository
	requests    *repository.RequestRepository
	searchCache *cache.SearchCache
	logger      *zerolog.Logger
}

func NewItemService(
	items *repository.ItemRepository,
	users *repository.UserRepository,
	bookings *repository.BookingRepository,
	comments *repository.CommentRepository,
	requests *repository.RequestRepository,
	searchCache *cache.SearchCache,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:       items,
		users:       users,
		bookings:    bookings,
		comments:    comments,
		requests:    requests,
		searchCache: searchCache,
		logger:      logger,
	}
}

type ItemInput struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *uint
}

func (s *ItemService) Create(ctx context.Context, userID uint, in ItemInput) (*models.Item, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	v := NewValidationError()
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "must not be blank")
	}
	if strings.TrimSpace(in.Description) == "" {
		v.Add("description", "must not be blank")
	}
	if in.Available == nil {
		v.Add("available", "is required")
	}
	if !v.Empty() {
		return nil, v
	}

	if in.RequestID != nil {
		if _, err := s.requests.Get(ctx, *in.RequestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("request %d: %w", *in.RequestID, ErrNotFound)
			}
			return nil, err
		}
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     userID,
		RequestID:   in.RequestID,
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	s.searchCache.Invalidate(ctx)
	s.logger.Info().Uint("item_id", item.ID).Uint("owner_id", userID).Msg("item created")
	return item, nil
}

// Update is owner-only and partial: blank name/description and nil
// available keep the stored values.
func (s *ItemService) Update(ctx context.Context, userID, itemID uint, in ItemInput) (*models.Item, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, fmt.Errorf("user %d does not own item %d: %w", userID, itemID, ErrForbidden)
	}

	if strings.TrimSpace(in.Name) != "" {
		item.Name = in.Name
	}
	if strings.TrimSpace(in.Description) != "" {
		item.Description = in.Description
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	s.searchCache.Invalidate(ctx)
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID uint) error {
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.searchCache.Invalidate(ctx)
	return nil
}

// GetByID returns the item with its comments. Last/next bookings are
// attached only when the caller owns the item.
func (s *ItemService) GetByID(ctx context.Context, userID, itemID uint) (*ItemDetail, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := &ItemDetail{Item: *item, Comments: comments}
	if item.OwnerID != userID {
		return detail, nil
	}

	now := time.Now()
	if detail.LastBooking, err = s.bookings.LastForItem(ctx, itemID, now); err != nil {
		return nil, err
	}
	if detail.NextBooking, err = s.bookings.NextForItem(ctx, itemID, now); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListForOwner returns the caller's items annotated with last/next
// bookings and comments, assembled from three bulk queries.
func (s *ItemService) ListForOwner(ctx context.Context, userID uint, offset, limit int) ([]ItemDetail, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByOwner(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []ItemDetail{}, nil
	}

	itemIDs := make([]uint, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	now := time.Now()
	lastBookings, err := s.bookings.LastForItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	nextBookings, err := s.bookings.NextForItems(ctx, itemIDs, now)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	// Both booking lists are ordered so the first hit per item wins.
	lastByItem := make(map[uint]*models.Booking)
	for i := range lastBookings {
		b := &lastBookings[i]
		if _, ok := lastByItem[b.ItemID]; !ok {
			lastByItem[b.ItemID] = b
		}
	}
	nextByItem := make(map[uint]*models.Booking)
	for i := range nextBookings {
		b := &nextBookings[i]
		if _, ok := nextByItem[b.ItemID]; !ok {
			nextByItem[b.ItemID] = b
		}
	}
	commentsByItem := make(map[uint][]models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	details := make([]ItemDetail, len(items))
	for i, item := range items {
		details[i] = ItemDetail{
			Item:        item,
			LastBooking: lastByItem[item.ID],
			NextBooking: nextByItem[item.ID],
			Comments:    commentsByItem[item.ID],
		}
	}
	return details, nil
}

// Search returns available items matching text in name or description.
// Blank text short-circuits to an empty result without touching storage.
func (s *ItemService) Search(ctx context.Context, text string, offset, limit int) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}

	if items, ok := s.searchCache.Get(ctx, text, offset, limit); ok {
		return items, nil
	}

	items, err := s.items.Search(ctx, text, offset, limit)
	if err != nil {
		return nil, err
	}
	s.searchCache.Set(ctx, text, offset, limit, items)
	return items, nil
}

// SaveComment requires the author to have a fully finished APPROVED
// booking of the item.
func (s *ItemService) SaveComment(ctx context.Context, userID, itemID uint, text string) (*models.Comment, error) {
	user, err := s.checkUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		v := NewValidationError()
		v.Add("text", "must not be blank")
		return nil, v
	}

	rented, err := s.bookings.HasFinishedBooking(ctx, itemID, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, fmt.Errorf("user %d has not rented item %d: %w", userID, itemID, ErrBadParameter)
	}

	comment := &models.Comment{
		Text:     text,
		ItemID:   item.ID,
		AuthorID: user.ID,
		Created:  time.Now(),
		Author:   *user,
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ItemService) checkUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ItemService) getItem(ctx context.Context, itemID uint) (*models.Item, error) {
	item, err := s.items.Get(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
