package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/repository"
)

type BookingService struct {
	bookings *repository.BookingRepository
	items    *repository.ItemRepository
	users    *repository.UserRepository
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings *repository.BookingRepository,
	items *repository.ItemRepository,
	users *repository.UserRepository,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{bookings: bookings, items: items, users: users, logger: logger}
}

// Create places a WAITING booking. The owner booking their own item is
// reported as not-found, matching the product's decision to hide the
// operation rather than forbid it.
func (s *BookingService) Create(ctx context.Context, userID, itemID uint, start, end time.Time) (*models.Booking, error) {
	user, err := s.checkUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.Get(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, fmt.Errorf("item %d is not available: %w", itemID, ErrBadParameter)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("booking end must be after start: %w", ErrBadParameter)
	}
	if start.Before(time.Now()) {
		return nil, fmt.Errorf("booking start must not be in the past: %w", ErrBadParameter)
	}
	if item.OwnerID == userID {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   item.ID,
		BookerID: user.ID,
		Status:   models.StatusWaiting,
		Item:     *item,
		Booker:   *user,
	}
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	metrics.IncBookingTransition(string(models.StatusWaiting))
	s.logger.Info().Uint("booking_id", booking.ID).Uint("item_id", itemID).Uint("booker_id", userID).Msg("booking created")
	return booking, nil
}

// Approve resolves a WAITING booking to APPROVED or REJECTED. The
// transition runs as a single compare-and-swap so concurrent approvals
// cannot both succeed.
func (s *BookingService) Approve(ctx context.Context, userID, bookingID uint, approved bool) (*models.Booking, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Item.OwnerID != userID {
		return nil, fmt.Errorf("user %d does not own item %d: %w", userID, booking.ItemID, ErrForbidden)
	}

	target := models.StatusRejected
	if approved {
		target = models.StatusApproved
	}

	affected, err := s.bookings.TransitionStatus(ctx, bookingID, models.StatusWaiting, target)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("booking %d is not awaiting approval: %w", bookingID, ErrBadParameter)
	}
	metrics.IncBookingTransition(string(target))
	s.logger.Info().Uint("booking_id", bookingID).Str("status", string(target)).Msg("booking resolved")

	booking.Status = target
	return booking, nil
}

// GetByID is visible only to the booker and the item owner; everyone else
// gets not-found so the booking's existence is not leaked.
func (s *BookingService) GetByID(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && booking.Item.OwnerID != userID {
		return nil, fmt.Errorf("booking %d is not visible to user %d: %w", bookingID, userID, ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID uint, state models.BookingState, offset, limit int) ([]models.Booking, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.ListForBooker(ctx, userID, state, time.Now(), offset, limit)
}

func (s *BookingService) ListForOwner(ctx context.Context, userID uint, state models.BookingState, offset, limit int) ([]models.Booking, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.bookings.ListForOwner(ctx, userID, state, time.Now(), offset, limit)
}

func (s *BookingService) checkUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}
