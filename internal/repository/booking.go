package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shareit/internal/models"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Item").Preload("Booker")
}

func (r *BookingRepository) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.preloaded(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// TransitionStatus moves a booking from one status to another as a single
// guarded update. It returns the number of rows changed: zero means the
// booking was not in the expected status (or does not exist) and nothing
// was written. The conditional WHERE makes the read-check-write race-free.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id uint, from, to models.BookingStatus) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

// ListForBooker returns the booker's bookings filtered by state relative
// to now. ALL/PAST/FUTURE/WAITING/REJECTED order by start descending,
// CURRENT ascending.
func (r *BookingRepository) ListForBooker(ctx context.Context, bookerID uint, state models.BookingState, now time.Time, offset, limit int) ([]models.Booking, error) {
	q := r.preloaded(ctx).Where("booker_id = ?", bookerID)
	return r.listByState(q, state, now, offset, limit)
}

// ListForOwner is the owner-side counterpart of ListForBooker: it filters
// by the owner of the booked item.
func (r *BookingRepository) ListForOwner(ctx context.Context, ownerID uint, state models.BookingState, now time.Time, offset, limit int) ([]models.Booking, error) {
	q := r.preloaded(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	return r.listByState(q, state, now, offset, limit)
}

func (r *BookingRepository) listByState(q *gorm.DB, state models.BookingState, now time.Time, offset, limit int) ([]models.Booking, error) {
	switch state {
	case models.StateAll:
		q = q.Order("bookings.start_date DESC")
	case models.StateCurrent:
		q = q.Where("bookings.start_date < ? AND bookings.end_date > ?", now, now).Order("bookings.start_date ASC")
	case models.StatePast:
		q = q.Where("bookings.end_date < ? AND bookings.status = ?", now, models.StatusApproved).Order("bookings.start_date DESC")
	case models.StateFuture:
		q = q.Where("bookings.start_date > ?", now).Order("bookings.start_date DESC")
	case models.StateWaiting:
		q = q.Where("bookings.status = ?", models.StatusWaiting).Order("bookings.start_date DESC")
	case models.StateRejected:
		q = q.Where("bookings.status = ?", models.StatusRejected).Order("bookings.start_date DESC")
	}

	var bookings []models.Booking
	if err := q.Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// LastForItem returns the most recent APPROVED booking started before now,
// or (nil, nil) when there is none.
func (r *BookingRepository) LastForItem(ctx context.Context, itemID uint, now time.Time) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND start_date < ? AND status = ?", itemID, now, models.StatusApproved).
		Order("start_date DESC").
		First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// NextForItem returns the nearest APPROVED booking starting after now,
// or (nil, nil) when there is none.
func (r *BookingRepository) NextForItem(ctx context.Context, itemID uint, now time.Time) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND start_date > ? AND status = ?", itemID, now, models.StatusApproved).
		Order("start_date ASC").
		First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// LastForItems and NextForItems batch the last/next lookups for the owner's
// item list so the annotated listing needs two queries, not 2×N.
func (r *BookingRepository) LastForItems(ctx context.Context, itemIDs []uint, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id IN ? AND start_date < ? AND status = ?", itemIDs, now, models.StatusApproved).
		Order("start_date DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) NextForItems(ctx context.Context, itemIDs []uint, now time.Time) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id IN ? AND start_date > ? AND status = ?", itemIDs, now, models.StatusApproved).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// HasFinishedBooking reports whether the user completed an APPROVED rental
// of the item, i.e. both start and end are in the past.
func (r *BookingRepository) HasFinishedBooking(ctx context.Context, itemID, bookerID uint, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("item_id = ? AND booker_id = ? AND status = ? AND start_date < ? AND end_date < ?",
			itemID, bookerID, models.StatusApproved, now, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
