package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shareit/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Request{}, &models.Item{},
		&models.Booking{}, &models.Comment{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedBookingFixtures(t *testing.T, db *gorm.DB) (owner, booker models.User, item models.Item) {
	t.Helper()
	owner = models.User{Name: "Owner", Email: "owner@example.com"}
	booker = models.User{Name: "Booker", Email: "booker@example.com"}
	assert.NoError(t, db.Create(&owner).Error)
	assert.NoError(t, db.Create(&booker).Error)
	item = models.Item{Name: "Drill", Description: "a drill", Available: true, OwnerID: owner.ID}
	assert.NoError(t, db.Create(&item).Error)
	return owner, booker, item
}

func TestTransitionStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, booker, item := seedBookingFixtures(t, db)

	now := time.Now()
	booking := models.Booking{
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusWaiting,
	}
	assert.NoError(t, db.Create(&booking).Error)

	affected, err := repo.TransitionStatus(ctx, booking.ID, models.StatusWaiting, models.StatusApproved)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// The guard makes a second transition a no-op.
	affected, err = repo.TransitionStatus(ctx, booking.ID, models.StatusWaiting, models.StatusRejected)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	got, err := repo.Get(ctx, booking.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestLastAndNextForItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, booker, item := seedBookingFixtures(t, db)

	now := time.Now()
	older := models.Booking{
		Start: now.Add(-4 * time.Hour), End: now.Add(-3 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	recent := models.Booking{
		Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	soon := models.Booking{
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	later := models.Booking{
		Start: now.Add(3 * time.Hour), End: now.Add(4 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	// A WAITING future booking must not shadow the approved one.
	waiting := models.Booking{
		Start: now.Add(30 * time.Minute), End: now.Add(45 * time.Minute),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusWaiting,
	}
	for _, b := range []*models.Booking{&older, &recent, &soon, &later, &waiting} {
		assert.NoError(t, db.Create(b).Error)
	}

	last, err := repo.LastForItem(ctx, item.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, recent.ID, last.ID)

	next, err := repo.NextForItem(ctx, item.ID, now)
	assert.NoError(t, err)
	assert.Equal(t, soon.ID, next.ID)
}

func TestLastAndNextForItemEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, _, item := seedBookingFixtures(t, db)

	last, err := repo.LastForItem(ctx, item.ID, time.Now())
	assert.NoError(t, err)
	assert.Nil(t, last)

	next, err := repo.NextForItem(ctx, item.ID, time.Now())
	assert.NoError(t, err)
	assert.Nil(t, next)
}

func TestHasFinishedBooking(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, booker, item := seedBookingFixtures(t, db)

	now := time.Now()

	ok, err := repo.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	assert.NoError(t, err)
	assert.False(t, ok)

	// An ongoing booking does not count.
	ongoing := models.Booking{
		Start: now.Add(-time.Hour), End: now.Add(time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	assert.NoError(t, db.Create(&ongoing).Error)
	ok, err = repo.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	assert.NoError(t, err)
	assert.False(t, ok)

	// A finished REJECTED booking does not count either.
	rejected := models.Booking{
		Start: now.Add(-3 * time.Hour), End: now.Add(-2 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusRejected,
	}
	assert.NoError(t, db.Create(&rejected).Error)
	ok, err = repo.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	assert.NoError(t, err)
	assert.False(t, ok)

	finished := models.Booking{
		Start: now.Add(-5 * time.Hour), End: now.Add(-4 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	assert.NoError(t, db.Create(&finished).Error)
	ok, err = repo.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestListForBookerPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	_, booker, item := seedBookingFixtures(t, db)

	now := time.Now()
	for i := 1; i <= 5; i++ {
		b := models.Booking{
			Start:  now.Add(time.Duration(i) * time.Hour),
			End:    now.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			ItemID: item.ID, BookerID: booker.ID, Status: models.StatusWaiting,
		}
		assert.NoError(t, db.Create(&b).Error)
	}

	page, err := repo.ListForBooker(ctx, booker.ID, models.StateAll, now, 0, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 2)
	// ALL is ordered by start descending.
	assert.True(t, page[0].Start.After(page[1].Start))

	page, err = repo.ListForBooker(ctx, booker.ID, models.StateAll, now, 4, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
}
