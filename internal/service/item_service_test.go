package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shareit/internal/models"
)

func TestItemCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")

	_, err := env.items.Create(ctx, owner.ID, ItemInput{})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "name")
	assert.Contains(t, vErr.Fields, "description")
	assert.Contains(t, vErr.Fields, "available")
}

func TestItemCreateUnknownOwner(t *testing.T) {
	env := newTestEnv(t)
	available := true

	_, err := env.items.Create(context.Background(), 999, ItemInput{
		Name: "Drill", Description: "a drill", Available: &available,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemCreateForRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	requester := env.createUser(t, "Requester", "req@example.com")
	req, err := env.requests.Create(ctx, requester.ID, "need a drill")
	assert.NoError(t, err)

	available := true
	item, err := env.items.Create(ctx, owner.ID, ItemInput{
		Name: "Drill", Description: "a drill", Available: &available, RequestID: &req.ID,
	})
	assert.NoError(t, err)
	assert.Equal(t, req.ID, *item.RequestID)

	unknown := uint(999)
	_, err = env.items.Create(ctx, owner.ID, ItemInput{
		Name: "Drill", Description: "a drill", Available: &available, RequestID: &unknown,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	updated, err := env.items.Update(ctx, owner.ID, item.ID, ItemInput{Name: "Hammer drill"})
	assert.NoError(t, err)
	assert.Equal(t, "Hammer drill", updated.Name)
	assert.Equal(t, item.Description, updated.Description)
	assert.True(t, updated.Available)

	off := false
	updated, err = env.items.Update(ctx, owner.ID, item.ID, ItemInput{Available: &off})
	assert.NoError(t, err)
	assert.Equal(t, "Hammer drill", updated.Name)
	assert.False(t, updated.Available)
}

func TestItemUpdateNotOwner(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	other := env.createUser(t, "Other", "other@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	_, err := env.items.Update(context.Background(), other.ID, item.ID, ItemInput{Name: "Mine now"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestItemSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	env.createItem(t, owner.ID, "Cordless Drill", true)
	env.createItem(t, owner.ID, "Hand saw", true)
	env.createItem(t, owner.ID, "Broken drill", false)

	found, err := env.items.Search(ctx, "dRiLl", 0, 20)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Cordless Drill", found[0].Name)

	// Description matches too.
	found, err = env.items.Search(ctx, "saw description", 0, 20)
	assert.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = env.items.Search(ctx, "   ", 0, 20)
	assert.NoError(t, err)
	assert.Empty(t, found)
	assert.NotNil(t, found)
}

func TestItemGetByIDAnnotations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	now := time.Now()
	last := models.Booking{
		Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	assert.NoError(t, env.db.Create(&last).Error)
	next := models.Booking{
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	assert.NoError(t, env.db.Create(&next).Error)

	// The owner sees the booking annotations.
	detail, err := env.items.GetByID(ctx, owner.ID, item.ID)
	assert.NoError(t, err)
	assert.NotNil(t, detail.LastBooking)
	assert.NotNil(t, detail.NextBooking)
	assert.Equal(t, last.ID, detail.LastBooking.ID)
	assert.Equal(t, next.ID, detail.NextBooking.ID)

	// Anyone else does not.
	detail, err = env.items.GetByID(ctx, booker.ID, item.ID)
	assert.NoError(t, err)
	assert.Nil(t, detail.LastBooking)
	assert.Nil(t, detail.NextBooking)
}

func TestItemListForOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	other := env.createUser(t, "Other", "other@example.com")
	first := env.createItem(t, owner.ID, "Drill", true)
	second := env.createItem(t, owner.ID, "Saw", true)
	env.createItem(t, other.ID, "Hammer", true)

	details, err := env.items.ListForOwner(ctx, owner.ID, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, details, 2)
	assert.Equal(t, first.ID, details[0].Item.ID)
	assert.Equal(t, second.ID, details[1].Item.ID)

	empty, err := env.items.ListForOwner(ctx, other.ID, 5, 20)
	assert.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)
}

func TestCommentRequiresFinishedBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	// No booking at all.
	_, err := env.items.SaveComment(ctx, booker.ID, item.ID, "great drill")
	assert.ErrorIs(t, err, ErrBadParameter)

	// A future booking is not enough.
	start := time.Now().Add(time.Hour)
	env.createBooking(t, booker.ID, item.ID, start, start.Add(time.Hour))
	_, err = env.items.SaveComment(ctx, booker.ID, item.ID, "great drill")
	assert.ErrorIs(t, err, ErrBadParameter)

	// A finished APPROVED booking unlocks commenting.
	now := time.Now()
	done := models.Booking{
		Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour),
		ItemID: item.ID, BookerID: booker.ID, Status: models.StatusApproved,
	}
	assert.NoError(t, env.db.Create(&done).Error)

	comment, err := env.items.SaveComment(ctx, booker.ID, item.ID, "great drill")
	assert.NoError(t, err)
	assert.Equal(t, "great drill", comment.Text)
	assert.Equal(t, "Booker", comment.Author.Name)
	assert.False(t, comment.Created.IsZero())
}

func TestCommentBlankText(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "Owner", "owner@example.com")
	booker := env.createUser(t, "Booker", "booker@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	_, err := env.items.SaveComment(context.Background(), booker.ID, item.ID, "  ")
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestItemDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "Owner", "owner@example.com")
	item := env.createItem(t, owner.ID, "Drill", true)

	assert.NoError(t, env.items.Delete(ctx, item.ID))
	_, err := env.items.GetByID(ctx, owner.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
