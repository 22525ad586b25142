package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"shareit/internal/models"
)

func TestItemSearchMatching(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	owner := models.User{Name: "Owner", Email: "owner@example.com"}
	assert.NoError(t, db.Create(&owner).Error)

	items := []models.Item{
		{Name: "Cordless Drill", Description: "compact power tool", Available: true, OwnerID: owner.ID},
		{Name: "Hand saw", Description: "for wood", Available: true, OwnerID: owner.ID},
		{Name: "Old drill", Description: "worn out", Available: false, OwnerID: owner.ID},
		{Name: "Ladder", Description: "drill not included", Available: true, OwnerID: owner.ID},
	}
	for i := range items {
		assert.NoError(t, db.Create(&items[i]).Error)
	}

	found, err := repo.Search(ctx, "DRILL", 0, 20)
	assert.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Cordless Drill", found[0].Name)
	assert.Equal(t, "Ladder", found[1].Name)

	found, err = repo.Search(ctx, "wood", 0, 20)
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Hand saw", found[0].Name)

	found, err = repo.Search(ctx, "nothing here", 0, 20)
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestItemSearchPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	owner := models.User{Name: "Owner", Email: "owner@example.com"}
	assert.NoError(t, db.Create(&owner).Error)

	for i := 0; i < 5; i++ {
		item := models.Item{Name: "Drill", Description: "tool", Available: true, OwnerID: owner.ID}
		assert.NoError(t, db.Create(&item).Error)
	}

	page, err := repo.Search(ctx, "drill", 0, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = repo.Search(ctx, "drill", 4, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestListByRequestIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	owner := models.User{Name: "Owner", Email: "owner@example.com"}
	requester := models.User{Name: "Requester", Email: "req@example.com"}
	assert.NoError(t, db.Create(&owner).Error)
	assert.NoError(t, db.Create(&requester).Error)

	req := models.Request{Description: "need a drill", UserID: requester.ID}
	assert.NoError(t, db.Create(&req).Error)

	linked := models.Item{Name: "Drill", Description: "tool", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	loose := models.Item{Name: "Saw", Description: "tool", Available: true, OwnerID: owner.ID}
	assert.NoError(t, db.Create(&linked).Error)
	assert.NoError(t, db.Create(&loose).Error)

	found, err := repo.ListByRequestIDs(ctx, []uint{req.ID})
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, linked.ID, found[0].ID)

	found, err = repo.ListByRequestIDs(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, found)
}
