package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/network-actions-api/internal/models"
)

func parentRef(id string) *string { return &id }

func TestHelpRepositoryListOrdersByOrder(t *testing.T) {
	repo := NewHelpRepository(
		models.HelpSection{ID: "b", Title: "Reports", Order: 2},
		models.HelpSection{ID: "a", Title: "Getting started", Order: 1},
		models.HelpSection{ID: "c", Title: "Actions", Order: 1},
	)
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestHelpRepositoryDeleteCascades(t *testing.T) {
	repo := NewHelpRepository(
		models.HelpSection{ID: "root", Title: "Root"},
		models.HelpSection{ID: "child", Title: "Child", ParentID: parentRef("root")},
		models.HelpSection{ID: "grandchild", Title: "Grandchild", ParentID: parentRef("child")},
		models.HelpSection{ID: "other", Title: "Other"},
	)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "root"))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "other", list[0].ID)

	assert.ErrorIs(t, repo.Delete(ctx, "root"), ErrHelpSectionNotFound)
}

func TestHelpRepositoryUpdateAndFind(t *testing.T) {
	repo := NewHelpRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.HelpSection{ID: "s1", Title: "Draft"}))
	require.NoError(t, repo.Update(ctx, models.HelpSection{ID: "s1", Title: "Published", Content: "<p>hi</p>"}))
	assert.ErrorIs(t, repo.Update(ctx, models.HelpSection{ID: "missing"}), ErrHelpSectionNotFound)

	found, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Published", found.Title)
	assert.Equal(t, "<p>hi</p>", found.Content)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrHelpSectionNotFound)
}
