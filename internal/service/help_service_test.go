package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

var helpAdmin = models.Identity{ID: "root", Role: models.RoleAdmin}

func newHelpServiceForTest() *HelpService {
	svc := NewHelpService(repository.NewHelpRepository(), nil, nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
	return svc
}

func TestHelpServiceChildrenSortedByOrder(t *testing.T) {
	svc := newHelpServiceForTest()
	ctx := context.Background()

	root, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Getting started"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Reports", ParentID: &root.ID, Order: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Wizard", ParentID: &root.ID, Order: 1})
	require.NoError(t, err)

	children, err := svc.Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Wizard", children[0].Title)
	assert.Equal(t, "Reports", children[1].Title)

	top, err := svc.Children(ctx, "")
	require.NoError(t, err)
	assert.Len(t, top, 1)

	_, err = svc.Children(ctx, "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestHelpServiceTree(t *testing.T) {
	svc := newHelpServiceForTest()
	ctx := context.Background()
	root, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Root"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Child", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Leaf", ParentID: &child.ID, Content: "<p>raw <b>markup</b></p>"})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "<p>raw <b>markup</b></p>", tree[0].Children[0].Children[0].Content)
}

func TestHelpServiceWritesRequireAdmin(t *testing.T) {
	svc := newHelpServiceForTest()
	manager := models.Identity{ID: "m", Role: models.RoleManager}

	_, err := svc.Create(context.Background(), manager, models.CreateHelpSectionRequest{Title: "Nope"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	err = svc.Delete(context.Background(), manager, "h1")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestHelpServiceUpdateRejectsCycles(t *testing.T) {
	svc := newHelpServiceForTest()
	ctx := context.Background()
	root, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Root"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Child", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, helpAdmin, root.ID, models.UpdateHelpSectionRequest{ParentID: &child.ID})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	empty := ""
	title := "Standalone"
	updated, err := svc.Update(ctx, helpAdmin, child.ID, models.UpdateHelpSectionRequest{ParentID: &empty, Title: &title})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
	assert.Equal(t, "Standalone", updated.Title)
}

func TestHelpServiceDeleteCascades(t *testing.T) {
	svc := newHelpServiceForTest()
	ctx := context.Background()
	root, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Root"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, helpAdmin, models.CreateHelpSectionRequest{Title: "Child", ParentID: &root.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, helpAdmin, root.ID))
	_, err = svc.Get(ctx, child.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	err = svc.Delete(ctx, helpAdmin, root.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestHelpServiceCreateValidates(t *testing.T) {
	svc := newHelpServiceForTest()
	_, err := svc.Create(context.Background(), helpAdmin, models.CreateHelpSectionRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	missing := "ghost"
	_, err = svc.Create(context.Background(), helpAdmin, models.CreateHelpSectionRequest{Title: "Orphan", ParentID: &missing})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
