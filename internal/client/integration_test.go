package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/ornate/internal/api"
	"github.com/erazemk/ornate/internal/blob"
	"github.com/erazemk/ornate/internal/db"
	"github.com/erazemk/ornate/internal/model"
)

func TestAgainstCollectionService(t *testing.T) {
	images, err := blob.NewDir(t.TempDir(), "http://images.test/images")
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewRouter(db.NewTestDB(t), images))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, srv.Client())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	it := sampleItem()
	it.ID = ""
	created, err := c.Create(ctx, it)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, it.Name, created.Name)
	assert.Equal(t, it.OutfitTypes, created.OutfitTypes)

	ring := sampleItem()
	ring.Name = "Silver Band"
	ring.Category = model.Ring
	ring.OutfitTypes = []model.OutfitType{model.Casual}
	ring.Description = ""
	_, err = c.Create(ctx, ring)
	require.NoError(t, err)

	hoops := sampleItem()
	hoops.Name = "Gold Hoop Earrings"
	hoops.Category = model.Earrings
	hoops.OutfitTypes = []model.OutfitType{model.Casual, model.Everyday}
	hoops.Description = ""
	_, err = c.Create(ctx, hoops)
	require.NoError(t, err)

	all, err := c.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, created.ID, all[0].ID)

	found, err := c.Search(ctx, model.SearchFilters{Category: model.Ring})
	require.NoError(t, err)
	require.Len(t, found, 1, "earrings must not match the ring category")
	assert.Equal(t, "Silver Band", found[0].Name)

	found, err = c.Search(ctx, model.SearchFilters{Category: model.Earrings})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Gold Hoop Earrings", found[0].Name)

	found, err = c.Search(ctx, model.SearchFilters{OutfitType: model.Wedding, SearchQuery: "bridal"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	created.Color = "Rose Gold"
	updated, err := c.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Rose Gold", updated.Color)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	_, err = c.Update(ctx, "no-such-id", created)
	assert.ErrorIs(t, err, model.ErrNotFound)

	bad := sampleItem()
	bad.ImageURL = "not-a-url"
	_, err = c.Create(ctx, bad)
	assert.ErrorIs(t, err, model.ErrValidationRejected)

	url, err := c.UploadImage(ctx, "ring.png", pngBytes(t))
	require.NoError(t, err)
	assert.Contains(t, url, "http://images.test/images/")
}
