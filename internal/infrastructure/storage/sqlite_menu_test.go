package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

func TestSQLiteMenu_ReplaceAllKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteMenuRepository(filepath.Join(t.TempDir(), "data", "menu.db"))
	require.NoError(t, err)
	defer repo.Close()

	items := []entity.MenuItem{
		{Name: "Ginger Shot", Price: 1.5, Category: "Shots", Ingredients: entity.Ingredients{"jengibre", "limón"}, Available: true},
		{Name: "Citrus", Price: 6.5, Category: "Jugos Cold Pressed", Ingredients: entity.Ingredients{"piña", "naranja"}, Description: "Refrescante", Available: true},
		{Name: "Brownie", Price: 3, Category: "Prana Cakes", Available: false},
	}
	require.NoError(t, repo.ReplaceAll(ctx, items))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Ginger Shot", got[0].Name)
	assert.Equal(t, entity.Ingredients{"jengibre", "limón"}, got[0].Ingredients)
	assert.Equal(t, "Refrescante", got[1].Description)
	assert.False(t, got[2].Available)
	assert.Empty(t, got[2].Ingredients)

	require.NoError(t, repo.ReplaceAll(ctx, items[:1]))
	got, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteMenu_EmptyPath(t *testing.T) {
	_, err := NewSQLiteMenuRepository("")
	assert.Error(t, err)
}
