package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/knowledge"
	"github.com/yourusername/prana-whatsapp-bot/internal/infrastructure/storage"
)

type stubParser struct {
	items []entity.MenuItem
	err   error
}

func (p stubParser) ParseFile(ctx context.Context, path string) ([]entity.MenuItem, error) {
	return p.items, p.err
}

func (p stubParser) ParseBytes(ctx context.Context, data []byte, filename string) ([]entity.MenuItem, error) {
	return p.items, p.err
}

func TestImport_WritesDatabaseAndFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	menuRepo, err := storage.NewSQLiteMenuRepository(filepath.Join(dir, "menu.db"))
	require.NoError(t, err)
	defer menuRepo.Close()
	store := knowledge.NewFileStore(filepath.Join(dir, "bot_data"))

	parser := stubParser{items: []entity.MenuItem{
		item("Citrus", 6.5, "Jugos Cold Pressed", "piña"),
		item("citrus", 7, "shots"),
		item("Agua de Coco", 3, ""),
		{Name: "Brownie", Price: 3, Category: "PRANA CAKES", Available: false},
	}}
	importer := NewMenuImporter(parser, menuRepo, store, nil)

	result, err := importer.Import(ctx, "menu.xlsx")
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Items: 3, Categories: 3, Unavailable: 1, Duplicates: 1}, result)

	stored, err := menuRepo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "jugos cold pressed", stored[0].Category)
	assert.Equal(t, "otros", stored[1].Category)
	assert.Equal(t, "prana cakes", stored[2].Category)

	kb, err := LoadKnowledgeBase(ctx, store, menuRepo)
	require.NoError(t, err)
	assert.Len(t, kb.Items, 3)
	assert.Contains(t, kb.Text, "❌ Brownie - $3.00")
	assert.NotEmpty(t, kb.Template(entity.TemplateWelcome))
	assert.Equal(t, "jugos cold pressed", kb.Sections[0].Category)
}

func TestImport_ParserErrorAndEmptyMenu(t *testing.T) {
	store := knowledge.NewFileStore(t.TempDir())

	_, err := NewMenuImporter(stubParser{err: errors.New("bad file")}, nil, store, nil).Import(context.Background(), "x.xlsx")
	assert.ErrorContains(t, err, "parse menu: bad file")

	_, err = NewMenuImporter(stubParser{}, nil, store, nil).ImportBytes(context.Background(), nil, "x.xlsx")
	assert.ErrorIs(t, err, ErrNoMenuItems)
}

func TestRenderKnowledge_FromFiles(t *testing.T) {
	ctx := context.Background()
	store := knowledge.NewFileStore(t.TempDir())
	importer := NewMenuImporter(stubParser{items: testItems()}, nil, store, nil)

	_, err := importer.Import(ctx, "menu.xlsx")
	require.NoError(t, err)

	count, err := importer.RenderKnowledge(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(testItems()), count)

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.Text, "CATEGORÍA: SHOTS")
}

func TestLoadKnowledgeBase_NoItems(t *testing.T) {
	store := knowledge.NewFileStore(t.TempDir())
	require.NoError(t, store.Save(context.Background(), repository.KnowledgeSnapshot{Templates: DefaultTemplates()}))

	_, err := LoadKnowledgeBase(context.Background(), store, nil)
	assert.ErrorIs(t, err, ErrNoMenuItems)
}
