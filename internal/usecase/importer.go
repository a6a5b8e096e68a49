package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// ErrNoMenuItems menyu mahsulotlari hech qayerda topilmadi
var ErrNoMenuItems = errors.New("no menu items available")

// fallbackCategory kategoriyasi ko'rsatilmagan mahsulotlar uchun
const fallbackCategory = "otros"

// LoadKnowledgeBase fayllardan (va bor bo'lsa SQLite dan) bilimlar bazasini yuklash.
// menuRepo nil bo'lishi mumkin.
func LoadKnowledgeBase(ctx context.Context, store repository.KnowledgeStore, menuRepo repository.MenuRepository) (*entity.KnowledgeBase, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if menuRepo != nil {
		items, err := menuRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load menu from database: %w", err)
		}
		if len(items) > 0 {
			snap.Items = items
			snap.Sections = nil
		}
	}

	if snap.Items == nil {
		return nil, ErrNoMenuItems
	}

	return BuildKnowledgeBase(snap.Items, snap.Sections, snap.Templates, snap.Text)
}

// ImportResult import natijasi
type ImportResult struct {
	Items       int
	Categories  int
	Unavailable int
	Duplicates  int
}

// MenuImporter menyuni jadvaldan import qilish va bilimlar bazasini qayta yaratish
type MenuImporter interface {
	// Import fayldan import qilish
	Import(ctx context.Context, path string) (*ImportResult, error)

	// ImportBytes yuklangan fayldan import qilish
	ImportBytes(ctx context.Context, data []byte, filename string) (*ImportResult, error)

	// RenderKnowledge saqlangan mahsulotlardan matn va tuzilmani qayta yozish
	RenderKnowledge(ctx context.Context) (int, error)
}

type menuImporter struct {
	parser   repository.MenuParser
	menuRepo repository.MenuRepository
	store    repository.KnowledgeStore
	logger   *zap.Logger
}

// NewMenuImporter yangi MenuImporter yaratish. menuRepo nil bo'lsa faqat fayllar yoziladi.
func NewMenuImporter(
	parser repository.MenuParser,
	menuRepo repository.MenuRepository,
	store repository.KnowledgeStore,
	logger *zap.Logger,
) MenuImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &menuImporter{
		parser:   parser,
		menuRepo: menuRepo,
		store:    store,
		logger:   logger,
	}
}

// Import fayldan import qilish
func (u *menuImporter) Import(ctx context.Context, path string) (*ImportResult, error) {
	items, err := u.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return u.apply(ctx, items)
}

// ImportBytes yuklangan fayldan import qilish
func (u *menuImporter) ImportBytes(ctx context.Context, data []byte, filename string) (*ImportResult, error) {
	items, err := u.parser.ParseBytes(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return u.apply(ctx, items)
}

func (u *menuImporter) apply(ctx context.Context, parsed []entity.MenuItem) (*ImportResult, error) {
	items, duplicates := normalizeItems(parsed)
	if len(items) == 0 {
		return nil, ErrNoMenuItems
	}

	if u.menuRepo != nil {
		if err := u.menuRepo.ReplaceAll(ctx, items); err != nil {
			return nil, fmt.Errorf("store menu: %w", err)
		}
	}

	sections := entity.SectionsFromItems(items)
	err := u.store.Save(ctx, repository.KnowledgeSnapshot{
		Items:     items,
		Sections:  sections,
		Templates: DefaultTemplates(),
		Text:      RenderKnowledgeText(items),
	})
	if err != nil {
		return nil, fmt.Errorf("save knowledge files: %w", err)
	}

	result := &ImportResult{
		Items:      len(items),
		Categories: len(sections),
		Duplicates: duplicates,
	}
	for _, item := range items {
		if !item.Available {
			result.Unavailable++
		}
	}

	u.logger.Info("menu imported",
		zap.Int("items", result.Items),
		zap.Int("categories", result.Categories),
		zap.Int("unavailable", result.Unavailable),
		zap.Int("duplicates", result.Duplicates))
	return result, nil
}

// RenderKnowledge saqlangan mahsulotlardan matn va tuzilmani qayta yozish
func (u *menuImporter) RenderKnowledge(ctx context.Context) (int, error) {
	var items []entity.MenuItem
	if u.menuRepo != nil {
		stored, err := u.menuRepo.GetAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("load menu from database: %w", err)
		}
		items = stored
	}
	if len(items) == 0 {
		snap, err := u.store.Load(ctx)
		if err != nil {
			return 0, err
		}
		items = snap.Items
	}
	if len(items) == 0 {
		return 0, ErrNoMenuItems
	}

	err := u.store.Save(ctx, repository.KnowledgeSnapshot{
		Sections: entity.SectionsFromItems(items),
		Text:     RenderKnowledgeText(items),
	})
	if err != nil {
		return 0, fmt.Errorf("save knowledge files: %w", err)
	}
	return len(items), nil
}

// normalizeItems kategoriyalarni kanonik nomga keltirish, takroriy nomlarni olib tashlash
func normalizeItems(parsed []entity.MenuItem) ([]entity.MenuItem, int) {
	items := make([]entity.MenuItem, 0, len(parsed))
	duplicates := 0
	for _, item := range parsed {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			continue
		}

		seen := false
		for _, existing := range items {
			if existing.SameName(item.Name) {
				seen = true
				break
			}
		}
		if seen {
			duplicates++
			continue
		}

		item.Category = entity.CanonicalCategory(item.Category)
		if item.Category == "" {
			item.Category = fallbackCategory
		}
		items = append(items, item)
	}
	return items, duplicates
}
