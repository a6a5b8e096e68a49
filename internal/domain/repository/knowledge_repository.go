package repository

import (
	"context"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

// KnowledgeSnapshot bilimlar bazasi fayllarining xom holati.
// nil maydon fayl yo'qligini bildiradi.
type KnowledgeSnapshot struct {
	Items     []entity.MenuItem
	Sections  []entity.MenuSection
	Templates map[string][]string
	Text      string
}

// KnowledgeStore bilimlar bazasi fayllari uchun interface
type KnowledgeStore interface {
	// Load barcha fayllarni o'qish. Shablonlar fayli majburiy.
	Load(ctx context.Context) (*KnowledgeSnapshot, error)

	// Save nil bo'lmagan qismlarni yozish. Shablonlar faqat fayl yo'q bo'lsa yoziladi.
	Save(ctx context.Context, snapshot KnowledgeSnapshot) error
}
