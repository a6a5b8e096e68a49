package repository

import (
	"context"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

// MenuRepository menu katalogini saqlash uchun interface
type MenuRepository interface {
	// ReplaceAll butun menyuni almashtirish
	ReplaceAll(ctx context.Context, items []entity.MenuItem) error

	// GetAll barcha mahsulotlar (saqlangan tartibda)
	GetAll(ctx context.Context) ([]entity.MenuItem, error)

	Close() error
}

// MenuParser menu jadvallarini parse qilish uchun interface
type MenuParser interface {
	// ParseFile fayldan o'qish
	ParseFile(ctx context.Context, path string) ([]entity.MenuItem, error)

	// ParseBytes byte array dan parse qilish
	ParseBytes(ctx context.Context, data []byte, filename string) ([]entity.MenuItem, error)
}
