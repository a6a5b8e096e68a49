package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

// ErrNotFound yozuv topilmadi
var ErrNotFound = errors.New("not found")

// HistoryRepository suhbat tarixi bilan ishlash uchun interface
type HistoryRepository interface {
	// Append xabarni qo'shish, foydalanuvchining jami xabarlar sonini qaytaradi
	Append(ctx context.Context, turn entity.ConversationTurn) (int, error)

	// Recent oxirgi limit ta xabar (eski->yangi tartibda)
	Recent(ctx context.Context, userID string, limit int) ([]entity.ConversationTurn, error)

	// Context foydalanuvchi kontekstini olish
	Context(ctx context.Context, userID string) (*entity.ChatContext, error)

	// Clear foydalanuvchi tarixini tozalash
	Clear(ctx context.Context, userID string) error

	// ClearAll barcha tarixni o'chirish
	ClearAll(ctx context.Context) error

	// Prune idle dan uzoq faol bo'lmagan foydalanuvchilarni o'chirish
	Prune(ctx context.Context, idle time.Duration) (int, error)
}
