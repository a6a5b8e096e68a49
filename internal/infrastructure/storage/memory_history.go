package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// DefaultHistorySize har bir foydalanuvchi uchun saqlanadigan xabarlar soni
const DefaultHistorySize = 50

type memoryHistoryRepository struct {
	mu       sync.RWMutex
	contexts map[string]*entity.ChatContext
	maxSize  int
	now      func() time.Time
}

// NewMemoryHistoryRepository in-memory suhbat tarixi yaratish.
// maxSize <= 0 bo'lsa DefaultHistorySize ishlatiladi.
func NewMemoryHistoryRepository(maxSize int) repository.HistoryRepository {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &memoryHistoryRepository{
		contexts: make(map[string]*entity.ChatContext),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

// Append xabarni saqlash
func (m *memoryHistoryRepository) Append(ctx context.Context, turn entity.ConversationTurn) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chatCtx, exists := m.contexts[turn.UserID]
	if !exists {
		chatCtx = &entity.ChatContext{UserID: turn.UserID}
		m.contexts[turn.UserID] = chatCtx
	}

	chatCtx.Turns = append(chatCtx.Turns, turn)
	chatCtx.Total++
	chatCtx.LastUsed = m.now()

	// Maksimal hajmni nazorat qilish
	if len(chatCtx.Turns) > m.maxSize {
		trimmed := make([]entity.ConversationTurn, m.maxSize)
		copy(trimmed, chatCtx.Turns[len(chatCtx.Turns)-m.maxSize:])
		chatCtx.Turns = trimmed
	}

	return chatCtx.Total, nil
}

// Recent oxirgi xabarlarni olish
func (m *memoryHistoryRepository) Recent(ctx context.Context, userID string, limit int) ([]entity.ConversationTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatCtx, exists := m.contexts[userID]
	if !exists {
		return []entity.ConversationTurn{}, nil
	}

	turns := chatCtx.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]entity.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// Context foydalanuvchi kontekstining nusxasi
func (m *memoryHistoryRepository) Context(ctx context.Context, userID string) (*entity.ChatContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatCtx, exists := m.contexts[userID]
	if !exists {
		return nil, fmt.Errorf("context for user %s: %w", userID, repository.ErrNotFound)
	}

	cp := *chatCtx
	cp.Turns = make([]entity.ConversationTurn, len(chatCtx.Turns))
	copy(cp.Turns, chatCtx.Turns)
	return &cp, nil
}

// Clear foydalanuvchi tarixini tozalash
func (m *memoryHistoryRepository) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, userID)
	return nil
}

// ClearAll barcha tarixlarni tozalash
func (m *memoryHistoryRepository) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contexts = make(map[string]*entity.ChatContext)
	return nil
}

// Prune uzoq vaqt yozmagan foydalanuvchilarni o'chirish
func (m *memoryHistoryRepository) Prune(ctx context.Context, idle time.Duration) (int, error) {
	if idle <= 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	removed := 0
	for userID, chatCtx := range m.contexts {
		if chatCtx.LastUsed.Before(cutoff) {
			delete(m.contexts, userID)
			removed++
		}
	}
	return removed, nil
}
