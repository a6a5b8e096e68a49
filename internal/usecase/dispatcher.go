package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// FollowUp deyarli har bir javob oxiriga qo'shiladigan savol
const FollowUp = "\n\n¿Hay algo más en lo que pueda ayudarte?"

// ErrorReply transport darajasidagi xatolik javobi
const ErrorReply = "Lo siento, hubo un error. Por favor intenta de nuevo."

// contextTurns generativ kontekstga kiradigan oxirgi xabarlar soni
const contextTurns = 3

// Dispatcher xabarlarni qayta ishlash uchun business logic
type Dispatcher interface {
	// Process xabarga javob qaytaradi. Hech qachon bo'sh satr qaytarmaydi.
	Process(ctx context.Context, userID, message string) string

	// History foydalanuvchi tarixini olish
	History(ctx context.Context, userID string) ([]entity.ConversationTurn, error)

	// ClearHistory foydalanuvchi tarixini tozalash
	ClearHistory(ctx context.Context, userID string) error

	// GenerativeAvailable generativ javob beruvchi ulanganmi
	GenerativeAvailable() bool
}

type dispatcher struct {
	kb         *entity.KnowledgeBase
	history    repository.HistoryRepository
	generative *GenerativeResponder
	handlers   map[handlerTag]func() string
	logger     *zap.Logger
	now        func() time.Time
}

// DispatcherOption qo'shimcha sozlamalar
type DispatcherOption func(*dispatcher)

// WithGenerative generativ javob beruvchini ulash
func WithGenerative(g *GenerativeResponder) DispatcherOption {
	return func(d *dispatcher) {
		d.generative = g
	}
}

// NewDispatcher yangi Dispatcher yaratish
func NewDispatcher(kb *entity.KnowledgeBase, history repository.HistoryRepository, logger *zap.Logger, opts ...DispatcherOption) (Dispatcher, error) {
	if kb == nil {
		return nil, errors.New("knowledge base is nil")
	}
	if len(kb.Template(entity.TemplateWelcome)) == 0 {
		return nil, ErrMissingWelcome
	}
	if history == nil {
		return nil, errors.New("history repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &dispatcher{
		kb:      kb,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = d.buildHandlers()
	return d, nil
}

// Process foydalanuvchi xabarini qayta ishlash
func (d *dispatcher) Process(ctx context.Context, userID, message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	first := d.record(ctx, userID, msg)
	tokens := tokenize(msg)
	tag, matched := matchRule(msg)

	if d.GenerativeAvailable() {
		if !matched {
			if reply, ok := d.shortcut(tokens, first); ok {
				return reply
			}
		}
		if reply, ok := d.generate(ctx, userID, msg); ok {
			return reply + FollowUp
		}
	}

	return d.reply(msg, tokens, tag, matched, first)
}

// reply qoidalar asosidagi javob
func (d *dispatcher) reply(msg string, tokens []string, tag handlerTag, matched, first bool) string {
	if matched {
		d.logger.Debug("rule matched", zap.Stringer("handler", tag))
		return d.handlers[tag]() + FollowUp
	}

	if reply, ok := d.shortcut(tokens, first); ok {
		return reply
	}

	if isMenuRequest(msg) {
		return d.menuCategories() + FollowUp
	}
	if reply, ok := d.categoryItems(msg); ok {
		return reply + FollowUp
	}
	if reply, ok := d.searchItems(msg, tokens); ok {
		return reply + FollowUp
	}
	if reply, ok := d.itemDetails(msg); ok {
		return reply + FollowUp
	}
	return helpMessage + FollowUp
}

// shortcut birinchi xabar, tasdiq, xayrlashuv va salomlashuv javoblari
func (d *dispatcher) shortcut(tokens []string, first bool) (string, bool) {
	switch {
	case first:
		return d.welcome(), true
	case isPositive(tokens):
		return positiveReply, true
	case isGoodbye(tokens):
		return goodbyeMessage, true
	case isGreeting(tokens):
		return d.welcome(), true
	}
	return "", false
}

// record xabarni tarixga yozish. Birinchi xabar bo'lsa true qaytaradi.
func (d *dispatcher) record(ctx context.Context, userID, msg string) bool {
	total, err := d.history.Append(ctx, entity.ConversationTurn{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   msg,
		Timestamp: d.now(),
	})
	if err != nil {
		d.logger.Warn("history append failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return total == 1
}

// generate generativ javob olish, xatoda ok=false
func (d *dispatcher) generate(ctx context.Context, userID, msg string) (string, bool) {
	recent, err := d.history.Recent(ctx, userID, contextTurns)
	if err != nil {
		d.logger.Warn("history read failed", zap.String("user_id", userID), zap.Error(err))
	}

	return d.generative.Reply(ctx, entity.GenerationRequest{
		UserID:  userID,
		Context: BuildGenerationContext(d.kb, recent),
		Message: msg,
	})
}

// History foydalanuvchi tarixini olish
func (d *dispatcher) History(ctx context.Context, userID string) ([]entity.ConversationTurn, error) {
	return d.history.Recent(ctx, userID, 0)
}

// ClearHistory foydalanuvchi tarixini tozalash
func (d *dispatcher) ClearHistory(ctx context.Context, userID string) error {
	return d.history.Clear(ctx, userID)
}

// GenerativeAvailable generativ javob beruvchi mavjudmi
func (d *dispatcher) GenerativeAvailable() bool {
	return d.generative != nil && d.generative.Available()
}
