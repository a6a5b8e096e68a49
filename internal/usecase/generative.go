package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

const (
	// ProbeTimeout ishga tushishda mavjudlikni tekshirish muddati
	ProbeTimeout = 5 * time.Second
	// DefaultGenerateTimeout bitta generativ so'rov uchun muddat
	DefaultGenerateTimeout = 30 * time.Second

	minReplyLength = 10
	maxReplyLength = 1000
)

var speakerPrefix = regexp.MustCompile(`(?i)^(asistente|bot|assistant|ai|sistema):\s*`)

// GenerativeResponder Responder ustidagi adapter: bir martalik tekshiruv, timeout va tozalash
type GenerativeResponder struct {
	responder repository.Responder
	available bool
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGenerativeResponder responderni bir marta tekshiradi. Natija jarayon davomida o'zgarmaydi.
func NewGenerativeResponder(ctx context.Context, responder repository.Responder, timeout time.Duration, logger *zap.Logger) *GenerativeResponder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}

	g := &GenerativeResponder{
		responder: responder,
		timeout:   timeout,
		logger:    logger,
	}
	if responder == nil {
		return g
	}

	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	if err := responder.Probe(probeCtx); err != nil {
		logger.Warn("generative responder unavailable, using rules only",
			zap.String("provider", responder.Name()), zap.Error(err))
		return g
	}

	g.available = true
	logger.Info("generative responder available", zap.String("provider", responder.Name()))
	return g
}

// Available tekshiruv muvaffaqiyatli bo'lganmi
func (g *GenerativeResponder) Available() bool {
	return g != nil && g.available
}

// Reply generativ javob. Xato, timeout yoki yaroqsiz javobda ok=false.
func (g *GenerativeResponder) Reply(ctx context.Context, req entity.GenerationRequest) (string, bool) {
	if !g.Available() {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.responder.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("generative reply failed",
			zap.String("provider", g.responder.Name()),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return "", false
	}

	reply, ok := CleanReply(raw)
	if !ok {
		g.logger.Warn("generative reply rejected",
			zap.String("provider", g.responder.Name()),
			zap.Int("length", len(raw)))
		return "", false
	}
	return reply, true
}

// CleanReply javobni tekshirish va tozalash
func CleanReply(raw string) (string, bool) {
	reply := strings.TrimSpace(raw)
	if len([]rune(reply)) < minReplyLength {
		return "", false
	}

	reply = speakerPrefix.ReplaceAllString(reply, "")

	if runes := []rune(reply); len(runes) > maxReplyLength {
		reply = string(runes[:maxReplyLength]) + "..."
	}
	return strings.TrimSpace(reply), true
}

// BuildGenerationContext bilimlar bazasi, menyu tuzilmasi va oxirgi xabarlardan kontekst
func BuildGenerationContext(kb *entity.KnowledgeBase, recent []entity.ConversationTurn) string {
	parts := []string{"CONOCIMIENTO DEL NEGOCIO:", kb.Text, "\nESTRUCTURA DEL MENÚ:"}
	for _, section := range kb.Sections {
		parts = append(parts, fmt.Sprintf("- %s: %s", section.Category, strings.Join(section.Items, ", ")))
	}

	if len(recent) > contextTurns {
		recent = recent[len(recent)-contextTurns:]
	}
	if len(recent) > 0 {
		parts = append(parts, "\nHISTORIAL RECIENTE:")
		for _, turn := range recent {
			parts = append(parts, "Usuario: "+turn.Message)
		}
	}
	return strings.Join(parts, "\n")
}
