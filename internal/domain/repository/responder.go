package repository

import (
	"context"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

// Responder generativ javob beruvchi (LLM) uchun interface
type Responder interface {
	// Name provayder nomi (loglar uchun)
	Name() string

	// Probe servis va model mavjudligini tekshirish
	Probe(ctx context.Context) error

	// Generate kontekst va xabar bo'yicha javob yaratish
	Generate(ctx context.Context, req entity.GenerationRequest) (string, error)
}
