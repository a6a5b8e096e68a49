package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

func item(name string, price float64, category string, ingredients ...string) entity.MenuItem {
	return entity.MenuItem{
		Name:        name,
		Price:       price,
		Category:    category,
		Ingredients: ingredients,
		Available:   true,
	}
}

func testItems() []entity.MenuItem {
	items := []entity.MenuItem{
		item("Citrus", 6.5, "Jugos Cold Pressed", "piña", "naranja", "toronja", "hierbabuena"),
		item("Green Day", 8, "jugos cold pressed", "celery", "pepino", "lechuga", "cilantro", "limón", "jengibre"),
		item("Immunity", 7, "jugos cold pressed", "naranja", "parchita", "limón", "jengibre", "cayena"),
		item("Ginger Shot", 1.5, "Shots", "jengibre", "limón"),
		item("Flu Shot", 1.5, "shots", "jengibre", "cúrcuma", "pimienta"),
		item("Milky Way", 8, "milks", "almendras", "dátiles", "cacao"),
		item("Cheesecake de Mora", 5.5, "postres", "mora", "queso crema"),
	}
	for i := 1; i <= 17; i++ {
		items = append(items, item(fmt.Sprintf("Plato Mañanero %02d", i), 3+float64(i)/2, "desayunos", "huevo"))
	}
	for i := 1; i <= 7; i++ {
		items = append(items, item(fmt.Sprintf("Smoothie Rojo %d", i), 6, "extras", "fresa"))
	}
	return items
}

func testKnowledgeBase() *entity.KnowledgeBase {
	templates := map[string][]string{
		entity.TemplateWelcome: {
			"¡Hola! Bienvenido a Prana Juice Bar 🥤",
			"¿En qué puedo ayudarte hoy?",
			"Puedo mostrarte nuestro menú.",
		},
		entity.TemplateWebsite: {"🌐 Ordena online en nuestra web"},
	}
	kb, err := BuildKnowledgeBase(testItems(), nil, templates, "")
	if err != nil {
		panic(err)
	}
	return kb
}

const testWelcome = "¡Hola! Bienvenido a Prana Juice Bar 🥤\n¿En qué puedo ayudarte hoy?\n\n🌐 Ordena online en nuestra web"

// fakeResponder Responder ning test uchun varianti
type fakeResponder struct {
	mu       sync.Mutex
	probeErr error
	generate func(ctx context.Context, req entity.GenerationRequest) (string, error)
	requests []entity.GenerationRequest
}

func (f *fakeResponder) Name() string { return "fake" }

func (f *fakeResponder) Probe(ctx context.Context) error { return f.probeErr }

func (f *fakeResponder) Generate(ctx context.Context, req entity.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.generate(ctx, req)
}

func (f *fakeResponder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
