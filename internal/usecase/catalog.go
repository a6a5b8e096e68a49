package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

// ErrMissingWelcome shablonlarda welcome topilmadi
var ErrMissingWelcome = errors.New("response templates must contain a non-empty welcome")

// Locations ikkala do'kon ma'lumotlari
func Locations() []entity.Location {
	return []entity.Location{
		{
			Key:     "castellana",
			Name:    "PRANA LA CASTELLANA",
			Address: "Avenida Mohedano, Caracas 1060, Chacao, Distrito Capital",
			GPS:     "https://maps.google.com/?q=10.4980742,-66.8539189",
			Hours:   "7:00 AM - 11:00 PM",
		},
		{
			Key:     "palos_grandes",
			Name:    "PRANA LOS PALOS GRANDES",
			Address: "Transversal 3 entre 3ra y 4ta, Los Palos Grandes, Caracas, Distrito Capital",
			GPS:     "https://maps.google.com/?q=10.5011756,-66.8435612",
			Hours:   "7:00 AM - 11:00 PM",
		},
	}
}

// DefaultTemplates fayl bo'lmaganda ishlatiladigan javob shablonlari
func DefaultTemplates() map[string][]string {
	location := []string{"📍 *NUESTRAS UBICACIONES:*", ""}
	for _, loc := range Locations() {
		location = append(location,
			fmt.Sprintf("🏪 *%s*", loc.Name),
			fmt.Sprintf("📍 %s", loc.Address),
			fmt.Sprintf("📱 %s", loc.GPS),
			"",
		)
	}
	location = append(location, "💡 Haz clic en el enlace para obtener direcciones GPS")

	return map[string][]string{
		entity.TemplateWelcome: {
			"¡Hola! Bienvenido a Prana Juice Bar 🥤",
			"¿En qué puedo ayudarte hoy?",
			"Puedo mostrarte nuestro menú, ayudarte con tu pedido, o responder cualquier pregunta.",
		},
		entity.TemplateHours: {
			"🕐 *HORARIOS DE ATENCIÓN:*",
			"",
			"Lunes a Domingo: 7:00 AM - 11:00 PM",
			"Ambas sedes (La Castellana y Los Palos Grandes)",
		},
		entity.TemplateLocation: location,
		entity.TemplateWebsite: {
			"🌐 *ORDENA ONLINE:*",
			"Visita nuestro sitio web para ver el menú completo y hacer tu pedido.",
		},
	}
}

// BuildKnowledgeBase yuklangan ma'lumotlardan bilimlar bazasini yig'ish.
// sections nil bo'lsa mahsulotlardan hosil qilinadi, text bo'sh bo'lsa render qilinadi.
func BuildKnowledgeBase(items []entity.MenuItem, sections []entity.MenuSection, templates map[string][]string, text string) (*entity.KnowledgeBase, error) {
	if len(templates[entity.TemplateWelcome]) == 0 {
		return nil, ErrMissingWelcome
	}

	merged := make(map[string][]string, len(templates)+3)
	for name, lines := range DefaultTemplates() {
		if name != entity.TemplateWelcome {
			merged[name] = lines
		}
	}
	for name, lines := range templates {
		if len(lines) > 0 {
			merged[name] = lines
		}
	}

	if sections == nil {
		sections = entity.SectionsFromItems(items)
	}

	if strings.TrimSpace(text) == "" {
		text = RenderKnowledgeText(items)
	}

	return &entity.KnowledgeBase{
		Items:     items,
		Sections:  sections,
		Templates: merged,
		Text:      text,
	}, nil
}

// RenderKnowledgeText menyuni matnli bilimlar bazasiga aylantirish
func RenderKnowledgeText(items []entity.MenuItem) string {
	var order []string
	grouped := make(map[string][]entity.MenuItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Otros"
		}
		if _, ok := grouped[category]; !ok {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], item)
	}

	var sb strings.Builder
	sb.WriteString("PRANA JUICE BAR - MENÚ COMPLETO\n\n")

	for _, category := range order {
		sb.WriteString(fmt.Sprintf("CATEGORÍA: %s\n\n", strings.ToUpper(category)))
		for _, item := range grouped[category] {
			status := "✅"
			if !item.Available {
				status = "❌"
			}
			sb.WriteString(fmt.Sprintf("%s %s - %s\n", status, item.Name, formatPrice(item.Price)))
			if len(item.Ingredients) > 0 {
				sb.WriteString(fmt.Sprintf("Ingredientes: %s\n", item.IngredientsText()))
			}
			if item.Description != "" {
				sb.WriteString(fmt.Sprintf("Descripción: %s\n", item.Description))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(generalInformation)
	return sb.String()
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

const generalInformation = `
INFORMACIÓN GENERAL:

- Todos los jugos cold pressed son de 500ml
- Los precios están en dólares americanos
- Todos los ingredientes son frescos y naturales
- Horarios de atención: Lunes a Domingo 7:00 AM - 11:00 PM
- Ubicaciones: Prana La Castellana y Prana Los Palos Grandes, Caracas
- Para pedidos especiales o consultas, contactar directamente

RESPUESTAS FRECUENTES:

¿Cuánto tiempo duran los jugos?
Los jugos cold pressed se recomiendan consumir el mismo día para máxima frescura y nutrientes.

¿Puedo personalizar mi jugo?
Sí, puedes solicitar modificaciones en los ingredientes según tus preferencias o restricciones alimentarias.

¿Tienen opciones sin azúcar?
Todos nuestros jugos son naturales sin azúcares añadidos. La dulzura proviene de las frutas naturales.

¿Puedo hacer pedidos para eventos?
Sí, ofrecemos servicios de catering para eventos. Contactar con anticipación para pedidos grandes.

¿Tienen opciones veganas?
Sí, todos nuestros jugos y la mayoría de nuestros productos son veganos. Consultar ingredientes específicos si tienes dudas.

¿Cuáles son los beneficios de los jugos cold pressed?
Los jugos cold pressed preservan más nutrientes, enzimas y vitaminas que los jugos tradicionales.

¿Puedo hacer pedidos por adelantado?
Sí, puedes hacer pedidos con anticipación para recoger en el momento que prefieras.

¿Cuál es la diferencia entre cold pressed y jugos normales?
Los jugos cold pressed se extraen sin generar calor, preservando más nutrientes y enzimas.
`
