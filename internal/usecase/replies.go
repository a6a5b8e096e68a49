package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
)

const (
	categoryDisplayCap = 10
	searchDisplayCap   = 5
)

const goodbyeMessage = "¡Gracias por visitar Prana Juice Bar! 🌿\n\n¡Esperamos verte pronto! ¡Que tengas un día saludable! 🥤"

const positiveReply = "¡Perfecto! ¿En qué puedo ayudarte? Puedes preguntarme por nuestro menú, horarios, precios, o cualquier cosa que necesites."

const helpMessage = "🤔 *¿EN QUÉ PUEDO AYUDARTE?*\n\n" +
	"• Escribe 'menu' para ver categorías\n" +
	"• Pregunta por items específicos\n" +
	"• 'Que shots tienen?' - Ver shots\n" +
	"• 'Bueno para frío' - Bebidas refrescantes\n" +
	"• 'Horarios' - Horarios de atención\n" +
	"• 'Precios' - Información de precios\n\n" +
	"¿Qué te gustaría saber?"

// titleCase har bir so'zni bosh harf bilan. Caser goroutinelar orasida bo'lishilmaydi.
func titleCase(s string) string {
	return cases.Title(language.Spanish).String(s)
}

// buildHandlers qoida teglarini javob funksiyalariga bog'lash
func (d *dispatcher) buildHandlers() map[handlerTag]func() string {
	return map[handlerTag]func() string{
		tagShots:                d.shots,
		tagJuices:               func() string { return d.categoryList("🥤 *NUESTROS JUGOS:*", "jugos cold pressed") },
		tagSmoothies:            func() string { return d.categoryList("🥛 *NUESTROS BATIDOS:*", "milks") },
		tagBreakfast:            func() string { return d.categoryList("🌅 *NUESTROS DESAYUNOS:*", "desayuno") },
		tagLunch:                func() string { return d.categoryList("🍽️ *NUESTROS ALMUERZOS:*", "almuerzo") },
		tagDesserts:             func() string { return d.categoryList("🍰 *NUESTROS POSTRES:*", "postre") },
		tagColdDrinks:           func() string { return d.curatedList("🥤 *BEBIDAS REFRESCANTES:*", coldDrinks) },
		tagEnergyDrinks:         func() string { return d.curatedList("⚡ *BEBIDAS ENERGIZANTES:*", energyDrinks) },
		tagDetoxDrinks:          func() string { return d.curatedList("🌿 *BEBIDAS DETOX:*", detoxDrinks) },
		tagPrices:               func() string { return pricesMessage },
		tagHours:                func() string { return d.template(entity.TemplateHours) },
		tagLocationCastellana:   func() string { return d.specificLocation("castellana") },
		tagLocationPalosGrandes: func() string { return d.specificLocation("palos_grandes") },
		tagLocations:            func() string { return d.template(entity.TemplateLocation) },
		tagFullMenu:             func() string { return "📋 *MENÚ COMPLETO PRANA JUICE BAR*\n\n" + d.kb.Text },
		tagIngredients:          func() string { return ingredientsMessage },
		tagRecommendations:      recommendations,
		tagVolume:               func() string { return volumeMessage },
		tagWeight:               func() string { return weightMessage },
		tagSugarWater:           func() string { return sugarWaterMessage },
		tagGluten:               func() string { return glutenMessage },
		tagWebsite:              func() string { return d.template(entity.TemplateWebsite) },
		tagDrinkCategories:      drinkCategories,
		tagDrinkSuggestions:     func() string { return drinkSuggestionsMessage },
		tagHealth:               func() string { return healthMessage },
	}
}

func (d *dispatcher) template(name string) string {
	return strings.Join(d.kb.Template(name), "\n")
}

// welcome salomlashuv va sayt ma'lumoti
func (d *dispatcher) welcome() string {
	lines := d.kb.Template(entity.TemplateWelcome)
	if len(lines) > 2 {
		lines = lines[:2]
	}
	text := strings.Join(lines, "\n")
	if website := d.template(entity.TemplateWebsite); website != "" {
		text += "\n\n" + website
	}
	return text
}

// itemsWhere kategoriyasi fragmentni o'z ichiga olgan mahsulotlar
func (d *dispatcher) itemsWhere(fragment string) []entity.MenuItem {
	var out []entity.MenuItem
	for _, item := range d.kb.Items {
		if strings.Contains(strings.ToLower(item.Category), fragment) {
			out = append(out, item)
		}
	}
	return out
}

func (d *dispatcher) shots() string {
	var sb strings.Builder
	sb.WriteString("💉 *NUESTROS SHOTS:*\n\n")
	for _, item := range d.itemsWhere("shot") {
		sb.WriteString(fmt.Sprintf("✅ %s - %s\n", item.Name, formatPrice(item.Price)))
		if len(item.Ingredients) > 0 {
			sb.WriteString(fmt.Sprintf("   🥗 %s\n", item.IngredientsText()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *dispatcher) categoryList(header, fragment string) string {
	items := d.itemsWhere(fragment)
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	if len(items) == 0 {
		sb.WriteString("Por ahora no tenemos items disponibles en esta categoría.\n")
		return sb.String()
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("✅ %s - %s\n", item.Name, formatPrice(item.Price)))
	}
	return sb.String()
}

var (
	coldDrinks   = []string{"citrus", "cool melon", "pina blizz", "n4", "green day", "ez-green", "red roots", "dalai lama", "jugo de zanahoria", "jugo celery"}
	energyDrinks = []string{"flu shot", "ginger shot", "power maca", "orange baby", "pina blizz", "green day", "red roots", "dalai lama"}
	detoxDrinks  = []string{"n4", "green day", "ez-green", "red roots", "jugo de zanahoria", "jugo celery"}
)

// curatedList tanlangan nomlar bo'yicha birinchi mos mahsulotlar
func (d *dispatcher) curatedList(header string, names []string) string {
	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	for _, name := range names {
		for _, item := range d.kb.Items {
			if strings.Contains(strings.ToLower(item.Name), name) {
				sb.WriteString(fmt.Sprintf("✅ %s - %s\n", item.Name, formatPrice(item.Price)))
				break
			}
		}
	}
	return sb.String()
}

func (d *dispatcher) specificLocation(key string) string {
	for _, loc := range Locations() {
		if loc.Key == key {
			return fmt.Sprintf("📍 *%s*\n\n🏪 %s\n🕐 Horarios: %s\n📱 %s\n\n💡 Haz clic en el enlace para obtener direcciones GPS",
				loc.Name, loc.Address, loc.Hours, loc.GPS)
		}
	}
	return d.template(entity.TemplateLocation)
}

// menuCategories raqamlangan kategoriyalar ro'yxati
func (d *dispatcher) menuCategories() string {
	var sb strings.Builder
	sb.WriteString("🥤 *NUESTRAS CATEGORÍAS:*\n\n")
	for i, c := range entity.Categories() {
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, c.Emoji, titleCase(c.Name)))
	}
	sb.WriteString("\n¿Qué categoría te interesa? Puedes escribir el nombre o número.")
	return sb.String()
}

// matchCategory nom, kalit so'z, keyin raqam bo'yicha kategoriyani aniqlash
func matchCategory(msg string) (string, bool) {
	categories := entity.Categories()
	for _, c := range categories {
		if strings.Contains(msg, c.Name) {
			return c.Name, true
		}
		for _, kw := range c.Keywords {
			if strings.Contains(msg, kw) {
				return c.Name, true
			}
		}
	}

	if m := digitPattern.FindStringSubmatch(msg); m != nil {
		idx := int(m[1][0]-'0') - 1
		if idx < len(categories) {
			return categories[idx].Name, true
		}
	}
	return "", false
}

func (d *dispatcher) categoryItems(msg string) (string, bool) {
	category, ok := matchCategory(msg)
	if !ok {
		return "", false
	}
	return d.itemsByCategory(category), true
}

// itemsByCategory kategoriya mahsulotlari, ko'pi bilan categoryDisplayCap ta
func (d *dispatcher) itemsByCategory(category string) string {
	var items []entity.MenuItem
	for _, item := range d.kb.Items {
		if item.InCategory(category) {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return fmt.Sprintf("No encontré items en la categoría '%s'. ¿Podrías ser más específico?", category)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🍽️ *%s*\n\n", strings.ToUpper(category)))
	for _, item := range items[:min(len(items), categoryDisplayCap)] {
		sb.WriteString(fmt.Sprintf("✅ %s - %s\n", item.Name, formatPrice(item.Price)))
	}
	if len(items) > categoryDisplayCap {
		sb.WriteString(fmt.Sprintf("\n... y %d más. ¿Te interesa algún item específico?", len(items)-categoryDisplayCap))
	}
	return sb.String()
}

// searchItems xabarda to'liq nom, yoki nom/ingredientlarda token qidirish
func (d *dispatcher) searchItems(msg string, tokens []string) (string, bool) {
	var found []entity.MenuItem
	for _, item := range d.kb.Items {
		name := strings.ToLower(item.Name)
		ingredients := strings.ToLower(item.IngredientsText())
		if name != "" && strings.Contains(msg, name) {
			found = append(found, item)
			continue
		}
		for _, t := range tokens {
			if strings.Contains(name, t) || strings.Contains(ingredients, t) {
				found = append(found, item)
				break
			}
		}
	}

	if len(found) == 0 {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("🔍 *ITEMS ENCONTRADOS:*\n\n")
	for _, item := range found[:min(len(found), searchDisplayCap)] {
		sb.WriteString(fmt.Sprintf("✅ %s - %s (%s)\n", item.Name, formatPrice(item.Price), item.Category))
	}
	if len(found) > searchDisplayCap {
		sb.WriteString(fmt.Sprintf("\n... y %d más. ¿Cuál te interesa?", len(found)-searchDisplayCap))
	}
	return sb.String(), true
}

// itemDetails to'liq nomi xabarda uchragan birinchi mahsulot
func (d *dispatcher) itemDetails(msg string) (string, bool) {
	for _, item := range d.kb.Items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name != "" && strings.Contains(msg, name) {
			return formatItemDetails(item), true
		}
	}
	return "", false
}

func formatItemDetails(item entity.MenuItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🍽️ *%s*\n\n", strings.ToUpper(item.Name)))
	sb.WriteString(fmt.Sprintf("💰 *Precio:* %s\n", formatPrice(item.Price)))
	sb.WriteString(fmt.Sprintf("📂 *Categoría:* %s\n", item.Category))
	sb.WriteString(fmt.Sprintf("🥗 *Ingredientes:* %s\n", item.IngredientsText()))
	if item.Description != "" {
		sb.WriteString(fmt.Sprintf("📝 *Descripción:* %s\n", item.Description))
	}
	return sb.String()
}

func recommendations() string {
	picks := []string{
		"🥤 *CITRUS* - Perfecto para refrescarse",
		"💉 *GINGER SHOT* - Energía natural",
		"🌿 *GREEN DAY* - Detox completo",
		"🍰 *CHEESECAKE DE MORA* - Postre favorito",
		"🌅 *BOWL DE CHIA* - Desayuno saludable",
	}
	var sb strings.Builder
	sb.WriteString("⭐ *NUESTRAS RECOMENDACIONES:*\n\n")
	for _, p := range picks {
		sb.WriteString("✅ " + p + "\n")
	}
	return sb.String()
}

func drinkCategories() string {
	var sb strings.Builder
	sb.WriteString("🥤 *BEBIDAS DISPONIBLES:*\n\n")
	for i, name := range []string{"jugos cold pressed", "shots", "milks"} {
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, entity.CategoryEmoji(name), titleCase(name)))
	}
	sb.WriteString("\n¿Qué tipo de bebida te interesa? Puedes escribir el nombre o número.")
	return sb.String()
}

const pricesMessage = "💰 *RANGOS DE PRECIOS:*\n\n" +
	"🥤 Jugos Cold Pressed: $6.50 - $8.00\n" +
	"💉 Shots: $1.50\n" +
	"🥛 Batidos: $8.00\n" +
	"🌅 Desayunos: $3.00 - $13.00\n" +
	"🍽️ Almuerzos: $7.00 - $10.00\n" +
	"🍰 Postres: $2.00 - $5.50\n\n" +
	"¿Te interesa algún item específico?"

const ingredientsMessage = "🥗 Para ver los ingredientes de un item específico, escribe el nombre del producto."

const volumeMessage = "🥤 *INFORMACIÓN DE TAMAÑOS:*\n\n" +
	"✅ **Jugos Cold Pressed**: Todos son de 500ml\n" +
	"✅ **Milks (Batidos)**: Todos son de 500ml\n" +
	"✅ **Shots**: 30ml cada uno\n" +
	"✅ **Berry Blend**: 500ml\n\n" +
	"Todos nuestros jugos cold pressed son de 500ml para máxima frescura y nutrientes! 🌿"

const weightMessage = "⚖️ *INFORMACIÓN DE PESOS:*\n\n" +
	"🍰 **Postres**: Porciones individuales\n" +
	"🥐 **Bake Goods**: Tamaños individuales\n" +
	"🌅 **Desayunos**: Porciones completas\n" +
	"🍽️ **Almuerzos**: Porciones generosas\n\n" +
	"Para información específica de algún item, escribe su nombre."

const sugarWaterMessage = "🚫 No usamos azúcar refinada añadida en ninguno de nuestros jugos ni recetas. " +
	"Todos nuestros jugos son 100% naturales, sin azúcares añadidos ni agua extra.\n" +
	"🍯 En nuestros postres y productos horneados, solo endulzamos con miel, dátiles o monkfruit."

const glutenMessage = "🌾 *INFORMACIÓN SOBRE GLUTEN:*\n\n" +
	"No somos completamente gluten-free, pero la mayoría de nuestros productos son bajos en gluten. " +
	"Nuestro único producto con trigo es nuestro pan de masa madre con fermentación de 38 horas. " +
	"Si tienes alguna alergia o intolerancia al gluten, por favor, háznoslo saber para ayudarte mejor."

const drinkSuggestionsMessage = "🥤 *BEBIDAS REFRESCANTES:*\n\n" +
	"✅ **CITRUS** - Zumo de piña, naranja, toronja y hierbabuena\n" +
	"✅ **COOL MELON** - Patilla, pepino y hierbabuena\n" +
	"✅ **GREEN DAY** - Celery, pepino, lechuga, cilantro, limón y jengibre\n" +
	"✅ **N4** - Celery, pepino, manzana verde y limón\n" +
	"✅ **GINGER SHOT** - Energía natural de jengibre\n\n" +
	"Todos nuestros jugos son de 500ml y 100% naturales! 🌿"

const healthMessage = "🏥 *RECOMENDACIONES PARA TU SALUD:*\n\n" +
	"💉 **GINGER SHOT** - Antiinflamatorio natural, perfecto para gripe y resfriados\n" +
	"🥤 **IMMUNITY** - Con naranja, parchita, limón, jengibre y cayena para fortalecer el sistema inmune\n" +
	"🌿 **GREEN DAY** - Detox completo con celery, pepino, lechuga, cilantro, limón y jengibre\n" +
	"🥤 **CITRUS** - Vitamina C natural para combatir infecciones\n" +
	"💉 **FLU SHOT** - Específicamente diseñado para síntomas de gripe\n\n" +
	"Todos nuestros shots y jugos son 100% naturales y sin azúcares añadidos. ¡Te ayudarán a sentirte mejor! 🌿"
