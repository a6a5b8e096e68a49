package usecase

import (
	"regexp"
	"slices"
	"strings"
)

// handlerTag qoida javobgarining identifikatori
type handlerTag int

const (
	tagShots handlerTag = iota
	tagJuices
	tagSmoothies
	tagBreakfast
	tagLunch
	tagDesserts
	tagColdDrinks
	tagEnergyDrinks
	tagDetoxDrinks
	tagPrices
	tagHours
	tagLocationCastellana
	tagLocationPalosGrandes
	tagLocations
	tagFullMenu
	tagIngredients
	tagRecommendations
	tagVolume
	tagWeight
	tagSugarWater
	tagGluten
	tagWebsite
	tagDrinkCategories
	tagDrinkSuggestions
	tagHealth
)

var tagNames = map[handlerTag]string{
	tagShots:                "shots",
	tagJuices:               "juices",
	tagSmoothies:            "smoothies",
	tagBreakfast:            "breakfast",
	tagLunch:                "lunch",
	tagDesserts:             "desserts",
	tagColdDrinks:           "cold_drinks",
	tagEnergyDrinks:         "energy_drinks",
	tagDetoxDrinks:          "detox_drinks",
	tagPrices:               "prices",
	tagHours:                "hours",
	tagLocationCastellana:   "location_castellana",
	tagLocationPalosGrandes: "location_palos_grandes",
	tagLocations:            "locations",
	tagFullMenu:             "full_menu",
	tagIngredients:          "ingredients",
	tagRecommendations:      "recommendations",
	tagVolume:               "volume",
	tagWeight:               "weight",
	tagSugarWater:           "sugar_water",
	tagGluten:               "gluten",
	tagWebsite:              "website",
	tagDrinkCategories:      "drink_categories",
	tagDrinkSuggestions:     "drink_suggestions",
	tagHealth:               "health",
}

func (t handlerTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

type rule struct {
	pattern *regexp.Regexp
	tag     handlerTag
}

func newRule(pattern string, tag handlerTag) rule {
	return rule{pattern: regexp.MustCompile("(?i)" + pattern), tag: tag}
}

// qaRules tartib muhim: birinchi mos kelgan qoida yutadi
var qaRules = []rule{
	newRule(`que.*shots.*tienen`, tagShots),
	newRule(`que.*jugos.*tienen`, tagJuices),
	newRule(`que.*batidos.*tienen`, tagSmoothies),
	newRule(`que.*desayunos.*tienen`, tagBreakfast),
	newRule(`que.*almuerzos.*tienen`, tagLunch),
	newRule(`que.*postres.*tienen`, tagDesserts),
	newRule(`bueno.*frio|frio.*bueno|refrescante`, tagColdDrinks),
	newRule(`energizante|energia|energetico`, tagEnergyDrinks),
	newRule(`detox|limpiar|desintoxicar`, tagDetoxDrinks),
	newRule(`precio|cuanto.*cuesta|costo`, tagPrices),
	newRule(`(hora|horario|horarios|cierran|abren|cierre|apertura)`, tagHours),
	newRule(`(prana.*castellana|castellana|ubicacion.*castellana|donde.*castellana)`, tagLocationCastellana),
	newRule(`(prana.*palos.*grandes|palos.*grandes|ubicacion.*palos.*grandes|donde.*palos.*grandes)`, tagLocationPalosGrandes),
	newRule(`(castellana|palos.*grandes)`, tagLocationCastellana),
	newRule(`direccion|ubicacion|donde.*estan`, tagLocations),
	newRule(`menu.*completo|todo.*menu`, tagFullMenu),
	newRule(`ingredientes.*(\w+)`, tagIngredients),
	newRule(`recomendacion|recomienda|sugerencia`, tagRecommendations),
	newRule(`(ml|mililitros|tamaño|size|volumen|cuanto.*ml|cuantos.*ml)`, tagVolume),
	newRule(`(cuanto.*pesa|peso.*gramos|peso.*g\b)`, tagWeight),
	newRule(`(azucar|azúcar|añaden azucar|añaden azúcar|tienen azucar|tienen azúcar|agregan azucar|agregan azúcar|azucar añadida|azúcar añadida|azucar refinada|azúcar refinada|agua añadida|agregan agua|tienen agua)`, tagSugarWater),
	newRule(`(gluten|gluten free|sin gluten|celiaco|celíaco|trigo|wheat|pan|bread)`, tagGluten),
	newRule(`(sitio web|website|pagina web|página web|web|online|ordenar online|pedir online|comprar online|menu online|menú online)`, tagWebsite),
	newRule(`(para.*tomar|que.*tiene.*de.*beber|que.*tienen.*de.*beber|bebidas|que.*bebidas|que.*puedo.*tomar)`, tagDrinkCategories),
	newRule(`(sed|tomar|bebida|bebidas|algo.*tomar|quiero.*tomar)`, tagDrinkSuggestions),
	newRule(`(gripe|resfriado|enfermo|enferma|malestar|dolor|dolor de cabeza|dolor de estomago|dolor de estómago|nausea|vomito|vómito)`, tagHealth),
}

// matchRule birinchi mos qoidani topish
func matchRule(message string) (handlerTag, bool) {
	for _, r := range qaRules {
		if r.pattern.MatchString(message) {
			return r.tag, true
		}
	}
	return 0, false
}

var (
	goodbyePhrases = []string{
		"no", "eso es todo", "eso es", "nada más", "nada mas", "gracias", "hasta luego",
		"hasta la vista", "adiós", "adios", "chao", "bye", "goodbye", "that's all",
		"no más", "no mas", "ya está", "ya esta", "listo", "terminado", "mas nada",
	}
	positivePhrases = []string{
		"si", "sí", "yes", "claro", "por supuesto", "ok", "okay", "vale", "bueno",
		"perfecto", "excelente", "genial", "me gustaría", "me gustaria",
	}
	greetingPhrases = []string{
		"hola", "buenos dias", "buenas", "buenas tardes", "buenas noches", "hey", "hi",
		"hello", "que tal", "bueno dias",
	}
	menuPhrases = []string{"menu", "carta", "que tienen", "que ofrecen", "que venden"}

	digitPattern = regexp.MustCompile(`\b([1-9])\b`)
)

// tokenize bo'sh joy bo'yicha bo'lish, chekkadagi tinish belgilarini olib tashlash
func tokenize(message string) []string {
	fields := strings.Fields(message)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, ".,;:!?¡¿\"()")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// hasPhrase ibora tokenlar ketma-ketligi sifatida uchraydimi
func hasPhrase(tokens []string, phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 || len(words) > len(tokens) {
		return false
	}
	for i := 0; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func hasAnyPhrase(tokens []string, phrases []string) bool {
	for _, p := range phrases {
		if hasPhrase(tokens, p) {
			return true
		}
	}
	return false
}

// isGoodbye biror token xayrlashuv to'plamidagi so'zga aynan teng bo'lsa
func isGoodbye(tokens []string) bool {
	for _, t := range tokens {
		if slices.Contains(goodbyePhrases, t) {
			return true
		}
	}
	return false
}

func isPositive(tokens []string) bool { return hasAnyPhrase(tokens, positivePhrases) }
func isGreeting(tokens []string) bool { return hasAnyPhrase(tokens, greetingPhrases) }

func isMenuRequest(message string) bool {
	for _, p := range menuPhrases {
		if strings.Contains(message, p) {
			return true
		}
	}
	return false
}
