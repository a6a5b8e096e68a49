package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MenuItem menu mahsuloti. Name bo'yicha (katta-kichik harfsiz) aniqlanadi.
type MenuItem struct {
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Category    string      `json:"category"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description"`
	Available   bool        `json:"available"`
}

// IngredientsText ingredientlarni vergul bilan birlashtirish
func (m MenuItem) IngredientsText() string {
	return strings.Join(m.Ingredients, ", ")
}

// SameName nomlar katta-kichik harfsiz tengmi
func (m MenuItem) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name))
}

// InCategory kategoriya nomi bilan solishtirish (katta-kichik harfsiz)
func (m MenuItem) InCategory(category string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Category), strings.TrimSpace(category))
}

// UnmarshalJSON available maydoni berilmasa true deb olinadi
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	aux := plain{Available: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = MenuItem(aux)
	return nil
}

// Ingredients JSON da ro'yxat yoki oddiy satr bo'lib kelishi mumkin
type Ingredients []string

// UnmarshalJSON ro'yxat va satr formatlarini qabul qiladi
func (in *Ingredients) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*in = list
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("ingredients must be a list or a string: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		*in = nil
		return nil
	}
	*in = Ingredients{text}
	return nil
}

// Category menu kategoriyasi: emoji va qidiruv kalit so'zlari
type Category struct {
	Name     string
	Emoji    string
	Keywords []string
}

// DefaultEmoji noma'lum kategoriya uchun
const DefaultEmoji = "🍽️"

// Categories e'lon qilingan tartibda. Tartib raqamli tanlov uchun muhim (1 = birinchi).
func Categories() []Category {
	return []Category{
		{Name: "jugos cold pressed", Emoji: "🥤", Keywords: []string{"jugos", "zumo", "zumo fresco", "cold pressed", "citrus", "immunity", "jugo"}},
		{Name: "shots", Emoji: "💉", Keywords: []string{"shot", "flu shot", "ginger shot", "power maca", "orange baby"}},
		{Name: "desayunos", Emoji: "🌅", Keywords: []string{"desayuno", "breakfast", "bowl de chia", "pancakes", "tostada", "berry blend"}},
		{Name: "almuerzos", Emoji: "🍽️", Keywords: []string{"almuerzo", "lunch", "bowl", "wrap", "panini", "ensalada"}},
		{Name: "bake goods", Emoji: "🥐", Keywords: []string{"bake", "muffin", "bolitas", "energy balls"}},
		{Name: "postres", Emoji: "🍰", Keywords: []string{"postre", "dessert", "trufa", "cheesecake", "cookies"}},
		{Name: "prana cakes", Emoji: "🧁", Keywords: []string{"prana cakes", "brownie", "banana bread", "cookie pie"}},
		{Name: "milks", Emoji: "🥛", Keywords: []string{"milky way", "go nuts", "batido", "milk", "milks", "leche"}},
		{Name: "extras", Emoji: "➕", Keywords: []string{"extra", "adicional", "complemento", "topping", "toppings"}},
	}
}

// CategoryEmoji kategoriya emojisini topish
func CategoryEmoji(name string) string {
	for _, c := range Categories() {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c.Emoji
		}
	}
	return DefaultEmoji
}

// CanonicalCategory kategoriya nomini e'lon qilingan nomga keltirish.
// Topilmasa kichik harfli nomni qaytaradi.
func CanonicalCategory(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories() {
		if c.Name == lower {
			return c.Name
		}
	}
	return lower
}

// MenuSection menu strukturasining bitta bo'limi
type MenuSection struct {
	Category string
	Items    []string
}

// SectionsFromItems mahsulotlarni kategoriya bo'yicha guruhlash
func SectionsFromItems(items []MenuItem) []MenuSection {
	groups := make(map[string][]string)
	for _, item := range items {
		category := CanonicalCategory(item.Category)
		groups[category] = append(groups[category], item.Name)
	}
	return OrderSections(groups)
}

// OrderSections e'lon qilingan kategoriyalar avval, qolganlari alifbo tartibida
func OrderSections(groups map[string][]string) []MenuSection {
	rank := make(map[string]int)
	for i, c := range Categories() {
		rank[c.Name] = i
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iKnown := rank[strings.ToLower(names[i])]
		rj, jKnown := rank[strings.ToLower(names[j])]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return names[i] < names[j]
		}
	})

	sections := make([]MenuSection, 0, len(names))
	for _, name := range names {
		sections = append(sections, MenuSection{Category: name, Items: groups[name]})
	}
	return sections
}

// Location do'kon manzili
type Location struct {
	Key     string
	Name    string
	Address string
	GPS     string
	Hours   string
}

// Template nomlari
const (
	TemplateWelcome  = "welcome"
	TemplateHours    = "hours"
	TemplateLocation = "location"
	TemplateWebsite  = "website"
)

// KnowledgeBase yuklangandan keyin o'zgarmaydigan bilimlar bazasi
type KnowledgeBase struct {
	Items     []MenuItem
	Sections  []MenuSection
	Templates map[string][]string
	Text      string
}

// Template shablon satrlarini olish
func (kb *KnowledgeBase) Template(name string) []string {
	if kb == nil || kb.Templates == nil {
		return nil
	}
	return kb.Templates[name]
}
