package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuItem_UnmarshalDefaults(t *testing.T) {
	var items []MenuItem
	data := `[
		{"name": "Citrus", "price": 6.5, "category": "jugos cold pressed", "ingredients": ["piña", "naranja"]},
		{"name": "Brownie", "price": 3, "category": "prana cakes", "ingredients": "cacao y dátiles", "available": false}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &items))
	require.Len(t, items, 2)

	assert.True(t, items[0].Available)
	assert.Equal(t, "piña, naranja", items[0].IngredientsText())
	assert.False(t, items[1].Available)
	assert.Equal(t, Ingredients{"cacao y dátiles"}, items[1].Ingredients)
}

func TestMenuItem_CaseInsensitiveIdentity(t *testing.T) {
	item := MenuItem{Name: "Green Day", Category: "Jugos Cold Pressed"}

	assert.True(t, item.SameName("green day "))
	assert.True(t, item.InCategory("jugos cold pressed"))
	assert.False(t, item.InCategory("shots"))
}

func TestCategoryHelpers(t *testing.T) {
	assert.Equal(t, "💉", CategoryEmoji("Shots"))
	assert.Equal(t, DefaultEmoji, CategoryEmoji("bebidas"))
	assert.Equal(t, "milks", CanonicalCategory(" MILKS "))
	assert.Equal(t, "bebidas", CanonicalCategory("Bebidas"))
}

func TestOrderSections(t *testing.T) {
	sections := OrderSections(map[string][]string{
		"zanahorias": {"a"},
		"extras":     {"b"},
		"bebidas":    {"c"},
		"shots":      {"d"},
	})

	var names []string
	for _, s := range sections {
		names = append(names, s.Category)
	}
	assert.Equal(t, []string{"shots", "extras", "bebidas", "zanahorias"}, names)
}

func TestSectionsFromItems(t *testing.T) {
	sections := SectionsFromItems([]MenuItem{
		{Name: "Milky Way", Category: "Milks"},
		{Name: "Citrus", Category: "jugos cold pressed"},
		{Name: "Go Nuts", Category: "milks"},
	})

	require.Len(t, sections, 2)
	assert.Equal(t, MenuSection{Category: "jugos cold pressed", Items: []string{"Citrus"}}, sections[0])
	assert.Equal(t, MenuSection{Category: "milks", Items: []string{"Milky Way", "Go Nuts"}}, sections[1])
}

func TestGenerationRequest_Prompt(t *testing.T) {
	prompt := GenerationRequest{Context: "CTX", Message: "hola"}.Prompt()

	assert.Contains(t, prompt, "CONTEXTO:\nCTX\n\nINSTRUCCIONES:")
	assert.Contains(t, prompt, "MENSAJE ACTUAL DEL CLIENTE: hola\n\nRESPUESTA:")
}
