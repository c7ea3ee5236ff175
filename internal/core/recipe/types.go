// Package recipe holds the records both bot profiles store and render.
package recipe

import (
	"strings"
	"time"
)

// MaxTitleLength is the longest accepted title, in runes.
const MaxTitleLength = 100

// UntitledTitle is the fallback title when no suggestion could be produced.
const UntitledTitle = "Без названия"

// Category is the fixed dish classification of a manually entered recipe.
// The string value is the wire and storage token.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategorySoup      Category = "soup"
	CategorySalad     Category = "salad"
	CategoryMain      Category = "main"
	CategorySide      Category = "side"
	CategoryDessert   Category = "dessert"
	CategoryBaking    Category = "baking"
	CategoryDrink     Category = "drink"
	CategorySnack     Category = "snack"
)

// Categories lists every category in menu order.
var Categories = []Category{
	CategoryBreakfast,
	CategorySoup,
	CategorySalad,
	CategoryMain,
	CategorySide,
	CategoryDessert,
	CategoryBaking,
	CategoryDrink,
	CategorySnack,
}

var categoryNames = map[Category]string{
	CategoryBreakfast: "🍳 Завтрак",
	CategorySoup:      "🍲 Суп",
	CategorySalad:     "🥗 Салат",
	CategoryMain:      "🍖 Основное блюдо",
	CategorySide:      "🍚 Гарнир",
	CategoryDessert:   "🍰 Десерт",
	CategoryBaking:    "🥐 Выпечка",
	CategoryDrink:     "🥤 Напиток",
	CategorySnack:     "🥨 Закуска",
}

// ParseCategory accepts exactly one of the nine wire tokens.
func ParseCategory(token string) (Category, bool) {
	c := Category(token)
	_, ok := categoryNames[c]
	return c, ok
}

// DisplayName is the localized label; unknown values render as-is.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Ingredient is one line of a manually entered recipe.
type Ingredient struct {
	Name     string `json:"name"`
	Amount   string `json:"amount,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
}

// Photo references a Telegram photo by file id.
type Photo struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Recipe is a manually entered recipe owned by one user.
type Recipe struct {
	ID           string       `json:"id"`
	UserID       int64        `json:"user_id"`
	Title        string       `json:"title"`
	Category     Category     `json:"category"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions,omitempty"`
	Photo        *Photo       `json:"photo,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (r Recipe) RecordID() string          { return r.ID }
func (r Recipe) CreatedTime() time.Time    { return r.CreatedAt }
func (r Recipe) SearchName() string        { return r.Title }
func (r Recipe) Language() string          { return "" }
func (r Recipe) OwnedBy(userID int64) bool { return r.UserID == userID }

func (r Recipe) SearchIngredients() []string {
	out := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		out[i] = ing.Name
	}
	return out
}

// IngredientNames returns the names in order.
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// Language tags a VideoRecipe may carry. The first entry is the fallback
// for anything a model returns outside the set.
const (
	LangRussian = "ru"
	LangEnglish = "en"
)

var Languages = []string{LangRussian, LangEnglish}

// NormalizeLanguage lowercases tag and coerces anything outside Languages
// to the first entry.
func NormalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, l := range Languages {
		if tag == l {
			return l
		}
	}
	return Languages[0]
}

// VideoRecipe is a recipe extracted from a video transcript. It has no owner.
type VideoRecipe struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CookingTime      string    `json:"cookingTime"`
	Ingredients      []string  `json:"ingredients"`
	Instructions     []string  `json:"instructions"`
	OriginalLanguage string    `json:"originalLanguage"`
	SourceURL        string    `json:"sourceUrl"`
	Transcript       string    `json:"transcript"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (r VideoRecipe) RecordID() string            { return r.ID }
func (r VideoRecipe) CreatedTime() time.Time      { return r.CreatedAt }
func (r VideoRecipe) SearchName() string          { return r.Name }
func (r VideoRecipe) SearchIngredients() []string { return r.Ingredients }
func (r VideoRecipe) Language() string            { return r.OriginalLanguage }
