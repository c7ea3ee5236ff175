package recipe

import (
	"regexp"
	"strings"
)

// GenericMeat replaces any pork ingredient in extracted recipes.
const GenericMeat = "meat"

// Ingredient categories produced by the local fallback classifier.
const (
	IngredientOther = "other"
)

var quantityPattern = regexp.MustCompile(`^\s*(\d+(?:[.,/]\d+)?|½|¼|¾)\s*([\p{L}.]+)?\s+(.+)$`)

// knownUnits are the tokens ParseIngredientLine treats as a unit rather
// than the start of the name.
var knownUnits = map[string]bool{
	"g": true, "gr": true, "kg": true, "ml": true, "l": true, "cup": true, "cups": true,
	"tbsp": true, "tsp": true, "pcs": true, "pc": true, "oz": true, "lb": true,
	"г": true, "гр": true, "кг": true, "мл": true, "л": true, "ст": true, "ст.": true,
	"ч.": true, "шт": true, "шт.": true, "стакан": true, "стакана": true, "ложка": true,
	"ложки": true, "щепотка": true,
}

// SplitIngredientLines returns one trimmed entry per non-blank line.
func SplitIngredientLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseIngredientLine splits "2 cups flour" into amount, unit and name
// without any remote call. Lines with no leading quantity keep the whole
// text as the name.
func ParseIngredientLine(line string) Ingredient {
	line = strings.TrimSpace(line)
	ing := Ingredient{Name: line, Category: IngredientOther}

	m := quantityPattern.FindStringSubmatch(line)
	if m == nil {
		return ing
	}
	ing.Amount = m[1]
	name := m[3]
	if m[2] != "" {
		if knownUnits[strings.ToLower(m[2])] {
			ing.Unit = m[2]
		} else {
			name = m[2] + " " + name
		}
	}
	ing.Name = strings.TrimSpace(name)
	return ing
}

var (
	porkPattern = regexp.MustCompile(`(?i)\b(pork|bacon|ham|prosciutto|pancetta)\b`)
	porkStems   = []string{"свинин", "свиной", "свиная", "свиные", "бекон", "ветчин"}
)

// IsPork reports whether an ingredient string names pork.
func IsPork(ingredient string) bool {
	if porkPattern.MatchString(ingredient) {
		return true
	}
	lower := strings.ToLower(ingredient)
	for _, stem := range porkStems {
		if strings.Contains(lower, stem) {
			return true
		}
	}
	return false
}

// GeneralizePork replaces every pork ingredient with GenericMeat in place.
func GeneralizePork(ingredients []string) []string {
	for i, ing := range ingredients {
		if IsPork(ing) {
			ingredients[i] = GenericMeat
		}
	}
	return ingredients
}
