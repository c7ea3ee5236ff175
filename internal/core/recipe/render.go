package recipe

import (
	"fmt"
	"strings"
)

// PlainText is the fixed layout used when the formatter model is unavailable.
func PlainText(r Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 %s\n", r.Title)
	fmt.Fprintf(&sb, "Категория: %s\n\n", r.Category.DisplayName())
	sb.WriteString("Ингредиенты:\n")
	for _, ing := range r.Ingredients {
		sb.WriteString("• ")
		sb.WriteString(FormatIngredient(ing))
		sb.WriteString("\n")
	}
	if r.Instructions != "" {
		sb.WriteString("\nПриготовление:\n")
		sb.WriteString(r.Instructions)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nID: %s", r.ID)
	return sb.String()
}

// FormatIngredient renders "name — amount unit".
func FormatIngredient(ing Ingredient) string {
	qty := strings.TrimSpace(ing.Amount + " " + ing.Unit)
	if qty == "" {
		return ing.Name
	}
	return ing.Name + " — " + qty
}
