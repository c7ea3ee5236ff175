package extraction

import (
	"fmt"
	"strings"

	"recipe-bot/internal/core/recipe"
)

var languageLabels = map[string]string{
	recipe.LangRussian: "🇷🇺 Русский",
	recipe.LangEnglish: "🇬🇧 English",
}

// RenderCard is the message sent for one extracted recipe.
func RenderCard(r recipe.VideoRecipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 %s\n", r.Name)
	if r.CookingTime != "" {
		fmt.Fprintf(&sb, "⏱ Время приготовления: %s\n", r.CookingTime)
	}

	sb.WriteString("\n🛒 Ингредиенты:\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "• %s\n", ing)
	}

	sb.WriteString("\n👨‍🍳 Приготовление:\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}

	sb.WriteString("\n")
	if r.SourceURL != "" {
		fmt.Fprintf(&sb, "🔗 Источник: %s\n", r.SourceURL)
	}
	label, ok := languageLabels[r.OriginalLanguage]
	if !ok {
		label = r.OriginalLanguage
	}
	fmt.Fprintf(&sb, "🌐 Язык оригинала: %s\n", label)
	fmt.Fprintf(&sb, "🆔 ID: %s", r.ID)
	return sb.String()
}

// RenderList is the message for a page of search or list results.
func RenderList(header string, recipes []recipe.VideoRecipe) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for i, r := range recipes {
		fmt.Fprintf(&sb, "\n%d. %s\n   🆔 %s", i+1, r.Name, r.ID)
	}
	return sb.String()
}
