// Package service turns chat completions into recipe data. Manual-entry
// helpers never fail: every one has a local fallback. Transcript extraction
// and translation fail hard.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/pkg/common"
)

// ErrInvalidStructure means the model answered with JSON that lacks a
// name, ingredients or instructions.
var ErrInvalidStructure = errors.New("recipe JSON is missing required fields")

// ErrNoJSON means none of the parse strategies found a JSON object.
var ErrNoJSON = common.ErrNoJSON

// Extracted is the recipe shape exchanged with the model during
// transcript extraction and translation.
type Extracted struct {
	Name         string   `json:"name"`
	CookingTime  string   `json:"cookingTime"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Language     string   `json:"language"`
}

// Service wraps a Provider with recipe-specific prompts.
type Service struct {
	provider provider.Provider
}

func NewService(p provider.Provider) *Service {
	return &Service{provider: p}
}

func (s *Service) complete(ctx context.Context, purpose, system, user string, jsonMode bool) (string, error) {
	resp, err := s.provider.Complete(ctx, &provider.Request{
		Purpose:  purpose,
		JSONMode: jsonMode,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ClassifyIngredients asks the model to split and label each line. Any
// failure, or an answer with no entries, falls back to local parsing.
func (s *Service) ClassifyIngredients(ctx context.Context, lines []string) []recipe.Ingredient {
	fallback := func(reason error) []recipe.Ingredient {
		common.LogWarn("Ingredient classification fell back to local parsing", zap.Error(reason))
		out := make([]recipe.Ingredient, len(lines))
		for i, line := range lines {
			out[i] = recipe.ParseIngredientLine(line)
		}
		return out
	}

	content, err := s.complete(ctx, PurposeClassify, classifyPrompt, strings.Join(lines, "\n"), true)
	if err != nil {
		return fallback(err)
	}

	var parsed struct {
		Ingredients []recipe.Ingredient `json:"ingredients"`
	}
	if err := common.ExtractJSON(content, &parsed); err != nil {
		return fallback(err)
	}

	out := make([]recipe.Ingredient, 0, len(parsed.Ingredients))
	for _, ing := range parsed.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		if ing.Category == "" {
			ing.Category = recipe.IngredientOther
		}
		out = append(out, ing)
	}
	if len(out) == 0 {
		return fallback(errors.New("model returned no ingredients"))
	}
	return out
}

// DetermineCategory picks one of the nine categories, or CategoryMain when
// the model cannot.
func (s *Service) DetermineCategory(ctx context.Context, ingredients []recipe.Ingredient) recipe.Category {
	tokens := make([]string, len(recipe.Categories))
	for i, c := range recipe.Categories {
		tokens[i] = string(c)
	}
	system := fmt.Sprintf(categoryPrompt, strings.Join(tokens, ", "))

	content, err := s.complete(ctx, PurposeCategory, system, strings.Join(recipe.IngredientNames(ingredients), "\n"), true)
	if err != nil {
		common.LogWarn("Category detection failed", zap.Error(err))
		return recipe.CategoryMain
	}

	var parsed struct {
		Category string `json:"category"`
	}
	if err := common.ExtractJSON(content, &parsed); err != nil {
		common.LogWarn("Category response unparseable", zap.Error(err))
		return recipe.CategoryMain
	}
	c, ok := recipe.ParseCategory(strings.ToLower(strings.TrimSpace(parsed.Category)))
	if !ok {
		return recipe.CategoryMain
	}
	return c
}

// SuggestTitle returns a title of at most MaxTitleLength runes, or
// UntitledTitle when the model cannot produce one.
func (s *Service) SuggestTitle(ctx context.Context, names []string, category recipe.Category) string {
	user := fmt.Sprintf("Категория: %s\nИнгредиенты:\n%s", category.DisplayName(), strings.Join(names, "\n"))

	content, err := s.complete(ctx, PurposeTitle, titlePrompt, user, true)
	if err != nil {
		common.LogWarn("Title suggestion failed", zap.Error(err))
		return recipe.UntitledTitle
	}

	var parsed struct {
		Title string `json:"title"`
	}
	if err := common.ExtractJSON(content, &parsed); err != nil {
		common.LogWarn("Title response unparseable", zap.Error(err))
		return recipe.UntitledTitle
	}
	title := strings.Trim(strings.TrimSpace(parsed.Title), `"«»'`)
	if title == "" {
		return recipe.UntitledTitle
	}
	return common.Truncate(title, recipe.MaxTitleLength)
}

// FormatRecipe renders a saved recipe for display. Callers fall back to
// recipe.PlainText on error.
func (s *Service) FormatRecipe(ctx context.Context, r recipe.Recipe) (string, error) {
	content, err := s.complete(ctx, PurposeFormat, formatPrompt, recipe.PlainText(r), false)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", common.ErrAIEmptyResponse
	}
	return content, nil
}

// ExtractRecipe pulls a structured recipe out of a transcript. The language
// is coerced into recipe.Languages and pork ingredients become GenericMeat.
func (s *Service) ExtractRecipe(ctx context.Context, transcript string) (*Extracted, error) {
	content, err := s.complete(ctx, PurposeExtract, extractPrompt, transcript, true)
	if err != nil {
		return nil, err
	}
	return parseExtracted(content)
}

// TranslateRecipe renders an extracted recipe in Russian. The result's
// language is always Russian.
func (s *Service) TranslateRecipe(ctx context.Context, src *Extracted) (*Extracted, error) {
	payload, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	content, err := s.complete(ctx, PurposeTranslate, translatePrompt, string(payload), true)
	if err != nil {
		return nil, err
	}
	out, err := parseExtracted(content)
	if err != nil {
		return nil, err
	}
	out.Language = recipe.LangRussian
	return out, nil
}

func parseExtracted(content string) (*Extracted, error) {
	var out Extracted
	if err := common.ExtractJSON(content, &out); err != nil {
		common.LogDebug("Model output had no usable JSON", zap.Int("length", len(content)))
		return nil, err
	}
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" || len(out.Ingredients) == 0 || len(out.Instructions) == 0 {
		return nil, ErrInvalidStructure
	}
	out.Language = recipe.NormalizeLanguage(out.Language)
	out.Ingredients = recipe.GeneralizePork(out.Ingredients)
	return &out, nil
}
