package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-bot/internal/core/ai/provider"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/pkg/common"
)

type fakeProvider struct {
	replies map[string]string
	err     error
	calls   []*provider.Request
}

func (f *fakeProvider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.replies[req.Purpose]}, nil
}

func (f *fakeProvider) Model() string { return "fake" }
func (f *fakeProvider) Close() error  { return nil }

func TestClassifyIngredients(t *testing.T) {
	fp := &fakeProvider{replies: map[string]string{
		PurposeClassify: `{"ingredients":[{"name":"eggs","amount":"2","category":"dairy"},{"name":"flour","amount":"1","unit":"cup","category":"baking"}]}`,
	}}
	svc := NewService(fp)

	got := svc.ClassifyIngredients(context.Background(), []string{"2 eggs", "1 cup flour"})
	require.Len(t, got, 2)
	assert.Equal(t, recipe.Ingredient{Name: "eggs", Amount: "2", Category: "dairy"}, got[0])
	assert.Equal(t, "cup", got[1].Unit)

	require.Len(t, fp.calls, 1)
	assert.True(t, fp.calls[0].JSONMode)
	assert.Equal(t, "2 eggs\n1 cup flour", fp.calls[0].Messages[1].Content)
}

func TestClassifyIngredientsFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fp   *fakeProvider
	}{
		{name: "provider error", fp: &fakeProvider{err: common.ErrAIServiceError}},
		{name: "not json", fp: &fakeProvider{replies: map[string]string{PurposeClassify: "sorry, no"}}},
		{name: "empty list", fp: &fakeProvider{replies: map[string]string{PurposeClassify: `{"ingredients":[]}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewService(tt.fp).ClassifyIngredients(context.Background(), []string{"2 eggs", "1 cup flour"})
			assert.Equal(t, []recipe.Ingredient{
				{Name: "eggs", Amount: "2", Category: recipe.IngredientOther},
				{Name: "flour", Amount: "1", Unit: "cup", Category: recipe.IngredientOther},
			}, got)
		})
	}
}

func TestDetermineCategory(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  recipe.Category
	}{
		{name: "valid token", reply: `{"category":"dessert"}`, want: recipe.CategoryDessert},
		{name: "case folded", reply: `{"category":" Soup "}`, want: recipe.CategorySoup},
		{name: "unknown token", reply: `{"category":"pizza"}`, want: recipe.CategoryMain},
		{name: "garbage", reply: `nope`, want: recipe.CategoryMain},
		{name: "provider error", err: common.ErrAIUnauthorized, want: recipe.CategoryMain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProvider{replies: map[string]string{PurposeCategory: tt.reply}, err: tt.err}
			got := NewService(fp).DetermineCategory(context.Background(), []recipe.Ingredient{{Name: "eggs"}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestTitle(t *testing.T) {
	fp := &fakeProvider{replies: map[string]string{PurposeTitle: "```json\n{\"title\":\"«Блины на молоке»\"}\n```"}}
	got := NewService(fp).SuggestTitle(context.Background(), []string{"eggs", "flour"}, recipe.CategoryDessert)
	assert.Equal(t, "Блины на молоке", got)
	assert.Contains(t, fp.calls[0].Messages[1].Content, recipe.CategoryDessert.DisplayName())

	long := `{"title":"` + strings.Repeat("я", 150) + `"}`
	fp = &fakeProvider{replies: map[string]string{PurposeTitle: long}}
	got = NewService(fp).SuggestTitle(context.Background(), nil, recipe.CategoryMain)
	assert.Len(t, []rune(got), recipe.MaxTitleLength)

	fp = &fakeProvider{err: common.ErrAIServiceError}
	assert.Equal(t, recipe.UntitledTitle, NewService(fp).SuggestTitle(context.Background(), nil, recipe.CategoryMain))

	fp = &fakeProvider{replies: map[string]string{PurposeTitle: `{"title":"  "}`}}
	assert.Equal(t, recipe.UntitledTitle, NewService(fp).SuggestTitle(context.Background(), nil, recipe.CategoryMain))
}

func TestFormatRecipe(t *testing.T) {
	fp := &fakeProvider{replies: map[string]string{PurposeFormat: "  Pancakes\n..."}}
	got, err := NewService(fp).FormatRecipe(context.Background(), recipe.Recipe{ID: "x", Title: "Pancakes"})
	require.NoError(t, err)
	assert.Equal(t, "Pancakes\n...", got)
	assert.False(t, fp.calls[0].JSONMode)

	fp = &fakeProvider{replies: map[string]string{PurposeFormat: " "}}
	_, err = NewService(fp).FormatRecipe(context.Background(), recipe.Recipe{})
	assert.ErrorIs(t, err, common.ErrAIEmptyResponse)
}

func TestExtractRecipe(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    *Extracted
		wantErr error
	}{
		{
			name:  "whole body",
			reply: `{"name":"Pasta","cookingTime":"30 minutes","ingredients":["pasta","bacon"],"instructions":["boil"],"language":"en"}`,
			want: &Extracted{Name: "Pasta", CookingTime: "30 minutes", Ingredients: []string{"pasta", recipe.GenericMeat},
				Instructions: []string{"boil"}, Language: recipe.LangEnglish},
		},
		{
			name:  "fenced block with prose",
			reply: "Here you go:\n```json\n{\"name\":\"Суп\",\"ingredients\":[\"вода\"],\"instructions\":[\"варить\"],\"language\":\"ru\"}\n```",
			want:  &Extracted{Name: "Суп", Ingredients: []string{"вода"}, Instructions: []string{"варить"}, Language: recipe.LangRussian},
		},
		{
			name:  "brace substring and coerced language",
			reply: `Result: {"name":"Tea","ingredients":["tea"],"instructions":["steep"],"language":"de"} done`,
			want:  &Extracted{Name: "Tea", Ingredients: []string{"tea"}, Instructions: []string{"steep"}, Language: recipe.LangRussian},
		},
		{name: "no json", reply: "I cannot help with that", wantErr: ErrNoJSON},
		{name: "missing instructions", reply: `{"name":"Tea","ingredients":["tea"]}`, wantErr: ErrInvalidStructure},
		{name: "missing name", reply: `{"name":" ","ingredients":["tea"],"instructions":["steep"]}`, wantErr: ErrInvalidStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProvider{replies: map[string]string{PurposeExtract: tt.reply}}
			got, err := NewService(fp).ExtractRecipe(context.Background(), "transcript")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, fp.calls[0].JSONMode)
		})
	}
}

func TestTranslateRecipeForcesRussian(t *testing.T) {
	fp := &fakeProvider{replies: map[string]string{
		PurposeTranslate: `{"name":"Паста","cookingTime":"30 минут","ingredients":["паста","ветчина"],"instructions":["сварить"],"language":"en"}`,
	}}
	src := &Extracted{Name: "Pasta", CookingTime: "30 minutes", Ingredients: []string{"pasta"}, Instructions: []string{"boil"}, Language: "en"}

	got, err := NewService(fp).TranslateRecipe(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, recipe.LangRussian, got.Language)
	assert.Equal(t, []string{"паста", recipe.GenericMeat}, got.Ingredients)
	assert.Contains(t, fp.calls[0].Messages[1].Content, `"name":"Pasta"`)

	fp = &fakeProvider{replies: map[string]string{PurposeTranslate: `{"name":"Паста"}`}}
	_, err = NewService(fp).TranslateRecipe(context.Background(), src)
	assert.ErrorIs(t, err, ErrInvalidStructure)
}
