package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-bot/internal/core/callback"
	"recipe-bot/internal/core/conversation"
	"recipe-bot/internal/core/extraction"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/core/transcript"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// countingStore records every read so tests can assert none happened.
type countingStore[T storage.Record] struct {
	storage.Store[T]
	reads int
}

func (c *countingStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	c.reads++
	return c.Store.Get(ctx, id)
}

func (c *countingStore[T]) List(ctx context.Context) ([]T, error) {
	c.reads++
	return c.Store.List(ctx)
}

func (c *countingStore[T]) Search(ctx context.Context, query string, includeIngredients bool) ([]T, error) {
	c.reads++
	return c.Store.Search(ctx, query, includeIngredients)
}

type stubAssistant struct{}

func (stubAssistant) ClassifyIngredients(ctx context.Context, lines []string) []recipe.Ingredient {
	out := make([]recipe.Ingredient, len(lines))
	for i, l := range lines {
		out[i] = recipe.ParseIngredientLine(l)
	}
	return out
}

func (stubAssistant) DetermineCategory(ctx context.Context, ingredients []recipe.Ingredient) recipe.Category {
	return recipe.CategoryDessert
}

func (stubAssistant) SuggestTitle(ctx context.Context, names []string, category recipe.Category) string {
	return "Блины"
}

func (stubAssistant) FormatRecipe(ctx context.Context, r recipe.Recipe) (string, error) {
	return "", errors.New("offline")
}

func newManual(t *testing.T) (*ManualHandler, *fakeSender, *countingStore[recipe.Recipe]) {
	t.Helper()
	api := newFakeSender()
	store := &countingStore[recipe.Recipe]{Store: storage.NewMemoryStore[recipe.Recipe]()}
	machine := conversation.NewMachine(conversation.NewSessionStore(), store, stubAssistant{})
	return NewManualHandler(api, machine), api, store
}

func TestManualPancakesOverTelegram(t *testing.T) {
	ctx := context.Background()
	h, api, store := newManual(t)

	require.NoError(t, h.HandleMessage(ctx, textMessage(42, "2 eggs\n1 cup flour")))
	markup, ok := api.last().(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 3)
	require.NotNil(t, markup.InlineKeyboard[1][2].CallbackData)
	assert.Equal(t, "category_dessert", *markup.InlineKeyboard[1][2].CallbackData)

	require.NoError(t, h.HandleCallback(ctx, callbackQuery(42, "category_dessert")))
	assert.Len(t, api.requests, 1)

	require.NoError(t, h.HandleMessage(ctx, textMessage(42, "Pancakes")))
	require.NoError(t, h.HandleMessage(ctx, commandMessage(42, "skip", "")))

	all, err := store.Store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Pancakes", all[0].Title)
	assert.Equal(t, recipe.CategoryDessert, all[0].Category)
	assert.Len(t, all[0].Ingredients, 2)
	assert.Nil(t, all[0].Photo)

	texts := api.texts()
	assert.Contains(t, texts[len(texts)-2], "📖 Pancakes")
}

func TestManualPhotoPicksLargestSize(t *testing.T) {
	ctx := context.Background()
	h, api, store := newManual(t)

	require.NoError(t, h.HandleMessage(ctx, textMessage(42, "2 eggs")))
	require.NoError(t, h.HandleCallback(ctx, callbackQuery(42, "category_breakfast")))
	require.NoError(t, h.HandleMessage(ctx, textMessage(42, "accept")))

	msg := textMessage(42, "")
	msg.Photo = []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "large", Width: 1280, Height: 1280},
		{FileID: "medium", Width: 320, Height: 320},
	}
	require.NoError(t, h.HandleMessage(ctx, msg))

	all, _ := store.Store.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "Блины", all[0].Title)
	assert.Equal(t, &recipe.Photo{FileID: "large", Width: 1280, Height: 1280}, all[0].Photo)

	var photos int
	for _, c := range api.sent {
		if _, ok := c.(tgbotapi.PhotoConfig); ok {
			photos++
		}
	}
	assert.Equal(t, 1, photos)
}

func TestManualRecipeWithoutArgument(t *testing.T) {
	h, api, store := newManual(t)

	require.NoError(t, h.HandleMessage(context.Background(), commandMessage(42, "recipe", "")))
	assert.Equal(t, []string{msgManualRecipeUsage}, api.texts())
	assert.Zero(t, store.reads)
}

func TestManualCommands(t *testing.T) {
	ctx := context.Background()
	h, api, _ := newManual(t)

	tests := []struct {
		command string
		want    string
	}{
		{"start", msgManualWelcome},
		{"help", msgManualHelp},
		{"unknown", msgUnknownCommand},
	}
	for _, tt := range tests {
		api.reset()
		require.NoError(t, h.HandleMessage(ctx, commandMessage(42, tt.command, "")))
		assert.Equal(t, []string{tt.want}, api.texts(), tt.command)
	}

	api.reset()
	sticker := textMessage(42, "")
	require.NoError(t, h.HandleMessage(ctx, sticker))
	assert.Equal(t, []string{msgUnsupported}, api.texts())
}

func TestManualUnknownCallbackIsAcknowledged(t *testing.T) {
	h, api, store := newManual(t)

	require.NoError(t, h.HandleCallback(context.Background(), callbackQuery(42, "bogus_payload")))
	assert.Len(t, api.requests, 1)
	assert.Empty(t, api.sent)
	assert.Zero(t, store.reads)
}

func TestManualDeleteViaCallbacks(t *testing.T) {
	ctx := context.Background()
	h, api, store := newManual(t)
	require.NoError(t, store.Save(ctx, recipe.Recipe{ID: "r1", UserID: 42, Title: "Суп"}))

	require.NoError(t, h.HandleCallback(ctx, callbackQuery(42, callback.DeleteData("r1"))))
	require.NoError(t, h.HandleCallback(ctx, callbackQuery(42, callback.YesData())))

	ok, err := store.Exists(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, api.requests, 2)
}

type fakeExtractor struct {
	result *recipe.VideoRecipe
	err    error
	calls  int
}

func (f *fakeExtractor) Run(ctx context.Context, input string) (*recipe.VideoRecipe, error) {
	f.calls++
	return f.result, f.err
}

func newYouTube(t *testing.T, ex *fakeExtractor) (*YouTubeHandler, *fakeSender, *countingStore[recipe.VideoRecipe]) {
	t.Helper()
	api := newFakeSender()
	store := &countingStore[recipe.VideoRecipe]{Store: storage.NewMemoryStore[recipe.VideoRecipe]()}
	return NewYouTubeHandler(api, ex, store), api, store
}

func seedVideos(t *testing.T, s storage.Store[recipe.VideoRecipe]) {
	t.Helper()
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []recipe.VideoRecipe{
		{ID: "v1", Name: "Паста с базиликом", Ingredients: []string{"паста", "базилик"}, Instructions: []string{"Сварить"}, OriginalLanguage: "en"},
		{ID: "v2", Name: "Томатный суп", Ingredients: []string{"томаты", "сливки"}, Instructions: []string{"Варить"}, OriginalLanguage: "ru"},
		{ID: "v3", Name: "Брускетта", Ingredients: []string{"хлеб", "томаты"}, Instructions: []string{"Поджарить"}, OriginalLanguage: "ru"},
	} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Save(context.Background(), r))
	}
}

func TestYouTubeRecipeWithoutArgument(t *testing.T) {
	ex := &fakeExtractor{}
	h, api, store := newYouTube(t, ex)

	require.NoError(t, h.HandleMessage(context.Background(), commandMessage(1, "recipe", "")))
	assert.Equal(t, []string{msgYouTubeRecipeUsage}, api.texts())
	assert.Zero(t, store.reads)
	assert.Zero(t, ex.calls)
}

func TestYouTubeRecipeExtracts(t *testing.T) {
	ex := &fakeExtractor{result: &recipe.VideoRecipe{ID: "new", Name: "Паста", OriginalLanguage: "en"}}
	h, api, _ := newYouTube(t, ex)

	require.NoError(t, h.HandleMessage(context.Background(), commandMessage(1, "recipe", "https://youtu.be/abc12345678")))
	texts := api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, msgProcessing, texts[0])
	assert.Contains(t, texts[1], "🍽 Паста")
	assert.Contains(t, texts[1], "🇬🇧")
}

func TestYouTubeRecipeRejectsBadURLLocally(t *testing.T) {
	ex := &fakeExtractor{}
	h, api, _ := newYouTube(t, ex)

	require.NoError(t, h.HandleMessage(context.Background(), commandMessage(1, "recipe", "https://vimeo.com/1")))
	assert.Equal(t, []string{msgInvalidURL}, api.texts())
	assert.Zero(t, ex.calls)
}

func TestDescribeFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		handled bool
	}{
		{"too short", &extraction.StepError{Step: extraction.StepTranscript, Err: extraction.ErrTranscriptTooShort}, msgTranscriptMissing, true},
		{"unavailable", &extraction.StepError{Step: extraction.StepTranscript, Err: &transcript.Error{StatusCode: 404}}, msgTranscriptMissing, true},
		{"transcript 500", &extraction.StepError{Step: extraction.StepTranscript, Err: &transcript.Error{StatusCode: 500}}, msgTranscriptFailed, true},
		{"balance", &extraction.StepError{Step: extraction.StepExtract, Err: common.ErrAIInsufficientFund.Wrap(errors.New("402"))}, msgAIUnavailable, true},
		{"bad json", &extraction.StepError{Step: extraction.StepTranslate, Err: common.ErrNoJSON}, msgProcessingFailed, true},
		{"store", &extraction.StepError{Step: extraction.StepSave, Err: common.ErrStoreUnavailable}, "", false},
		{"foreign", errors.New("??"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := describeFailure(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.handled, handled)
		})
	}
}

func TestYouTubeExtractionStoreFailureBubblesUp(t *testing.T) {
	ex := &fakeExtractor{err: &extraction.StepError{Step: extraction.StepSave, Err: common.ErrStoreUnavailable}}
	h, _, _ := newYouTube(t, ex)

	err := h.HandleMessage(context.Background(), commandMessage(1, "recipe", "abc12345678"))
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestYouTubeCatchAll(t *testing.T) {
	ctx := context.Background()
	h, api, store := newYouTube(t, &fakeExtractor{})
	seedVideos(t, store.Store)

	require.NoError(t, h.HandleMessage(ctx, textMessage(1, "v2")))
	assert.Contains(t, api.texts()[0], "🍽 Томатный суп")

	api.reset()
	require.NoError(t, h.HandleMessage(ctx, textMessage(1, "ТОМАТЫ")))
	msg, ok := api.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Найдено рецептов: 2")
	markup := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Equal(t, "view_v3", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "view_v2", *markup.InlineKeyboard[1][0].CallbackData)

	api.reset()
	require.NoError(t, h.HandleMessage(ctx, textMessage(1, "суши")))
	assert.Equal(t, []string{msgNoResults}, api.texts())
}

func TestYouTubeSearchAndList(t *testing.T) {
	ctx := context.Background()
	h, api, store := newYouTube(t, &fakeExtractor{})

	require.NoError(t, h.HandleMessage(ctx, commandMessage(1, "list", "")))
	assert.Equal(t, []string{msgListEmpty}, api.texts())

	seedVideos(t, store.Store)

	api.reset()
	require.NoError(t, h.HandleMessage(ctx, commandMessage(1, "search", "")))
	assert.Equal(t, []string{msgSearchUsage}, api.texts())

	api.reset()
	require.NoError(t, h.HandleMessage(ctx, commandMessage(1, "search", "базилик")))
	assert.Contains(t, api.texts()[0], "🍽 Паста с базиликом")

	api.reset()
	require.NoError(t, h.HandleMessage(ctx, commandMessage(1, "list", "")))
	assert.Contains(t, api.texts()[0], msgListHeader)
	assert.Contains(t, api.texts()[0], "1. Брускетта")

	api.reset()
	require.NoError(t, h.HandleCallback(ctx, callbackQuery(1, "view_v1")))
	assert.Contains(t, api.texts()[0], "🍽 Паста с базиликом")

	api.reset()
	require.NoError(t, h.HandleCallback(ctx, callbackQuery(1, "confirm_yes")))
	assert.Empty(t, api.sent)
	assert.Len(t, api.requests, 1)
}
