// Package extraction turns a YouTube link into a stored, Russian-language
// recipe.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"recipe-bot/internal/core/ai/service"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/core/transcript"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// MinTranscriptLength is the shortest transcript, in characters, worth
// sending to the model.
const MinTranscriptLength = 50

// ErrTranscriptTooShort is returned when the transcript is too short to
// hold a recipe.
var ErrTranscriptTooShort = errors.New("transcript too short")

// Step names the pipeline stage that failed.
type Step string

const (
	StepParseURL   Step = "parse_url"
	StepTranscript Step = "transcript"
	StepExtract    Step = "extract"
	StepTranslate  Step = "translate"
	StepSave       Step = "save"
)

// StepError tags a failure with its stage.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the stage of a pipeline error, or "" if err did not
// come from Run.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

// TranscriptFetcher is satisfied by *transcript.Client.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoURL string, opts transcript.Options) (*transcript.Transcript, error)
}

// RecipeExtractor is satisfied by *service.Service.
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, transcript string) (*service.Extracted, error)
	TranslateRecipe(ctx context.Context, src *service.Extracted) (*service.Extracted, error)
}

// Pipeline runs one extraction per call and keeps no state between calls.
type Pipeline struct {
	transcripts TranscriptFetcher
	ai          RecipeExtractor
	store       storage.Store[recipe.VideoRecipe]

	now   func() time.Time
	newID func() string
}

func NewPipeline(transcripts TranscriptFetcher, ai RecipeExtractor, store storage.Store[recipe.VideoRecipe]) *Pipeline {
	return &Pipeline{
		transcripts: transcripts,
		ai:          ai,
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       common.GenerateUUID,
	}
}

// Run parses input, fetches the transcript, extracts the recipe, translates
// it when it is not Russian, and saves it.
func (p *Pipeline) Run(ctx context.Context, input string) (*recipe.VideoRecipe, error) {
	id, err := ParseVideoID(input)
	if err != nil {
		return nil, &StepError{Step: StepParseURL, Err: err}
	}
	videoURL := NormalizeURL(id)

	// transcript
	t, err := p.transcripts.Fetch(ctx, videoURL, transcript.Options{PlainText: true})
	if err != nil {
		return nil, &StepError{Step: StepTranscript, Err: err}
	}
	text := strings.TrimSpace(t.Text)
	if utf8.RuneCountInString(text) < MinTranscriptLength {
		common.LogWarn("Transcript too short", zap.String("video_id", id), zap.Int("length", utf8.RuneCountInString(text)))
		return nil, &StepError{Step: StepTranscript, Err: ErrTranscriptTooShort}
	}

	// extraction
	extracted, err := p.ai.ExtractRecipe(ctx, text)
	if err != nil {
		return nil, &StepError{Step: StepExtract, Err: err}
	}
	originalLanguage := extracted.Language

	final := extracted
	// translation; the model may translate "meat" too, so it is put back
	if originalLanguage != recipe.LangRussian {
		generalized := genericMeatPositions(extracted.Ingredients)
		final, err = p.ai.TranslateRecipe(ctx, extracted)
		if err != nil {
			return nil, &StepError{Step: StepTranslate, Err: err}
		}
		restoreGenericMeat(final.Ingredients, generalized)
	}

	rec := recipe.VideoRecipe{
		ID:               p.newID(),
		Name:             final.Name,
		CookingTime:      final.CookingTime,
		Ingredients:      final.Ingredients,
		Instructions:     final.Instructions,
		OriginalLanguage: originalLanguage,
		SourceURL:        videoURL,
		Transcript:       text,
		CreatedAt:        p.now(),
	}
	// save
	if err := p.store.Save(ctx, rec); err != nil {
		return nil, &StepError{Step: StepSave, Err: err}
	}

	common.LogInfo("Recipe extracted",
		zap.String("video_id", id),
		zap.String("recipe_id", rec.ID),
		zap.String("original_language", originalLanguage),
		zap.Int("ingredients", len(rec.Ingredients)),
	)
	return &rec, nil
}

// genericMeatPositions lists the ingredient indices that already read
// recipe.GenericMeat.
func genericMeatPositions(ingredients []string) []int {
	var out []int
	for i, ing := range ingredients {
		if ing == recipe.GenericMeat {
			out = append(out, i)
		}
	}
	return out
}

// restoreGenericMeat puts recipe.GenericMeat back at positions the model
// translated. Indices past the translated list are ignored.
func restoreGenericMeat(ingredients []string, positions []int) {
	for _, i := range positions {
		if i < len(ingredients) {
			ingredients[i] = recipe.GenericMeat
		}
	}
}
