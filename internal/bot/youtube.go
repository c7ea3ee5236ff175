package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-bot/internal/core/callback"
	"recipe-bot/internal/core/conversation"
	"recipe-bot/internal/core/extraction"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/core/transcript"
	"recipe-bot/internal/infrastructure/storage"
	"recipe-bot/internal/pkg/common"
)

// maxListed caps how many recipes one list or search reply shows.
const maxListed = 20

// Extractor is satisfied by *extraction.Pipeline.
type Extractor interface {
	Run(ctx context.Context, input string) (*recipe.VideoRecipe, error)
}

// YouTubeHandler serves the extraction profile. It keeps no per-user state.
type YouTubeHandler struct {
	pipeline Extractor
	store    storage.Store[recipe.VideoRecipe]
	out      *responder
}

func NewYouTubeHandler(sender Sender, pipeline Extractor, store storage.Store[recipe.VideoRecipe]) *YouTubeHandler {
	return &YouTubeHandler{pipeline: pipeline, store: store, out: &responder{api: sender}}
}

func (h *YouTubeHandler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		args := strings.TrimSpace(msg.CommandArguments())
		switch msg.Command() {
		case "start", "help":
			h.out.text(chatID, msgYouTubeHelp)
			return nil
		case "recipe":
			if args == "" {
				h.out.text(chatID, msgYouTubeRecipeUsage)
				return nil
			}
			return h.extract(ctx, chatID, args)
		case "search":
			if args == "" {
				h.out.text(chatID, msgSearchUsage)
				return nil
			}
			return h.search(ctx, chatID, args)
		case "list":
			return h.list(ctx, chatID)
		default:
			h.out.text(chatID, msgUnknownCommand)
			return nil
		}
	}

	query := strings.TrimSpace(msg.Text)
	if query == "" {
		h.out.text(chatID, msgYouTubeHelp)
		return nil
	}
	return h.lookup(ctx, chatID, query)
}

func (h *YouTubeHandler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	h.out.ack(cq)
	if cq.Message == nil {
		return nil
	}

	data := callback.Parse(cq.Data)
	if data.Kind != callback.View {
		common.LogDebug("Ignoring callback", zap.String("kind", data.Kind.String()))
		return nil
	}

	r, ok, err := h.store.Get(ctx, data.Arg)
	if err != nil {
		return err
	}
	if !ok {
		h.out.text(cq.Message.Chat.ID, msgRecipeMissing)
		return nil
	}
	h.out.text(cq.Message.Chat.ID, extraction.RenderCard(r))
	return nil
}

func (h *YouTubeHandler) extract(ctx context.Context, chatID int64, input string) error {
	if _, err := extraction.ParseVideoID(input); err != nil {
		h.out.text(chatID, msgInvalidURL)
		return nil
	}
	h.out.text(chatID, msgProcessing)

	r, err := h.pipeline.Run(ctx, input)
	if err != nil {
		msg, handled := describeFailure(err)
		if !handled {
			return err
		}
		common.LogWarn("Extraction failed",
			zap.String("step", string(extraction.FailedStep(err))),
			zap.String("code", common.CodeOf(err)),
			zap.Error(err),
		)
		h.out.text(chatID, msg)
		return nil
	}

	h.out.replies(chatID, cardReplies(*r))
	return nil
}

// describeFailure maps a pipeline error to a user message. Store failures
// and anything unexpected are left to the caller.
func describeFailure(err error) (string, bool) {
	switch extraction.FailedStep(err) {
	case extraction.StepParseURL:
		return msgInvalidURL, true
	case extraction.StepTranscript:
		var te *transcript.Error
		if errors.Is(err, extraction.ErrTranscriptTooShort) || (errors.As(err, &te) && te.Unavailable()) {
			return msgTranscriptMissing, true
		}
		return msgTranscriptFailed, true
	case extraction.StepExtract, extraction.StepTranslate:
		switch common.CodeOf(err) {
		case common.ErrCodeAIService, common.ErrCodeAIUnauthorized, common.ErrCodeAIInsufficientFunds:
			return msgAIUnavailable, true
		}
		return msgProcessingFailed, true
	default:
		return "", false
	}
}

// lookup renders the recipe whose id is query, or else the search results
// for query.
func (h *YouTubeHandler) lookup(ctx context.Context, chatID int64, query string) error {
	r, ok, err := h.store.Get(ctx, query)
	if err != nil {
		return err
	}
	if ok {
		h.out.text(chatID, extraction.RenderCard(r))
		return nil
	}
	return h.search(ctx, chatID, query)
}

func (h *YouTubeHandler) search(ctx context.Context, chatID int64, query string) error {
	found, err := h.store.Search(ctx, query, true)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		h.out.text(chatID, msgNoResults)
		return nil
	}
	if len(found) == 1 {
		h.out.replies(chatID, cardReplies(found[0]))
		return nil
	}
	h.sendList(chatID, fmt.Sprintf(msgSearchResults, len(found)), found)
	return nil
}

func (h *YouTubeHandler) list(ctx context.Context, chatID int64) error {
	all, err := h.store.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		h.out.text(chatID, msgListEmpty)
		return nil
	}
	h.sendList(chatID, msgListHeader, all)
	return nil
}

func cardReplies(r recipe.VideoRecipe) []conversation.Reply {
	return []conversation.Reply{{Text: extraction.RenderCard(r)}}
}

func (h *YouTubeHandler) sendList(chatID int64, header string, recipes []recipe.VideoRecipe) {
	if len(recipes) > maxListed {
		recipes = recipes[:maxListed]
	}
	rows := make([][]conversation.Button, len(recipes))
	for i, r := range recipes {
		rows[i] = []conversation.Button{{Text: common.Truncate(r.Name, 60), Data: callback.ViewData(r.ID)}}
	}
	h.out.reply(chatID, conversation.Reply{Text: extraction.RenderList(header, recipes), Keyboard: rows})
}
