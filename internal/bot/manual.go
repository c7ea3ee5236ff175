package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-bot/internal/core/callback"
	"recipe-bot/internal/core/conversation"
	"recipe-bot/internal/core/recipe"
	"recipe-bot/internal/pkg/common"
)

// ManualHandler serves the manual-entry profile.
type ManualHandler struct {
	machine *conversation.Machine
	out     *responder
}

func NewManualHandler(sender Sender, machine *conversation.Machine) *ManualHandler {
	return &ManualHandler{machine: machine, out: &responder{api: sender}}
}

func (h *ManualHandler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	var (
		replies []conversation.Reply
		err     error
	)

	switch {
	case msg.IsCommand():
		common.LogDebug("Command received", zap.Int64("user_id", userID), zap.String("command", msg.Command()))
		switch msg.Command() {
		case "start":
			h.out.text(chatID, msgManualWelcome)
			return nil
		case "help":
			h.out.text(chatID, msgManualHelp)
			return nil
		case "myrecipes":
			replies, err = h.machine.ListRecipes(ctx, userID)
		case "recipe":
			id := strings.TrimSpace(msg.CommandArguments())
			if id == "" {
				h.out.text(chatID, msgManualRecipeUsage)
				return nil
			}
			replies, err = h.machine.ViewRecipe(ctx, userID, id)
		case "cancel":
			replies, err = h.machine.HandleCancel(ctx, userID)
		case "skip":
			replies, err = h.machine.HandleSkip(ctx, userID)
		default:
			h.out.text(chatID, msgUnknownCommand)
			return nil
		}
	case len(msg.Photo) > 0:
		replies, err = h.machine.HandlePhoto(ctx, userID, largestPhoto(msg.Photo))
	case msg.Text != "":
		replies, err = h.machine.HandleText(ctx, userID, msg.Text)
	default:
		h.out.text(chatID, msgUnsupported)
		return nil
	}

	if err != nil {
		return err
	}
	h.out.replies(chatID, replies)
	return nil
}

func (h *ManualHandler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	h.out.ack(cq)
	if cq.Message == nil {
		return nil
	}
	chatID := cq.Message.Chat.ID
	userID := cq.From.ID

	data := callback.Parse(cq.Data)
	common.LogDebug("Callback received", zap.Int64("user_id", userID), zap.String("kind", data.Kind.String()))

	var (
		replies []conversation.Reply
		err     error
	)
	switch data.Kind {
	case callback.Category:
		replies, err = h.machine.SelectCategory(ctx, userID, data.Arg)
	case callback.View:
		replies, err = h.machine.ViewRecipe(ctx, userID, data.Arg)
	case callback.Delete:
		replies, err = h.machine.RequestDelete(ctx, userID, data.Arg)
	case callback.ConfirmYes:
		replies, err = h.machine.ConfirmDelete(ctx, userID)
	case callback.ConfirmNo:
		replies, err = h.machine.DeclineDelete(ctx, userID)
	default:
		common.LogDebug("Ignoring unknown callback", zap.String("data", cq.Data))
		return nil
	}

	if err != nil {
		return err
	}
	h.out.replies(chatID, replies)
	return nil
}

// largestPhoto picks the highest-resolution size Telegram offered.
func largestPhoto(sizes []tgbotapi.PhotoSize) recipe.Photo {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return recipe.Photo{FileID: best.FileID, Width: best.Width, Height: best.Height}
}
