package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-bot/internal/core/conversation"
	"recipe-bot/internal/pkg/common"
)

// Telegram limits, in UTF-16 code units.
const (
	maxMessageLength = 4096
	maxCaptionLength = 1024
)

// responder turns replies into Telegram requests. Send failures are logged
// and not returned; the user cannot be told either way.
type responder struct {
	api Sender
}

func (r *responder) send(c tgbotapi.Chattable) {
	if _, err := r.api.Send(c); err != nil {
		common.LogError("Failed to send message", zap.Error(err))
	}
}

func (r *responder) text(chatID int64, text string) {
	r.send(tgbotapi.NewMessage(chatID, common.TruncateUTF16(text, maxMessageLength)))
}

func (r *responder) replies(chatID int64, replies []conversation.Reply) {
	for _, reply := range replies {
		r.reply(chatID, reply)
	}
}

func (r *responder) reply(chatID int64, reply conversation.Reply) {
	markup := keyboard(reply.Keyboard)

	if reply.PhotoFileID != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(reply.PhotoFileID))
		if common.UTF16Len(reply.Text) <= maxCaptionLength {
			photo.Caption = reply.Text
			if markup != nil {
				photo.ReplyMarkup = *markup
			}
			r.send(photo)
			return
		}
		// caption too long: photo first, then the text with the buttons
		r.send(photo)
	}

	msg := tgbotapi.NewMessage(chatID, common.TruncateUTF16(reply.Text, maxMessageLength))
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	r.send(msg)
}

// ack answers a callback query so the client stops its spinner.
func (r *responder) ack(cq *tgbotapi.CallbackQuery) {
	if _, err := r.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		common.LogWarn("Failed to answer callback", zap.String("callback_id", cq.ID), zap.Error(err))
	}
}

func keyboard(rows [][]conversation.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &markup
}
