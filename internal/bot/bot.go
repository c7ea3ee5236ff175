// Package bot connects the recipe flows to Telegram.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-bot/internal/pkg/common"
)

// Sender is the part of *tgbotapi.BotAPI used to answer updates.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// API is everything Bot needs from *tgbotapi.BotAPI.
type API interface {
	Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler processes one profile's updates.
type Handler interface {
	HandleMessage(ctx context.Context, msg *tgbotapi.Message) error
	HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error
}

// Bot long-polls Telegram and handles each update in its own goroutine,
// at most concurrency at a time.
type Bot struct {
	api         API
	handler     Handler
	out         *responder
	concurrency int
	pollTimeout int
}

func New(api API, handler Handler, concurrency, pollTimeout int) *Bot {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Bot{
		api:         api,
		handler:     handler,
		out:         &responder{api: api},
		concurrency: concurrency,
		pollTimeout: pollTimeout,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight updates.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	semaphore := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	common.LogInfo("Bot started", zap.Int("concurrency", b.concurrency))
	defer common.LogInfo("Bot stopped")

	stop := func() error {
		b.api.StopReceivingUpdates()
		wg.Wait()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return stop()
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			// every slot may be held by a slow handler
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return stop()
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-semaphore }()
				b.safeHandle(ctx, update)
			}(update)
		}
	}
}

// safeHandle dispatches one update. Handler errors and panics are logged
// and answered with a generic apology.
func (b *Bot) safeHandle(ctx context.Context, update tgbotapi.Update) {
	chatID := chatOf(update)

	defer func() {
		if r := recover(); r != nil {
			common.LogError("Panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
			b.apologize(chatID)
		}
	}()

	var err error
	switch {
	case update.Message != nil:
		if update.Message.From == nil {
			return
		}
		err = b.handler.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		if update.CallbackQuery.From == nil {
			return
		}
		err = b.handler.HandleCallback(ctx, update.CallbackQuery)
	default:
		return
	}

	if err != nil {
		common.LogError("Failed to handle update",
			zap.Int("update_id", update.UpdateID),
			zap.Int64("chat_id", chatID),
			zap.String("code", common.CodeOf(err)),
			zap.Error(err),
		)
		b.apologize(chatID)
	}
}

func (b *Bot) apologize(chatID int64) {
	if chatID == 0 {
		return
	}
	b.out.text(chatID, msgGenericError)
}

func chatOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
