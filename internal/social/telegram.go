package social

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Poster publishes an image with a caption.
type Poster interface {
	PostPhoto(ctx context.Context, image []byte, caption string) (messageID int, err error)
	ChatID() int64
}

// TelegramPoster posts to one Telegram chat or channel.
type TelegramPoster struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramPoster authenticates the bot. An empty endpoint uses the
// public Bot API.
func NewTelegramPoster(token string, chatID int64, endpoint string, client *http.Client) (*TelegramPoster, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramPoster{bot: bot, chatID: chatID}, nil
}

// ChatID returns the destination chat.
func (t *TelegramPoster) ChatID() int64 {
	return t.chatID
}

// PostPhoto uploads image as a photo message.
func (t *TelegramPoster) PostPhoto(ctx context.Context, image []byte, caption string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{Name: "predictions.png", Bytes: image})
	photo.Caption = caption

	msg, err := t.bot.Send(photo)
	if err != nil {
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}
	return msg.MessageID, nil
}
