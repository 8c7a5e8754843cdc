// Package telegram delivers new-title notifications to a Telegram chat via
// the Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v4"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

const (
	tokenKey  = "telegram.token"
	chatIDKey = "telegram.chat_id"
	apiURLKey = "telegram.api_url"

	sendTimeout = 15 * time.Second
)

type Notifier struct {
	bot    *tele.Bot
	chatID tele.ChatID
	log    zerolog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds a bot client from telegram.token and telegram.chat_id.
// Both are required; telegram.api_url overrides the Bot API endpoint, which
// tests use to point at a local server. The bot is constructed offline, so
// a bad token surfaces on the first Send rather than at wiring time.
func NewNotifier(cfg *viper.Viper, log zerolog.Logger) (*Notifier, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	var errs []error
	token := cfg.GetString(tokenKey)
	if token == "" {
		errs = append(errs, fmt.Errorf("%s is required", tokenKey))
	}
	chatID := cfg.GetInt64(chatIDKey)
	if chatID == 0 {
		errs = append(errs, fmt.Errorf("%s is required", chatIDKey))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		URL:     cfg.GetString(apiURLKey),
		Offline: true,
		Client:  &http.Client{Timeout: sendTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: tele.ChatID(chatID), log: log}, nil
}

func (n *Notifier) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return deliveryErr("send telegram message", err)
	}

	msg, err := n.bot.Send(n.chatID, message, &tele.SendOptions{
		DisableWebPagePreview: true,
	})
	if err != nil {
		return deliveryErr("send telegram message", err)
	}

	n.log.Debug().Int("message_id", msg.ID).Msg("telegram message delivered")
	return nil
}

func deliveryErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrDelivery, err))
}
