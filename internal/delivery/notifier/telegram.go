package notifier

import (
	"context"
	"fmt"
	"strings"

	"signal-brain/config"
	"signal-brain/internal/contract"
	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"

	"gopkg.in/telebot.v3"
)

// telegramNotifier mirrors alerts to a Telegram chat.
type telegramNotifier struct {
	cfg *config.Config
	log *logger.Logger
	bot *telebot.Bot
}

func NewTelegramNotifier(cfg *config.Config, log *logger.Logger, bot *telebot.Bot) contract.Notifier {
	return &telegramNotifier{
		cfg: cfg,
		log: log,
		bot: bot,
	}
}

func (n *telegramNotifier) Send(ctx context.Context, payload dto.AlertPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipient := &telebot.Chat{ID: n.cfg.Telegram.ChatID}
	if _, err := n.bot.Send(recipient, renderHTML(payload), telebot.ModeHTML); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}

	n.log.DebugContext(ctx, "Telegram alert sent")
	return nil
}

func renderHTML(payload dto.AlertPayload) string {
	sb := strings.Builder{}
	sb.WriteString("<b>" + payload.Title + "</b>\n\n")
	if payload.SupportStructure != "" {
		sb.WriteString("<pre>" + payload.SupportStructure + "</pre>\n")
	}
	sb.WriteString(payload.CrossAssetLine + "\n\n")
	if payload.Thinking != "" {
		sb.WriteString("<i>" + payload.Thinking + "</i>\n\n")
	}
	sb.WriteString(payload.TradeBlock)
	return sb.String()
}
