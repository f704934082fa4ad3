package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"signal-brain/config"
	"signal-brain/internal/contract"
	"signal-brain/internal/dto"
	"signal-brain/pkg/httpclient"
	"signal-brain/pkg/logger"

	"golang.org/x/time/rate"
)

// discordNotifier posts rendered alerts to a Discord webhook.
type discordNotifier struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient httpclient.HTTPClient
	limiter    *rate.Limiter
}

func NewDiscordNotifier(cfg *config.Config, log *logger.Logger) contract.Notifier {
	secondsPerRequest := time.Minute / time.Duration(cfg.Discord.MaxRequestPerMinute)

	return &discordNotifier{
		cfg:        cfg,
		log:        log,
		httpClient: httpclient.New(cfg.Discord.WebhookURL, cfg.Discord.Timeout, ""),
		limiter:    rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

type discordMessage struct {
	Content string `json:"content"`
}

func (n *discordNotifier) Send(ctx context.Context, payload dto.AlertPayload) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for discord rate limit: %w", err)
	}

	resp, err := n.httpClient.Post(ctx, "", discordMessage{Content: renderText(payload)}, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to post discord alert: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	n.log.DebugContext(ctx, "Discord alert sent")
	return nil
}

func renderText(payload dto.AlertPayload) string {
	sb := strings.Builder{}
	sb.WriteString("**" + payload.Title + "**\n\n")
	if payload.SupportStructure != "" {
		sb.WriteString("```\n" + payload.SupportStructure + "\n```\n")
	}
	sb.WriteString(payload.CrossAssetLine + "\n\n")
	if payload.Thinking != "" {
		sb.WriteString(payload.Thinking + "\n\n")
	}
	sb.WriteString(payload.TradeBlock)
	return sb.String()
}
