package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"signal-brain/config"
	"signal-brain/internal/dto"
	"signal-brain/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type NarrativeRepository interface {
	GetNarrative(ctx context.Context, result *dto.SynthesisResult) (*dto.NarrativeContext, error)
}

// narrativeRepository asks Gemini for a short research narrative around the
// current synthesis. Everything it returns is optional enrichment; callers
// treat a nil narrative as "skip", never as an error condition.
type narrativeRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewNarrativeRepository(cfg *config.Config, log *logger.Logger) (NarrativeRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &narrativeRepository{
		cfg:            cfg,
		log:            log,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *narrativeRepository) GetNarrative(ctx context.Context, result *dto.SynthesisResult) (*dto.NarrativeContext, error) {
	if !r.cfg.Gemini.Enabled || result == nil {
		return nil, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	prompt, err := r.buildPrompt(result)
	if err != nil {
		return nil, fmt.Errorf("failed to build narrative prompt: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate narrative: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty narrative response")
	}

	var narrative dto.NarrativeContext
	if err := json.Unmarshal([]byte(extractJSON(text)), &narrative); err != nil {
		r.log.WarnContext(ctx, "Failed to parse narrative response", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to parse narrative response: %w", err)
	}

	return &narrative, nil
}

func (r *narrativeRepository) buildPrompt(result *dto.SynthesisResult) (string, error) {
	stateJSON, err := json.Marshal(result.States)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString("You are a market research assistant. Given the current level structure ")
	sb.WriteString("and confluence analysis below, respond with a single JSON object with the fields ")
	sb.WriteString(`"summary", "catalyst", "risk_environment", "divergence_detected" (bool), `)
	sb.WriteString(`"divergence_detail" and "confidence" (0..1). No markdown, JSON only.`)
	sb.WriteString("\n\nLevel structure:\n")
	sb.Write(stateJSON)
	sb.WriteString(fmt.Sprintf("\n\nConfluence score: %.1f bias %s session %s volatility %.1f\n",
		result.Confluence.Score, result.Confluence.Bias, result.Context.Session, result.Context.VolatilityLevel))

	return sb.String(), nil
}

// extractJSON trims markdown code fences some models wrap around JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	return text
}
