package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/generation"
	"github.com/Moktur/N-LanguagesAI/internal/redact"
	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// contentGenerator is the part of the genai client the translator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Translator implements generation.Translator with the Gemini API.
type Translator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	prompt     *template.Template
	maxRetries uint64
	retryDelay time.Duration
}

var _ generation.Translator = (*Translator)(nil)

// NewTranslator creates a Translator from cfg. The API key and model name
// are required.
func NewTranslator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Translator, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newTranslator(logger, client.Models, cfg)
}

func newTranslator(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*Translator, error) {
	prompt, err := loadTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	maxRetries := uint64(defaultMaxRetries)
	if cfg.MaxRetries >= 0 {
		maxRetries = uint64(cfg.MaxRetries)
	}
	delay := defaultRetryDelay
	if cfg.RetryDelaySeconds > 0 {
		delay = time.Duration(cfg.RetryDelaySeconds) * time.Second
	}

	return &Translator{
		logger:     logger.With("component", "gemini_translator", "model", cfg.ModelName),
		models:     models,
		model:      cfg.ModelName,
		prompt:     prompt,
		maxRetries: maxRetries,
		retryDelay: delay,
	}, nil
}

// Translate implements generation.Translator.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", generation.ErrEmptyText
	}

	prompt, err := renderPrompt(t.prompt, promptData{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
	if err != nil {
		return "", err
	}

	backoff := retry.WithMaxRetries(t.maxRetries,
		retry.WithJitterPercent(25, retry.NewExponential(t.retryDelay)))

	var result string
	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		out, err := t.call(ctx, prompt)
		if err == nil {
			result = out
			return nil
		}
		if errors.Is(err, generation.ErrTransientFailure) {
			t.logger.WarnContext(ctx, "gemini call failed, retrying",
				"attempt", attempt,
				"error", redact.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		t.logger.ErrorContext(ctx, "translation failed",
			"attempts", attempt,
			"target_lang", targetLang,
			"error", redact.Error(err))
		return "", err
	}

	t.logger.DebugContext(ctx, "translation succeeded",
		"attempts", attempt,
		"target_lang", targetLang)
	return result, nil
}

// call makes one API request. API errors are reported as transient; empty,
// blocked or malformed responses are permanent.
func (t *Translator) call(ctx context.Context, prompt string) (string, error) {
	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", generation.ErrTranslationFailed, ctxErr)
		}
		return "", fmt.Errorf("%w: %w", generation.ErrTransientFailure, err)
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("%w: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, resp.Candidates[0].FinishReason)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return parseResponse(sb.String())
}

// parseResponse extracts the translation from the model output. Output that
// is not JSON is accepted as the bare translation.
func parseResponse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed ResponseSchema
	text := raw
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return "", fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
		}
		text = parsed.Translation
	}

	text = generation.Clean(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty translation", generation.ErrInvalidResponse)
	}
	return text, nil
}
