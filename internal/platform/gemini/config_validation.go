package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/config"
	"github.com/Moktur/N-LanguagesAI/internal/generation"
)

// validateConfig checks the settings a Translator cannot start without.
// Out-of-range retry settings only produce warnings; defaults apply.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "invalid max retries value, using default",
			"value", cfg.MaxRetries, "default", defaultMaxRetries)
	}
	if cfg.RetryDelaySeconds < 0 {
		logger.WarnContext(ctx, "invalid retry delay value, using default",
			"value", cfg.RetryDelaySeconds, "default_seconds", defaultRetryDelay.Seconds())
	}
	return nil
}
