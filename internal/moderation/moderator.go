// Package moderation checks post content against community guidelines.
package moderation

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"zenith-forums/internal/config"
	"zenith-forums/internal/models"
)

var (
	ErrEmptyContent    = errors.New("post content cannot be empty")
	ErrEmptyGuidelines = errors.New("community guidelines cannot be empty")
)

// Moderator classifies a post against a set of guidelines.
type Moderator interface {
	Moderate(ctx context.Context, input models.ModerationInput) (models.ModerationResult, error)
	Name() string
}

// New returns the OpenAI moderator when an API key is configured and the
// keyword moderator otherwise.
func New(cfg config.OpenAIConfig, logger *zap.Logger) Moderator {
	if cfg.APIKey == "" {
		logger.Info("OpenAI API key not set, using keyword moderation")
		return NewKeywordModerator()
	}
	return NewOpenAIModerator(cfg, logger)
}

func validate(input models.ModerationInput) error {
	if strings.TrimSpace(input.PostContent) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(input.CommunityGuidelines) == "" {
		return ErrEmptyGuidelines
	}
	return nil
}

func clamp(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
