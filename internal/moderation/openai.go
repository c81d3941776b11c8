package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"zenith-forums/internal/config"
	"zenith-forums/internal/models"
)

type gptVerdict struct {
	IsFlagged       bool    `json:"isFlagged"`
	FlagReason      string  `json:"flagReason"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

const promptTemplate = `You are an AI moderation assistant for an online forum.
Decide whether the post below violates the community guidelines.

Community guidelines:
%s

Post content:
%s

Respond with a JSON object only, with this structure:
{
    "isFlagged": true or false,
    "flagReason": "short reason when flagged, empty otherwise",
    "confidenceScore": number between 0 and 1
}`

// OpenAIModerator asks a chat model for a verdict and falls back to the
// keyword moderator when the call or its output fails.
type OpenAIModerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    Moderator
	logger      *zap.Logger
}

func NewOpenAIModerator(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIModerator {
	return newOpenAIModerator(openai.NewClient(cfg.APIKey), cfg, logger)
}

func newOpenAIModerator(client *openai.Client, cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIModerator {
	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultOpenAIMaxTokens
	}
	return &OpenAIModerator{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		fallback:    NewKeywordModerator(),
		logger:      logger,
	}
}

func (m *OpenAIModerator) Name() string { return "openai:" + m.model }

func (m *OpenAIModerator) Moderate(ctx context.Context, input models.ModerationInput) (models.ModerationResult, error) {
	if err := validate(input); err != nil {
		return models.ModerationResult{}, err
	}

	resp, err := m.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: m.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(promptTemplate, input.CommunityGuidelines, input.PostContent),
				},
			},
			MaxTokens:   m.maxTokens,
			Temperature: float32(m.temperature),
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		if ctx.Err() != nil {
			return models.ModerationResult{}, ctx.Err()
		}
		m.logger.Error("Failed to get moderation verdict", zap.Error(err))
		return m.fallback.Moderate(ctx, input)
	}

	if len(resp.Choices) == 0 {
		m.logger.Error("Moderation response had no choices")
		return m.fallback.Moderate(ctx, input)
	}

	response := strings.TrimSpace(resp.Choices[0].Message.Content)
	response = strings.TrimSuffix(strings.TrimPrefix(response, "```json"), "```")

	var verdict gptVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &verdict); err != nil {
		m.logger.Error("Failed to parse moderation verdict",
			zap.Error(err),
			zap.String("response", response))
		return m.fallback.Moderate(ctx, input)
	}

	result := models.ModerationResult{
		IsFlagged:       verdict.IsFlagged,
		ConfidenceScore: clamp(verdict.ConfidenceScore),
	}
	if verdict.IsFlagged {
		result.FlagReason = verdict.FlagReason
	}
	return result, nil
}
