package moderation

import (
	"context"
	"fmt"
	"strings"

	"zenith-forums/internal/models"
)

type rule struct {
	reason string
	// guideline words that make the rule applicable
	applies []string
	// content words that break it
	keywords []string
}

var defaultRules = []rule{
	{
		reason:   "Personal attacks or harassment",
		applies:  []string{"respect", "harass", "attack", "hate"},
		keywords: []string{"idiot", "stupid", "moron", "loser", "shut up", "kill yourself"},
	},
	{
		reason:   "Spam or self-promotion",
		applies:  []string{"spam", "promotion", "advertis"},
		keywords: []string{"buy now", "discount", "promo code", "click here", "free money", "limited offer"},
	},
	{
		reason:   "Promotion of illegal activity",
		applies:  []string{"illegal"},
		keywords: []string{"pirated", "cracked", "stolen", "counterfeit"},
	},
	{
		reason:   "Inappropriate language",
		applies:  []string{"language", "profanity", "offensive"},
		keywords: []string{"damn", "crap", "wtf"},
	},
}

// KeywordModerator is a local heuristic used when no language model is
// configured. It only enforces rules the supplied guidelines mention.
type KeywordModerator struct {
	rules []rule
}

func NewKeywordModerator() *KeywordModerator {
	return &KeywordModerator{rules: defaultRules}
}

func (m *KeywordModerator) Name() string { return "keyword" }

func (m *KeywordModerator) Moderate(ctx context.Context, input models.ModerationInput) (models.ModerationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ModerationResult{}, err
	}
	if err := validate(input); err != nil {
		return models.ModerationResult{}, err
	}

	content := strings.ToLower(input.PostContent)
	guidelines := strings.ToLower(input.CommunityGuidelines)

	var reasons []string
	hits := 0
	for _, r := range m.rules {
		if !containsAny(guidelines, r.applies) {
			continue
		}
		matched := false
		for _, kw := range r.keywords {
			if strings.Contains(content, kw) {
				hits++
				matched = true
			}
		}
		if matched {
			reasons = append(reasons, r.reason)
		}
	}

	if len(reasons) == 0 {
		return models.ModerationResult{IsFlagged: false, ConfidenceScore: 0.6}, nil
	}

	return models.ModerationResult{
		IsFlagged:       true,
		FlagReason:      fmt.Sprintf("%s.", strings.Join(reasons, "; ")),
		ConfidenceScore: clamp(0.5 + 0.15*float64(hits)),
	}, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
