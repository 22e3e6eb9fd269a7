package moderation

import (
	"context"
	"strings"
)

var defaultKeywords = map[string]string{
	"spam":     "Contains spam or promotional content",
	"scam":     "Contains spam or promotional content",
	"hate":     "Contains hateful or harassing content",
	"violence": "Contains violent content",
	"abuse":    "Contains abusive content",
}

// KeywordModerator flags text containing any of a fixed list of
// case-insensitive substrings. It never returns an error.
type KeywordModerator struct {
	keywords map[string]string
}

func NewKeywordModerator() *KeywordModerator {
	return &KeywordModerator{keywords: defaultKeywords}
}

func (m *KeywordModerator) Moderate(_ context.Context, text string) (Verdict, error) {
	lower := strings.ToLower(text)
	for kw, reason := range m.keywords {
		if strings.Contains(lower, kw) {
			return Verdict{Clean: false, Reason: reason}, nil
		}
	}
	return Verdict{Clean: true}, nil
}
