package moderation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const geminiReason = "Contains potentially offensive content"

const moderationPrompt = `You are a content moderator for a student study platform.
Classify the following message as CLEAN or FLAGGED. A message is FLAGGED if it
contains spam, scams, hate speech, threats of violence, harassment, or abuse.
Respond with exactly one word: CLEAN or FLAGGED.

Message: %s`

// GeminiModerator asks a generative model to classify text. Any failure
// to reach a verdict is returned as an error so callers can fail closed.
type GeminiModerator struct {
	client *genai.Client
	model  string
}

func NewGeminiModerator(ctx context.Context, apiKey, model string) (*GeminiModerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiModerator{client: client, model: model}, nil
}

func (m *GeminiModerator) Moderate(ctx context.Context, text string) (Verdict, error) {
	prompt := fmt.Sprintf(moderationPrompt, text)
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation request: %w", err)
	}

	answer := strings.ToUpper(strings.TrimSpace(resp.Text()))
	switch {
	case strings.HasPrefix(answer, "CLEAN"):
		return Verdict{Clean: true}, nil
	case strings.HasPrefix(answer, "FLAGGED"):
		return Verdict{Clean: false, Reason: geminiReason}, nil
	default:
		return Verdict{}, fmt.Errorf("moderation verdict unrecognized: %q", answer)
	}
}
