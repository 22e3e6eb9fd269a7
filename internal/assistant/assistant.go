// Package assistant wraps the generative model behind the study features:
// interest classification from quiz answers, resource summarization, and
// study-group suggestions.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const maxSummaryInput = 3000

type Assistant struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Assistant, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Assistant{client: client, model: model}, nil
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// ClassifyInterests turns free-form quiz answers into a short list of
// study interest tags.
func (a *Assistant) ClassifyInterests(ctx context.Context, answers []string) ([]string, error) {
	prompt := fmt.Sprintf(`A student answered an onboarding quiz about their study habits and goals.
Based on the answers below, produce 3 to 5 short subject/interest tags
(e.g. "machine learning", "organic chemistry", "exam prep").
Respond with ONLY a JSON array of strings, no other text.

Answers:
%s`, strings.Join(answers, "\n"))

	out, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	interests, err := parseStringArray(out)
	if err != nil {
		return nil, fmt.Errorf("parse interests: %w", err)
	}
	return interests, nil
}

// Summarize produces a short bullet-point summary of a study resource.
func (a *Assistant) Summarize(ctx context.Context, title, content string) (string, error) {
	if len(content) > maxSummaryInput {
		content = content[:maxSummaryInput]
	}
	prompt := fmt.Sprintf(`Summarize the following study resource in 3-5 concise bullet points
for students deciding whether to read it. Title: %s

%s`, title, content)

	summary, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// SuggestGroups recommends which of the given group names fit a
// student's interests, best match first.
func (a *Assistant) SuggestGroups(ctx context.Context, interests, groupNames []string) ([]string, error) {
	prompt := fmt.Sprintf(`A student is interested in: %s.
From the study groups below, pick the ones that match those interests,
ordered best match first. Respond with ONLY a JSON array of the chosen
group names, no other text.

Groups:
%s`, strings.Join(interests, ", "), strings.Join(groupNames, "\n"))

	out, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	names, err := parseStringArray(out)
	if err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	return names, nil
}

// parseStringArray extracts a JSON string array from model output,
// tolerating markdown code fences around it.
func parseStringArray(out string) ([]string, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in output: %q", out)
	}

	var items []string
	if err := json.Unmarshal([]byte(out[start:end+1]), &items); err != nil {
		return nil, err
	}
	return items, nil
}
