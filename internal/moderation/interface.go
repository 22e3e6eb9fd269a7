package moderation

import "context"

// Verdict is the result of checking a piece of text.
type Verdict struct {
	Clean  bool
	Reason string
}

// Moderator decides whether text may be delivered as written.
// An error means the decision could not be made; callers must treat
// that as a refusal, never as a pass.
type Moderator interface {
	Moderate(ctx context.Context, text string) (Verdict, error)
}
