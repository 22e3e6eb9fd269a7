package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordModeratorClean(t *testing.T) {
	m := NewKeywordModerator()

	v, err := m.Moderate(context.Background(), "anyone up for reviewing chapter 4 tonight?")
	require.NoError(t, err)
	assert.True(t, v.Clean)
	assert.Empty(t, v.Reason)
}

func TestKeywordModeratorFlagged(t *testing.T) {
	m := NewKeywordModerator()

	cases := map[string]string{
		"this is spam":                 "Contains spam or promotional content",
		"total SCAM, avoid":            "Contains spam or promotional content",
		"I hate this course":           "Contains hateful or harassing content",
		"Violence is never the answer": "Contains violent content",
		"report abuse here":            "Contains abusive content",
	}
	for text, reason := range cases {
		v, err := m.Moderate(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, v.Clean, "expected %q to be flagged", text)
		assert.Equal(t, reason, v.Reason)
	}
}

func TestKeywordModeratorSubstringMatch(t *testing.T) {
	m := NewKeywordModerator()

	// Keywords match inside larger words too.
	v, err := m.Moderate(context.Background(), "the scampi recipe was great")
	require.NoError(t, err)
	assert.False(t, v.Clean)
}
