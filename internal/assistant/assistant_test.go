package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringArrayBare(t *testing.T) {
	items, err := parseStringArray(`["algebra", "exam prep"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"algebra", "exam prep"}, items)
}

func TestParseStringArrayFenced(t *testing.T) {
	out := "```json\n[\"machine learning\", \"statistics\"]\n```"
	items, err := parseStringArray(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"machine learning", "statistics"}, items)
}

func TestParseStringArrayWithSurroundingText(t *testing.T) {
	out := "Here are the tags:\n[\"biology\"]\nHope that helps!"
	items, err := parseStringArray(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"biology"}, items)
}

func TestParseStringArrayNoArray(t *testing.T) {
	_, err := parseStringArray("I could not determine any interests.")
	assert.Error(t, err)
}
