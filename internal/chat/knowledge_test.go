package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupScoresByKeyword(t *testing.T) {
	kb := NewKnowledgeBase()

	facts := kb.Lookup("when should I pit for the undercut?", 3)
	require.NotEmpty(t, facts)
	assert.Contains(t, facts[0], "undercut")
}

func TestLookupNoMatch(t *testing.T) {
	kb := NewKnowledgeBase()
	assert.Empty(t, kb.Lookup("what is the meaning of life", 3))
}

func TestLookupLimit(t *testing.T) {
	kb := NewKnowledgeBase()

	facts := kb.Lookup("pit stop strategy with soft tyre stints in qualifying", 2)
	assert.LessOrEqual(t, len(facts), 2)
}

func TestLookupDeterministic(t *testing.T) {
	kb := NewKnowledgeBase()

	a := kb.Lookup("tyre strategy and pit stops", 5)
	b := kb.Lookup("tyre strategy and pit stops", 5)
	assert.Equal(t, a, b)
}
