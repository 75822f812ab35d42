package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTransitions = TransitionMap{
	"draft":     {"published", "cancelled"},
	"published": {"closed"},
	"closed":    {},
	"cancelled": {},
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"permitted edge", "draft", "published", true},
		{"second permitted edge", "draft", "cancelled", true},
		{"not permitted", "draft", "closed", false},
		{"terminal has no exits", "closed", "draft", false},
		{"unknown source", "archived", "draft", false},
		{"unknown target", "draft", "archived", false},
		{"case-insensitive source", "DRAFT", "published", true},
		{"case-insensitive target", "draft", "Published", true},
		{"whitespace tolerated", " draft ", "published", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testTransitions.CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransitionFromEmpty(t *testing.T) {
	// A first-ever transition may reach any status that is a map key
	assert.True(t, testTransitions.CanTransition("", "draft"))
	assert.True(t, testTransitions.CanTransition("", "closed"))
	assert.False(t, testTransitions.CanTransition("", "archived"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, testTransitions.IsTerminal("closed"))
	assert.True(t, testTransitions.IsTerminal("CANCELLED"))
	assert.False(t, testTransitions.IsTerminal("draft"))
	assert.False(t, testTransitions.IsTerminal("archived"))
}

func TestPermittedNext(t *testing.T) {
	next := testTransitions.PermittedNext("draft")
	assert.ElementsMatch(t, []string{"published", "cancelled"}, next)

	assert.Empty(t, testTransitions.PermittedNext("closed"))
	assert.Nil(t, testTransitions.PermittedNext("archived"))

	// Returned slice is a copy; mutating it must not corrupt the table
	next[0] = "corrupted"
	assert.ElementsMatch(t, []string{"published", "cancelled"}, testTransitions.PermittedNext("draft"))
}

func TestHasStatus(t *testing.T) {
	assert.True(t, testTransitions.HasStatus("draft"))
	assert.True(t, testTransitions.HasStatus("Draft"))
	assert.False(t, testTransitions.HasStatus("archived"))
}
