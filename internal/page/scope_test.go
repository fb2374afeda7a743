package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeAllows(t *testing.T) {
	scope, err := NewScope([]string{"https://learn.astanait.edu.kz/*"})
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://learn.astanait.edu.kz/courses/course-v1:AITU+CS101/courseware/quiz", true},
		{"https://LEARN.astanait.edu.kz/courses/x", true},
		{"https://learn.astanait.edu.kz/dashboard?tab=1", true},
		{"http://learn.astanait.edu.kz/courses/x", false},
		{"https://astanait.edu.kz/courses/x", false},
		{"https://learn.astanait.edu.kz.evil.example/courses/x", false},
		{"file:///home/user/quiz.html", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, scope.Allows(tt.url))
		})
	}
}

func TestScopeWildcards(t *testing.T) {
	scope, err := NewScope([]string{"*://*.example.edu/courses/*/quiz"})
	require.NoError(t, err)

	assert.True(t, scope.Allows("http://lms.example.edu/courses/cs101/quiz"))
	assert.True(t, scope.Allows("https://lms.example.edu/courses/cs101/unit/2/quiz"))
	assert.False(t, scope.Allows("ftp://lms.example.edu/courses/cs101/quiz"))
	assert.False(t, scope.Allows("https://lms.example.edu/courses/cs101/grades"))
}

func TestEmptyScopeAllowsAll(t *testing.T) {
	scope, err := NewScope([]string{"", "  "})
	require.NoError(t, err)
	require.Len(t, scope.Rules(), 1)
	assert.Equal(t, AllURLs, scope.Rules()[0].String())

	assert.True(t, scope.Allows("https://anything.example/quiz/1"))
	assert.False(t, scope.Allows(""))
}

func TestScopeCheck(t *testing.T) {
	scope, err := NewScope([]string{"https://learn.astanait.edu.kz/*"})
	require.NoError(t, err)

	assert.NoError(t, scope.Check("https://learn.astanait.edu.kz/courses/x"))
	assert.ErrorIs(t, scope.Check("https://example.com/x"), ErrOutOfScope)
	assert.ErrorIs(t, scope.Check(""), ErrOutOfScope)
}

func TestParseRuleErrors(t *testing.T) {
	for _, p := range []string{"learn.astanait.edu.kz/*", "https://", "https:///path", "https://[/x"} {
		_, err := ParseRule(p)
		assert.Error(t, err, p)
	}
}
