package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	assert.Equal(t, "a AND b", JoinWithAnd([]string{"a", "b"}))
	assert.Equal(t, "(a OR b)", "("+JoinWithOr([]string{"a", "b"})+")")
	assert.Equal(t, "", JoinWithAnd(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
}

func TestSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "generics"}, SearchTerms("  go   generics "))
	assert.Empty(t, SearchTerms("   "))
}
