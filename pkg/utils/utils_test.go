package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "two-sum-ii", GenerateSlug("  Two Sum II! "))
	assert.Len(t, GenerateSlug("!!!"), 8)
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"two-sum": true}
	s := UniqueSlug("Two Sum", func(c string) bool { return taken[c] })
	assert.True(t, strings.HasPrefix(s, "two-sum-"))
	assert.Len(t, s, len("two-sum-")+6)

	assert.Equal(t, "fresh", UniqueSlug("Fresh", func(string) bool { return false }))
}

func TestSanitizeSearchQuery(t *testing.T) {
	assert.Equal(t, `%100\% sure\_thing%`, SanitizeSearchQuery(" 100% SURE_thing "))
	assert.Len(t, SanitizeSearchQuery(strings.Repeat("a", 500)), 102)
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("alice_99"))
	assert.False(t, ValidateUsername("al"))
	assert.False(t, ValidateUsername("alice smith"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))

	// "я" is two bytes; a cut at 4096 would land inside one.
	out := TruncateString("a"+strings.Repeat("я", 3000), 4096)
	assert.True(t, utf8.ValidString(out))
	assert.Len(t, out, 4095)

	q := SanitizeSearchQuery("a" + strings.Repeat("ж", 100))
	assert.True(t, utf8.ValidString(q))
	assert.Len(t, q, 99+2)
}
