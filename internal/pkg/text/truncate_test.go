package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	assert.Equal(t, "翻前...", Truncate("翻前加注", 2))
	assert.Equal(t, "翻前加注", Truncate("翻前加注", 4))
}
