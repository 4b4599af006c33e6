package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractContext(t *testing.T) {
	t.Run("short text is wrapped whole", func(t *testing.T) {
		assert.Equal(t, "...Pay [salary] yearly...", ExtractContext("  Pay [salary] yearly  ", "salary"))
	})

	t.Run("window is clamped to 100 characters per side", func(t *testing.T) {
		text := strings.Repeat("a", 150) + "TOKEN" + strings.Repeat("b", 150)
		got := ExtractContext(text, "TOKEN")
		want := "..." + strings.Repeat("a", 100) + "TOKEN" + strings.Repeat("b", 100) + "..."
		assert.Equal(t, want, got)
	})

	t.Run("multibyte text is cut on characters", func(t *testing.T) {
		text := strings.Repeat("é", 120) + "[X]"
		got := ExtractContext(text, "[X]")
		assert.Equal(t, "..."+strings.Repeat("é", 100)+"[X]...", got)
	})

	t.Run("missing token yields empty", func(t *testing.T) {
		assert.Empty(t, ExtractContext("nothing here", "Field_0"))
		assert.Empty(t, ExtractContext("nothing here", ""))
	})
}
