package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptGlobalOverview(t *testing.T) {
	p := BuildPrompt("", DefaultOptions())
	assert.Contains(t, p, "general overview")
	assert.NotContains(t, p, "Focus specifically on")
	assert.Contains(t, p, "last 30-90 days")
	assert.Contains(t, p, "1 USD = 84 INR")
	assert.Contains(t, p, "sacnilk.com")
	assert.Contains(t, p, "web search")
}

func TestBuildPromptEmbedsFocusVerbatim(t *testing.T) {
	focus := `  "Pushpa 2" & friends  `
	p := BuildPrompt(focus, DefaultOptions())
	assert.Contains(t, p, "Focus specifically on: "+focus+".")
}

func TestBuildPromptOptions(t *testing.T) {
	p := BuildPrompt("", Options{Currency: "USD", FallbackRate: 1, WindowDays: [2]int{60, 14}})
	assert.Contains(t, p, "expressed in USD")
	assert.Contains(t, p, "1 USD = 1 USD")
	assert.Contains(t, p, "last 14-60 days")
	assert.NotContains(t, p, "web search")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, "INR", o.Currency)
	assert.Equal(t, 84.0, o.FallbackRate)
	assert.Equal(t, [2]int{90, 30}, o.WindowDays)
	assert.False(t, o.Grounded)
}
