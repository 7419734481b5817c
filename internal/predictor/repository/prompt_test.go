package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildChartAnalysisPromptDeterministic(t *testing.T) {
	first := BuildChartAnalysisPrompt("EURUSD", 90)
	second := BuildChartAnalysisPrompt("EURUSD", 90)
	assert.Equal(t, first, second)
}

func TestBuildChartAnalysisPromptContract(t *testing.T) {
	prompt := BuildChartAnalysisPrompt("EURUSD", 90)

	assert.Contains(t, prompt, "The instrument is EURUSD.")
	assert.Contains(t, prompt, "90 second horizon")
	assert.Contains(t, prompt, `"BUY" | "SELL" | "NO_SIGNAL"`)
	assert.Contains(t, prompt, "Do not output any text outside the JSON object.")
	assert.Contains(t, prompt, "educational use only")
}

func TestBuildChartAnalysisPromptUnspecifiedAsset(t *testing.T) {
	prompt := BuildChartAnalysisPrompt("", 60)

	assert.Contains(t, prompt, "The instrument is unspecified.")
	assert.NotContains(t, prompt, "The instrument is .")
}
