package repository

import "fmt"

// BuildChartAnalysisPrompt builds the instruction sent along with every chart
// screenshot. The builder is pure and deterministic: identical inputs always
// produce identical prompt text, so the output contract stays stable across
// requests.
func BuildChartAnalysisPrompt(asset string, durationSeconds int) string {
	assetLine := "The instrument is unspecified."
	if asset != "" {
		assetLine = fmt.Sprintf("The instrument is %s.", asset)
	}

	promptTemplate := `You are a visual chart reading assistant (educational use only).
Do not promise profit or certainty, and do not give betting instructions.
%s The caller is trading on a %d second horizon.

Analyze the candlestick chart screenshot. Focus on: short-term trend, possible
continuation or reversal, volatility, visible support and resistance.

Respond with a single JSON object with exactly these fields:
{
  "signal": "BUY" | "SELL" | "NO_SIGNAL",
  "confidence": <integer 0-100>,
  "reason": "<one short sentence explaining what was seen>"
}

Rules:
- "signal" must be exactly one of BUY, SELL, NO_SIGNAL.
- If no clear pattern is visible, or the image is not a chart, answer "NO_SIGNAL" with low confidence.
- Do not output any text outside the JSON object.`

	return fmt.Sprintf(promptTemplate, assetLine, durationSeconds)
}
