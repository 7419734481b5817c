package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
)

// Canonical signal values returned to callers.
const (
	SignalBuy      = "BUY"
	SignalSell     = "SELL"
	SignalNoSignal = "NO_SIGNAL"
)

// signalSynonyms maps every recognized model spelling onto the canonical
// three-value enum. The table is the single source of truth for the mapping;
// spellings not listed here coerce to NO_SIGNAL rather than failing the
// request, so an invalid enum value can never reach the caller.
var signalSynonyms = map[string]string{
	"BUY":    SignalBuy,
	"COMPRA": SignalBuy,
	"LONG":   SignalBuy,
	"CALL":   SignalBuy,

	"SELL":  SignalSell,
	"VENDA": SignalSell,
	"SHORT": SignalSell,
	"PUT":   SignalSell,

	"NO_SIGNAL":  SignalNoSignal,
	"NO SIGNAL":  SignalNoSignal,
	"NO-SIGNAL":  SignalNoSignal,
	"NOSIGNAL":   SignalNoSignal,
	"NO PATTERN": SignalNoSignal,
	"NONE":       SignalNoSignal,
	"NEUTRO":     SignalNoSignal,
	"NEUTRAL":    SignalNoSignal,
	"SEM SINAL":  SignalNoSignal,
	"HOLD":       SignalNoSignal,
	"WAIT":       SignalNoSignal,
	"FLAT":       SignalNoSignal,
}

// Field aliases accepted from the model reply, in priority order. The
// Portuguese names are the vocabulary of the original frontend.
var (
	signalKeys     = []string{"signal", "sinal"}
	confidenceKeys = []string{"confidence", "confianca", "confiança"}
	reasonKeys     = []string{"reason", "motivo", "resumo"}
)

// SignalNormalizer maps extracted payloads onto the canonical output
// contract. Every field arriving from the model gateway is adversarial input
// and is validated or defaulted, never trusted directly into the response.
type SignalNormalizer struct {
	noSignalCeiling int
	maxReasonLength int
}

// NewSignalNormalizer creates a normalizer with the given NO_SIGNAL
// confidence ceiling and reason length bound.
func NewSignalNormalizer(noSignalCeiling, maxReasonLength int) *SignalNormalizer {
	return &SignalNormalizer{
		noSignalCeiling: noSignalCeiling,
		maxReasonLength: maxReasonLength,
	}
}

// Normalize validates and clamps the extracted payload. Asset and duration
// are echoed from the caller: the model's restated values never override
// caller input. Confidence policy is strict: a missing or non-numeric
// confidence fails the request instead of silently defaulting.
func (n *SignalNormalizer) Normalize(payload map[string]interface{}, asset string, durationSeconds int) (*dto.PredictionResponse, error) {
	signal := normalizeSignal(lookupString(payload, signalKeys))

	confidence, err := coerceConfidence(lookup(payload, confidenceKeys))
	if err != nil {
		return nil, err
	}
	confidence = clamp(confidence, 0, 100)
	if signal == SignalNoSignal && confidence > n.noSignalCeiling {
		confidence = n.noSignalCeiling
	}

	reason := truncate(lookupString(payload, reasonKeys), n.maxReasonLength)

	return &dto.PredictionResponse{
		OK:              true,
		Signal:          signal,
		Confidence:      &confidence,
		Reason:          &reason,
		Asset:           asset,
		DurationSeconds: durationSeconds,
	}, nil
}

func normalizeSignal(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := signalSynonyms[key]; ok {
		return canonical
	}
	return SignalNoSignal
}

func coerceConfidence(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(math.Round(v)), nil
	case int:
		return v, nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, dto.WrapError(dto.ErrMissingConfidence, fmt.Sprintf("confidence %q is not numeric", v), err)
		}
		return int(math.Round(f)), nil
	case nil:
		return 0, dto.NewError(dto.ErrMissingConfidence, "model reply carries no confidence value")
	default:
		return 0, dto.NewError(dto.ErrMissingConfidence, fmt.Sprintf("confidence has unsupported type %T", value))
	}
}

// lookup returns the first value found under the given keys, matching
// case-insensitively as a fallback.
func lookup(payload map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			return v
		}
	}
	for _, key := range keys {
		for k, v := range payload {
			if strings.EqualFold(k, key) {
				return v
			}
		}
	}
	return nil
}

func lookupString(payload map[string]interface{}, keys []string) string {
	switch v := lookup(payload, keys).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
