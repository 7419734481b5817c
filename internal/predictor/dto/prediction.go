package dto

import "encoding/base64"

// PredictionRequest carries one chart screenshot and its trade parameters
// through the prediction pipeline. It is transient: created per call,
// discarded after the response.
type PredictionRequest struct {
	ImageBytes      []byte
	MimeType        string
	Asset           string
	DurationSeconds int
}

// EncodedImage is a transport-ready image payload produced by the normalizer.
type EncodedImage struct {
	Data     []byte
	MimeType string
}

// Base64 returns the payload encoded for inline transport to the model API.
func (e *EncodedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Data)
}

// PredictionResponse is the canonical output contract. Confidence and Reason
// are pointers so that 0 and "" survive serialization on success while both
// stay absent on failure.
type PredictionResponse struct {
	OK              bool    `json:"ok"`
	Signal          string  `json:"signal,omitempty"`
	Confidence      *int    `json:"confidence,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	Asset           string  `json:"asset,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	Error           string  `json:"error,omitempty"`
	Raw             string  `json:"raw,omitempty"`
}
