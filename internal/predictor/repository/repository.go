package repository

import (
	"context"
	"errors"
	"net"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
)

// AIRepository is the gateway to the external vision model. The reply is
// free-form text: untrusted, possibly embedding JSON, possibly not.
type AIRepository interface {
	AnalyzeChart(ctx context.Context, prompt string, image *dto.EncodedImage) (string, error)
}

// classifyGatewayErr tags a transport-level failure so callers can tell a
// timeout from a remote failure.
func classifyGatewayErr(err error, message string) *dto.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dto.WrapError(dto.ErrGatewayTimeout, "model gateway timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return dto.WrapError(dto.ErrGatewayTimeout, "model gateway timed out", err)
	}
	return dto.WrapError(dto.ErrGatewayError, message, err)
}
