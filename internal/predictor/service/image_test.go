package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	return img
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, makeTestImage(w, h)))
	return buf.Bytes()
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, makeTestImage(w, h), nil))
	return buf.Bytes()
}

func TestImageNormalizeEmptyUpload(t *testing.T) {
	n := NewImageNormalizer(1024)

	encoded, err := n.Normalize(nil, "image/png")
	require.Error(t, err)
	assert.Nil(t, encoded)
	assert.Equal(t, dto.ErrEmptyInput, dto.KindOf(err))
}

func TestImageNormalizeGarbageBytes(t *testing.T) {
	n := NewImageNormalizer(1024)

	encoded, err := n.Normalize([]byte("this is not an image at all"), "image/png")
	require.Error(t, err)
	assert.Nil(t, encoded)
	assert.Equal(t, dto.ErrInvalidImage, dto.KindOf(err))
}

func TestImageNormalizeKeepsSmallPNG(t *testing.T) {
	n := NewImageNormalizer(1024)

	encoded, err := n.Normalize(makePNG(t, 320, 200), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", encoded.MimeType)

	img, format, err := image.Decode(bytes.NewReader(encoded.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestImageNormalizeDownscalesWide(t *testing.T) {
	n := NewImageNormalizer(1024)

	encoded, err := n.Normalize(makePNG(t, 3000, 500), "image/png")
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(encoded.Data))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	// 500 * 1024/3000 rounds to 171, preserving the aspect ratio.
	assert.Equal(t, 171, img.Bounds().Dy())
}

func TestImageNormalizeJPEGStaysJPEG(t *testing.T) {
	n := NewImageNormalizer(1024)

	encoded, err := n.Normalize(makeJPEG(t, 400, 300), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", encoded.MimeType)

	_, format, err := image.Decode(bytes.NewReader(encoded.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestEncodedImageBase64(t *testing.T) {
	encoded := &dto.EncodedImage{Data: []byte("abc"), MimeType: "image/png"}
	assert.Equal(t, "YWJj", encoded.Base64())
}
