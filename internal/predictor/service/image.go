package service

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// ImageNormalizer validates uploaded chart screenshots and produces
// transport-ready payloads. It is a pure transform: no side effects.
type ImageNormalizer struct {
	maxDimension int
}

// NewImageNormalizer creates a normalizer that caps the longer image side at
// maxDimension pixels.
func NewImageNormalizer(maxDimension int) *ImageNormalizer {
	return &ImageNormalizer{maxDimension: maxDimension}
}

// Normalize decodes the upload, downscales it when the longer side exceeds
// the configured maximum (preserving aspect ratio) and re-encodes it to a
// standard format. PNG sources stay PNG; everything else becomes JPEG.
func (n *ImageNormalizer) Normalize(data []byte, declaredMime string) (*dto.EncodedImage, error) {
	if len(data) == 0 {
		return nil, dto.NewError(dto.ErrEmptyInput, "empty image upload")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, dto.WrapError(dto.ErrInvalidImage, "upload is not a decodable image", err)
	}

	img = n.downscale(img)

	var buf bytes.Buffer
	mime := "image/jpeg"
	if format == "png" || declaredMime == "image/png" {
		mime = "image/png"
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, dto.WrapError(dto.ErrInvalidImage, "failed to re-encode image", err)
	}

	return &dto.EncodedImage{Data: buf.Bytes(), MimeType: mime}, nil
}

func (n *ImageNormalizer) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}
	if longest <= n.maxDimension {
		return img
	}

	scale := float64(n.maxDimension) / float64(longest)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
