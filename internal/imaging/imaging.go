// Package imaging processes patient photos before storage. Uploads are
// sniffed, bounded, downscaled, and normalized to JPEG, and a small square
// thumbnail is produced for roster views.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxPhotoDimension bounds the width and height of the stored photo.
	MaxPhotoDimension = 512

	// ThumbDimension is the side length of the square thumbnail.
	ThumbDimension = 96

	// MaxUploadBytes caps how much of an upload is read.
	MaxUploadBytes = 5 << 20

	jpegQuality = 85
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo holds a processed patient photo and its thumbnail, both JPEG.
type Photo struct {
	Data  []byte
	Thumb []byte
	MIME  string
}

// ProcessPhoto reads an uploaded image, validates the format by sniffing
// bytes, downscales it to MaxPhotoDimension, and re-encodes it as JPEG
// along with a center-cropped square thumbnail.
func ProcessPhoto(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("photo exceeds %d byte limit", MaxUploadBytes)
	}

	// Sniff the real MIME type, not the client-supplied header.
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported photo format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	full, err := encodeJPEG(fit(img, MaxPhotoDimension))
	if err != nil {
		return nil, err
	}
	thumb, err := encodeJPEG(squareThumb(img, ThumbDimension))
	if err != nil {
		return nil, err
	}

	return &Photo{Data: full, Thumb: thumb, MIME: "image/jpeg"}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fit downscales the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Images already within bounds pass through unchanged.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// squareThumb center-crops the image to a square and scales it to
// side x side.
func squareThumb(img image.Image, side int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	crop := bounds
	if w > h {
		off := (w - h) / 2
		crop = image.Rect(bounds.Min.X+off, bounds.Min.Y, bounds.Min.X+off+h, bounds.Max.Y)
	} else if h > w {
		off := (h - w) / 2
		crop = image.Rect(bounds.Min.X, bounds.Min.Y+off, bounds.Max.X, bounds.Min.Y+off+w)
	}

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
