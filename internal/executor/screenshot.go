package executor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Default size the captured frame is fitted into before it reaches the model.
// Matches the render size GUI grounding models are trained on.
const (
	DefaultFrameWidth  = 1920
	DefaultFrameHeight = 1080
)

// processFrame decodes a captured PNG and downscales it to fit within
// maxWidth x maxHeight, preserving aspect ratio. Both the raw and processed
// sizes are reported so coordinate resolution can correct for the resize.
func processFrame(data []byte, maxWidth, maxHeight int) (*Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	bounds := img.Bounds()
	rawWidth := bounds.Dx()
	rawHeight := bounds.Dy()

	if rawWidth <= maxWidth && rawHeight <= maxHeight {
		return &Screenshot{
			PNG:       data,
			RawWidth:  rawWidth,
			RawHeight: rawHeight,
			Width:     rawWidth,
			Height:    rawHeight,
		}, nil
	}

	scale := float64(maxWidth) / float64(rawWidth)
	if s := float64(maxHeight) / float64(rawHeight); s < scale {
		scale = s
	}
	width := int(float64(rawWidth) * scale)
	height := int(float64(rawHeight) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}

	return &Screenshot{
		PNG:       buf.Bytes(),
		RawWidth:  rawWidth,
		RawHeight: rawHeight,
		Width:     width,
		Height:    height,
	}, nil
}
