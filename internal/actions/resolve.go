package actions

import (
	"fmt"
	"math"
	"strings"
)

// positionHints carries the tags a model may attach to a position to declare
// which coordinate convention it used.
type positionHints struct {
	Mode           string // "absolute" | "normalized" | "relative" | ""
	PositionSource string
	Source         string
	IsAbsolute     bool
}

func hintsFrom(item map[string]any) positionHints {
	return positionHints{
		Mode:           strings.ToLower(stringField(item, "position_mode")),
		PositionSource: strings.ToLower(stringField(item, "position_source")),
		Source:         strings.ToLower(stringField(item, "source")),
		IsAbsolute:     truthy(item["is_absolute"]),
	}
}

// positionIsAbsolute decides whether a coordinate pair is screen pixels or a
// normalized fraction. Precedence: explicit flag or mode, then source tags,
// then an explicit normalized/relative mode overrides everything, and finally
// an out-of-range value is inferred to be pixels from an untagged model.
func positionIsAbsolute(h positionHints, x, y float64) bool {
	abs := h.IsAbsolute || h.Mode == "absolute"
	if h.PositionSource == "absolute" || h.Source == "absolute" {
		abs = true
	}
	if h.Mode == "normalized" || h.Mode == "relative" {
		abs = false
	}
	if !abs && (x < 0 || x > 1 || y < 0 || y > 1) {
		abs = true
	}
	return abs
}

// resolvePosition maps a model-emitted position to an absolute screen pixel
// inside the viewport. The action name is only used for error messages.
func resolvePosition(action string, pos any, hints positionHints, vp Viewport) (Point, error) {
	if pos == nil {
		return Point{}, fmt.Errorf("%w: action %s requires a position but none was provided", ErrInvalidPosition, action)
	}

	pair, ok := pos.([]any)
	if !ok || len(pair) != 2 {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	x, okX := asFloat(pair[0])
	y, okY := asFloat(pair[1])
	if !okX || !okY {
		return Point{}, fmt.Errorf("%w: position values must be numeric: %v", ErrInvalidPosition, pos)
	}

	width := vp.BBox.Width()
	height := vp.BBox.Height()
	if width <= 0 || height <= 0 {
		return Point{}, fmt.Errorf("%w: %+v", ErrInvalidViewport, vp.BBox)
	}

	if positionIsAbsolute(hints, x, y) {
		xPx := int(math.Round(x))
		yPx := int(math.Round(y))
		// Pixels are in image space; rescale when the model saw a resized image.
		if vp.ImageWidth > 0 && vp.ImageHeight > 0 {
			xPx = int(math.Round(float64(xPx) * float64(width) / float64(vp.ImageWidth)))
			yPx = int(math.Round(float64(yPx) * float64(height) / float64(vp.ImageHeight)))
		}
		return Point{X: xPx + vp.BBox.X0, Y: yPx + vp.BBox.Y0}, nil
	}

	xFrac := clampFloat(x, 0, 1)
	yFrac := clampFloat(y, 0, 1)

	var xPx, yPx int
	if vp.ImageWidth > 0 && vp.ImageHeight > 0 {
		scaleX := float64(width) / float64(vp.ImageWidth)
		scaleY := float64(height) / float64(vp.ImageHeight)
		xPx = int(math.Round(xFrac * float64(vp.ImageWidth) * scaleX))
		yPx = int(math.Round(yFrac * float64(vp.ImageHeight) * scaleY))
	} else {
		xPx = int(math.Round(xFrac * float64(width)))
		yPx = int(math.Round(yFrac * float64(height)))
	}

	// Keep the point strictly inside the viewport.
	xPx = clampInt(xPx, 0, width-1)
	yPx = clampInt(yPx, 0, height-1)

	return Point{X: xPx + vp.BBox.X0, Y: yPx + vp.BBox.Y0}, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// truthy mirrors Python truthiness for the is_absolute flag: models emit it
// as a bool, a number, or occasionally a string.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}
