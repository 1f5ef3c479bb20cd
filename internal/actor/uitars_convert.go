package actor

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// actionItem is the intermediate schema the action decoder consumes. The
// UI-TARS adapter emits it so both model dialects meet at the same contract.
type actionItem struct {
	Action         string `json:"action"`
	Value          any    `json:"value"`
	Position       any    `json:"position"`
	PositionSource string `json:"position_source"`
	Source         string `json:"source"`
	PositionMode   string `json:"position_mode,omitempty"`
}

const (
	uiTarsSource         = "UI-TARS"
	uiTarsPositionSource = "ui-tars"
)

var uiTarsActionMap = map[string]string{
	"click":     "CLICK",
	"hover":     "HOVER",
	"press":     "PRESS",
	"type":      "INPUT",
	"scroll":    "SCROLL",
	"wait":      "STOP",
	"finished":  "STOP",
	"call_user": "STOP",
	"hotkey":    "HOTKEY",
}

var (
	uiTarsPositionRe = regexp.MustCompile(`^(click|hover|press)\(start_box='\(?(\d+),\s*(\d+)\)?'\)$`)
	uiTarsHotkeyRe   = regexp.MustCompile(`^hotkey\(key='([^']+)'\)$`)
	uiTarsTypeRe     = regexp.MustCompile(`^type\(content='([^']*)'\)$`)
	uiTarsScrollRe   = regexp.MustCompile(`^scroll\(start_box='[^']*'\s*,\s*direction='(down|up|left|right)'\)$`)
)

// ConvertAction translates one UI-TARS bracket-call line into the decoder's
// action-item JSON. With a known screenshot size, pixel coordinates are
// clamped and normalized to [0, 1] fractions; without one they stay pixels
// tagged absolute. Anything unparseable degrades to STOP so a garbled model
// reply halts the loop instead of guessing.
func ConvertAction(line string, screenshotWidth, screenshotHeight int) string {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "Action:"))

	payload := actionItem{
		PositionSource: uiTarsPositionSource,
		Source:         uiTarsSource,
	}

	if m := uiTarsPositionRe.FindStringSubmatch(line); m != nil {
		x, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		payload.Action = uiTarsActionMap[m[1]]
		payload.Position, payload.PositionMode = normalizePixel(x, y, screenshotWidth, screenshotHeight)
		return marshalItem(payload)
	}

	if m := uiTarsHotkeyRe.FindStringSubmatch(line); m != nil {
		switch key := strings.ToLower(m[1]); key {
		case "enter":
			payload.Action = "ENTER"
		case "esc":
			payload.Action = "ESC"
		default:
			payload.Action = uiTarsActionMap["hotkey"]
			payload.Value = key
		}
		return marshalItem(payload)
	}

	if m := uiTarsTypeRe.FindStringSubmatch(line); m != nil {
		payload.Action = uiTarsActionMap["type"]
		payload.Value = m[1]
		return marshalItem(payload)
	}

	if m := uiTarsScrollRe.FindStringSubmatch(line); m != nil {
		payload.Action = uiTarsActionMap["scroll"]
		payload.Value = m[1]
		return marshalItem(payload)
	}

	if base, ok := strings.CutSuffix(line, "()"); ok {
		if mapped, known := uiTarsActionMap[base]; known {
			payload.Action = mapped
			return marshalItem(payload)
		}
	}

	payload.Action = "STOP"
	return marshalItem(payload)
}

// normalizePixel converts a pixel coordinate in screenshot space to a
// normalized fraction, clamping to the valid pixel range first. An unknown
// screenshot size leaves the coordinate as raw pixels.
func normalizePixel(x, y, width, height int) (any, string) {
	if width <= 0 || height <= 0 {
		return []int{x, y}, "absolute"
	}
	cx := clamp(x, 0, width-1)
	cy := clamp(y, 0, height-1)
	return []float64{float64(cx) / float64(width), float64(cy) / float64(height)}, "normalized"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func marshalItem(item actionItem) string {
	data, err := json.Marshal(item)
	if err != nil {
		// The payload holds only strings and numbers; this cannot fire.
		return `{"action": "STOP"}`
	}
	return string(data)
}
