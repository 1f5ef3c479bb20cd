package actions

import (
	"encoding/json"
	"fmt"
	"strings"
)

const defaultScrollAmount = 10

var scrollDirections = map[string]bool{
	"up":    true,
	"down":  true,
	"left":  true,
	"right": true,
}

// Decode converts one batch of raw model output into an ordered list of
// primitive actions with resolved screen coordinates. Any validation failure
// aborts the whole batch: the caller gets either a complete canonical
// sequence or an error, never a partial one. Encountering STOP truncates the
// batch and is reported through Result.Stopped rather than decoder state, so
// a Decode call carries no side effects.
func Decode(text string, vp Viewport) (Result, error) {
	items, err := parseBatch(text)
	if err != nil {
		return Result{}, err
	}

	var res Result

	for _, item := range items {
		name := strings.ToUpper(strings.TrimSpace(stringField(item, "action")))
		if _, ok := supportedActions[name]; !ok {
			return Result{}, fmt.Errorf("%w: action %q (model output: %s)", ErrUnsupportedAction, name, text)
		}

		if name == "STOP" {
			res.Stopped = true
			return res, nil
		}

		prims, err := expandItem(name, item, vp)
		if err != nil {
			return Result{}, err
		}
		res.Actions = append(res.Actions, prims...)
	}

	return res, nil
}

// parseBatch accepts strict JSON or Python-literal text and returns the batch
// as a list of objects. A bare object is wrapped into a single-element list.
func parseBatch(text string) ([]map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty actor output", ErrMalformedBatch)
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		text = "[" + text + "]"
	}
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("%w: output does not look like a list or dictionary", ErrMalformedBatch)
	}

	var raw []any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		if err2 := json.Unmarshal([]byte(NormalizeLiterals(text)), &raw); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
		}
	}

	items := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: batch element is not an object: %v", ErrMalformedBatch, el)
		}
		items = append(items, m)
	}
	return items, nil
}

// expandItem turns one validated action item into its primitive operations.
// Source actions expand into one or two primitives each.
func expandItem(name string, item map[string]any, vp Viewport) ([]PrimitiveAction, error) {
	switch name {
	case "CLICK", "TAP":
		return mousePrimitive(name, item, vp, LeftClick)

	case "PRESS":
		return mousePrimitive(name, item, vp, LeftPress)

	case "HOVER":
		coord, err := optionalPosition(name, item, vp)
		if err != nil {
			return nil, err
		}
		if coord == nil {
			return nil, nil
		}
		return []PrimitiveAction{{Action: MouseMove, Coordinate: coord}}, nil

	case "INPUT":
		text, err := inputText(item)
		if err != nil {
			return nil, err
		}
		return []PrimitiveAction{{Action: TypeText, Text: text}}, nil

	case "ANSWER":
		text, ok := item["value"].(string)
		if !ok {
			text, ok = item["text"].(string)
		}
		if !ok {
			return nil, fmt.Errorf("%w: ANSWER action requires textual value", ErrInvalidValue)
		}
		return []PrimitiveAction{{Action: TypeText, Text: text}}, nil

	case "ENTER":
		return []PrimitiveAction{{Action: KeyPress, Text: "Enter"}}, nil

	case "ESC", "ESCAPE":
		return []PrimitiveAction{{Action: KeyPress, Text: "Escape"}}, nil

	case "SWIPE":
		return swipePrimitives(item, vp)

	case "SCROLL":
		return scrollPrimitive(name, item, vp)

	case "HOTKEY":
		text, err := hotkeyText(item["value"])
		if err != nil {
			return nil, err
		}
		return []PrimitiveAction{{Action: KeyPress, Text: text}}, nil
	}

	return nil, fmt.Errorf("%w: action %q", ErrUnsupportedAction, name)
}

// mousePrimitive emits mouse_move (when a position is given) followed by the
// click variant. The move must precede the click so the executor clicks at
// the resolved point.
func mousePrimitive(name string, item map[string]any, vp Viewport, click string) ([]PrimitiveAction, error) {
	coord, err := optionalPosition(name, item, vp)
	if err != nil {
		return nil, err
	}
	var prims []PrimitiveAction
	if coord != nil {
		prims = append(prims, PrimitiveAction{Action: MouseMove, Coordinate: coord})
	}
	return append(prims, PrimitiveAction{Action: click}), nil
}

func swipePrimitives(item map[string]any, vp Viewport) ([]PrimitiveAction, error) {
	path, ok := item["position"].([]any)
	if !ok || len(path) != 2 {
		return nil, fmt.Errorf("%w: SWIPE action requires start and end positions", ErrInvalidPosition)
	}
	hints := hintsFrom(item)
	start, err := resolvePosition("SWIPE", path[0], hints, vp)
	if err != nil {
		return nil, err
	}
	end, err := resolvePosition("SWIPE", path[1], hints, vp)
	if err != nil {
		return nil, err
	}
	return []PrimitiveAction{
		{Action: MouseMove, Coordinate: &start},
		{Action: LeftClickDrag, Coordinate: &end},
	}, nil
}

func scrollPrimitive(name string, item map[string]any, vp Viewport) ([]PrimitiveAction, error) {
	direction, amount, err := scrollValue(item["value"])
	if err != nil {
		return nil, err
	}
	coord, err := optionalPosition(name, item, vp)
	if err != nil {
		return nil, err
	}
	return []PrimitiveAction{{
		Action:          Scroll,
		Coordinate:      coord,
		ScrollDirection: direction,
		ScrollAmount:    amount,
	}}, nil
}

// scrollValue extracts direction and amount from the three shapes models
// emit: {"direction": ..., "amount": ...}, ["down", 20], or a bare "down".
func scrollValue(value any) (string, int, error) {
	var direction string
	amount := defaultScrollAmount

	switch v := value.(type) {
	case map[string]any:
		if d, ok := v["direction"]; ok && d != nil {
			direction = fmt.Sprint(d)
		}
		if a, ok := v["amount"]; ok && a != nil {
			if f, numeric := asFloat(a); numeric {
				amount = int(f)
			}
		}
	case []any:
		if len(v) > 0 && v[0] != nil {
			direction = fmt.Sprint(v[0])
		}
		if len(v) > 1 {
			if f, numeric := asFloat(v[1]); numeric {
				amount = int(f)
			}
		}
	case string:
		direction = v
	}

	if direction == "" {
		return "", 0, fmt.Errorf("%w: scroll direction missing or invalid", ErrInvalidValue)
	}
	direction = strings.ToLower(direction)
	if !scrollDirections[direction] {
		return "", 0, fmt.Errorf("%w: scroll direction %q not supported", ErrInvalidValue, direction)
	}
	return direction, amount, nil
}

// hotkeyText normalizes a hotkey value ("CTRL+C" or ["CTRL", "C"]) into a
// lowercase +-joined combo.
func hotkeyText(value any) (string, error) {
	var keys []string
	switch v := value.(type) {
	case string:
		for _, part := range strings.Split(v, "+") {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
	case []any:
		for _, part := range v {
			if s := strings.TrimSpace(fmt.Sprint(part)); s != "" {
				keys = append(keys, s)
			}
		}
	default:
		return "", fmt.Errorf("%w: hotkey value must be a string or list of keys", ErrInvalidValue)
	}

	if len(keys) == 0 {
		return "", fmt.Errorf("%w: hotkey value is empty", ErrInvalidValue)
	}
	for i, key := range keys {
		keys[i] = strings.ToLower(key)
	}
	return strings.Join(keys, "+"), nil
}

func inputText(item map[string]any) (string, error) {
	switch v := item["value"].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: INPUT value must be a string: %v", ErrInvalidValue, v)
	}
}

// optionalPosition resolves the item position when present; a nil position
// simply yields no coordinate.
func optionalPosition(action string, item map[string]any, vp Viewport) (*Point, error) {
	pos, ok := item["position"]
	if !ok || pos == nil {
		return nil, nil
	}
	p, err := resolvePosition(action, pos, hintsFrom(item), vp)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
