package actions

// Canonical primitive action names, matching the computer-tool vocabulary.
const (
	MouseMove     = "mouse_move"
	LeftClick     = "left_click"
	LeftPress     = "left_press"
	LeftClickDrag = "left_click_drag"
	TypeText      = "type"
	KeyPress      = "key"
	Scroll        = "scroll"
)

// supportedActions maps the model-facing action vocabulary to the kind of
// input it produces. STOP maps to nothing: it only terminates the batch.
var supportedActions = map[string]string{
	"CLICK":  "mouse",
	"HOVER":  "mouse",
	"INPUT":  "type",
	"ENTER":  "key",
	"ESC":    "key",
	"ESCAPE": "key",
	"PRESS":  "mouse",
	"SCROLL": "scroll",
	"HOTKEY": "key",
	"STOP":   "",
	"TAP":    "mouse",
	"SWIPE":  "mouse",
	"ANSWER": "type",
}

// Point is an absolute screen pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an absolute screen rectangle (x0, y0) - (x1, y1).
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func (r Rect) Width() int  { return r.X1 - r.X0 }
func (r Rect) Height() int { return r.Y1 - r.Y0 }

// Viewport describes the screen region actions are resolved against and the
// size of the image the model actually observed. ImageWidth/ImageHeight of
// zero means the image size is unknown and the viewport is assumed to match.
type Viewport struct {
	BBox        Rect
	ImageWidth  int
	ImageHeight int
}

// PrimitiveAction is one atomic input operation ready for dispatch to an
// input executor. It is the only type that crosses the decoder boundary.
type PrimitiveAction struct {
	Action          string `json:"action"`
	Text            string `json:"text,omitempty"`
	Coordinate      *Point `json:"coordinate,omitempty"`
	ScrollDirection string `json:"scroll_direction,omitempty"`
	ScrollAmount    int    `json:"scroll_amount,omitempty"`
}

// Result is the outcome of decoding one batch of model output. Stopped is
// true when a STOP action was encountered; items after it are discarded.
type Result struct {
	Actions []PrimitiveAction
	Stopped bool
}
