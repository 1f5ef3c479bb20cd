package actor

import "context"

// Frame is the visual context an actor receives: the PNG the model will see
// and its pixel size (after any resize applied by the capture path).
type Frame struct {
	PNG    []byte
	Width  int
	Height int
}

// Output is the raw payload an upstream model returns. Content carries the
// dialect text the action decoder consumes.
type Output struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// Actor asks a vision-language model for the next GUI action given the task
// and the current screen.
type Actor interface {
	Act(ctx context.Context, task string, frame Frame) (Output, error)
}
