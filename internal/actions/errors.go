package actions

import "errors"

var (
	ErrMalformedBatch    = errors.New("malformed action batch")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidValue      = errors.New("invalid action value")
	ErrInvalidViewport   = errors.New("invalid screen bounds")
)
