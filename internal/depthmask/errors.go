package depthmask

import "errors"

// ErrDimensionMismatch is returned when the distances slice does not match
// width*height.
var ErrDimensionMismatch = errors.New("depthmask: distances length does not match width*height")

// ErrInvalidParameter is returned when a Threshold is not well formed.
var ErrInvalidParameter = errors.New("depthmask: invalid threshold parameter")
