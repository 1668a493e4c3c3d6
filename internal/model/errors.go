package model

import "errors"

// ErrUnknownName is returned when decoding an unrecognized enum name.
var ErrUnknownName = errors.New("unknown name")
