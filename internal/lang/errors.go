package lang

import "errors"

// ErrInvalid indicates an unrecognized language code.
var ErrInvalid = errors.New("invalid language code")
