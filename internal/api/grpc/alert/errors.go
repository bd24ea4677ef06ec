package alert

import "errors"

// ErrBadField indicates a request field with the wrong type.
var ErrBadField = errors.New("bad field type")
