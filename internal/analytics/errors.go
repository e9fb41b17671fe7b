package analytics

import "errors"

// ErrInvalidConfiguration is returned when a caller passes options the models cannot honor,
// such as a non-positive horizon or a malformed seasonal table.
var ErrInvalidConfiguration = errors.New("invalid configuration")
