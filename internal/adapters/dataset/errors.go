package dataset

import "errors"

// ErrSchema reports a CSV whose columns cannot be interpreted.
var ErrSchema = errors.New("unexpected dataset schema")
