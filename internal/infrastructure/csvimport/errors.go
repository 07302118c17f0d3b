package csvimport

import "errors"

// Errors for CSV parsing
var (
	ErrEmptyFile       = errors.New("csvimport: file is empty")
	ErrInvalidEncoding = errors.New("csvimport: file is not valid UTF-8")
	ErrMissingHeader   = errors.New("csvimport: missing header row")
)
