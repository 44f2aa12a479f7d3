package opportunity

import "errors"

var (
	ErrNotFound      = errors.New("opportunity not found")
	ErrSlugTaken     = errors.New("opportunity id already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDetailsFormat = errors.New("details must be a JSON object")
)
