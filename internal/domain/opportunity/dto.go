package opportunity

import "encoding/json"

type CreateRequest struct {
	Slug        string          `json:"id" validate:"required,max=128"`
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Details     json.RawMessage `json:"details"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,max=255"`
	Description *string         `json:"description"`
	Details     json.RawMessage `json:"details"`
}
