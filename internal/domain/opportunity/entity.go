package opportunity

import (
	"time"

	"gorm.io/datatypes"
)

type Type string

const (
	TypeProject    Type = "project"
	TypeInternship Type = "internship"
)

// Opportunity is a project or internship users can apply to. Slug is the
// public identifier; ID is the database key.
type Opportunity struct {
	ID          int64          `json:"_id"`
	Type        Type           `json:"type"`
	Slug        string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Details     datatypes.JSON `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
