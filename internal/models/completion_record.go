package models

import "time"

// Completion kinds.
const (
	CompletionKindChat     = "chat"
	CompletionKindRefactor = "refactor"
)

// Completion statuses.
const (
	CompletionStatusOK    = "ok"
	CompletionStatusError = "error"
)

// CompletionRecord is one row of the local completion audit log: a single
// completion attempt, successful or not.
type CompletionRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"size:16;not null;index" json:"kind"`
	Model      string    `gorm:"size:128;not null" json:"model"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	DurationMS int64     `gorm:"not null" json:"durationMs"`
	ErrorText  string    `gorm:"type:text" json:"errorText,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
