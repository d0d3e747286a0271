package models

import "time"

// Settings mirrors the operator's model choice to disk so a new session
// starts where the last one left off. Only one row is kept. API keys are
// never stored here.
type Settings struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Model     string    `json:"model"`
	UpdatedAt time.Time `json:"updated_at"`
}
