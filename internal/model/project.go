package model

import "time"

// Project is a caller-owned named grouping that memos may reference.
// UserID is a pointer because shared setups allow unowned projects; rows
// written by this service always carry the creator's id.
type Project struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
