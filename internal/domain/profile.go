package domain

import "time"

// Vibe is a coarse lifestyle-compatibility tag.
type Vibe string

const (
	VibeCalm          Vibe = "tranquillo"
	VibePractical     Vibe = "pratico"
	VibeCollaborative Vibe = "collaborativo"
)

// ChildrenFlag is tri-state: yes, no, or unset (empty).
type ChildrenFlag string

const (
	ChildrenYes ChildrenFlag = "sì"
	ChildrenNo  ChildrenFlag = "no"
)

type Profile struct {
	UserID      string       `json:"user_id" db:"user_id"`
	DisplayName *string      `json:"display_name" db:"display_name"`
	Region      string       `json:"region" db:"region"`
	City        string       `json:"city" db:"city"`
	HasChildren ChildrenFlag `json:"has_children" db:"has_children"`
	Vibe        Vibe         `json:"vibe" db:"vibe"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}
