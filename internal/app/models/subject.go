package models

import "time"

// Subject defines a teachable unit based on the 'subjects' table. Level and
// Version distinguish repeats of the same material (e.g. level 2 version B).
type Subject struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name" example:"Lindy Hop Basics"`
	Level   int    `json:"level" db:"level" example:"1"`
	Version string `json:"version" db:"version" example:"A"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
