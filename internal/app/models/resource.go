package models

import (
	"time"
)

// Availability markers for Resource.Avail. Values between the two markers
// are "publish after week N".
const (
	// AvailOnSignup publishes the resource as soon as a student signs up.
	AvailOnSignup = 0
	// AvailAfterCompletion publishes the resource only once the offering has
	// finished. Any value at or past the configured max week count behaves
	// the same.
	AvailAfterCompletion = 200
)

// NeverExpires is the Resource.Expire value meaning the resource stays live
// once published.
const NeverExpires = 0

// Resource defines a publishable item (document/link/media) based on the
// 'resources' table. A resource is linked to zero-or-more subjects and
// zero-or-more class offers; its live status is computed at query time
// against a reference offer's dates, never stored.
type Resource struct {
	ID          int64  `json:"id" db:"id"`
	ContentType string `json:"contentType" db:"content_type" example:"video"`
	Title       string `json:"title" db:"title"`
	Link        string `json:"link" db:"link"`

	// Avail is the publication week: 0 on signup, 1..N after week N, or
	// AvailAfterCompletion.
	Avail int `json:"avail" db:"avail" example:"1"`

	// Expire is the number of weeks the resource stays visible once
	// published; 0 means it never expires.
	Expire int `json:"expire" db:"expire" example:"2"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ResourceView is a resource with its concrete window computed against one
// reference class offer.
type ResourceView struct {
	Resource
	PublishDate time.Time  `json:"publishDate"`
	ExpireDate  *time.Time `json:"expireDate,omitempty"` // nil when the resource never expires
	Live        bool       `json:"live"`
}
