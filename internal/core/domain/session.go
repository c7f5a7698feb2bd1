package domain

import "time"

// Session is a chat conversation. It owns the documents uploaded to it and
// the turns exchanged within it. Sessions persist until explicitly deleted.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Title is an optional display name, usually derived from the first question.
	Title string

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	// UpdatedAt is when the session last saw activity.
	UpdatedAt time.Time
}
