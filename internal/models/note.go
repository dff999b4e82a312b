package models

import "time"

// Note is free-text commentary attached to a reading
type Note struct {
	ID        string    `json:"id"`
	ReadingID string    `json:"readingId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StudyFocus is the user's chosen study tags. It is passed through untouched.
type StudyFocus struct {
	Tags       []string `json:"tags"`
	CustomTags []string `json:"customTags"`
}
