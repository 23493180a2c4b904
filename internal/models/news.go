package models

import "time"

// NewsItem is a single headline pulled from an RSS/Atom feed. Items are
// immutable once created; they feed the analysis context and are attached
// to the persisted analysis record for auditing, never stored on their own.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Snippet     string    `json:"snippet,omitempty"`
}
