package domain

import "time"

// Post is a blog article. Slug is the stable external identifier; ID is generated.
type Post struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Content     string
	Author      string
	Category    string
	SubCategory *string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
