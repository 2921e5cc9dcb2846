package domain

import "time"

// Product is a catalog entry reviews attach to, identified by a slug.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url"`
	SourceURL *string   `json:"source_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
