package models

// CursorPage describes cursor-based pagination metadata for listings.
type CursorPage struct {
	Limit      int     `json:"limit"`
	NextCursor *string `json:"next_cursor"`
	Total      int     `json:"total"`
}
