package models

import "time"

// Room is a physical lecture hall. Names are unique.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"room_name" json:"room_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
