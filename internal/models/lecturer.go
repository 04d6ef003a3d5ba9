package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DayOffs is the set of weekdays a lecturer is unavailable. Stored as a
// JSONB array; order is irrelevant and duplicates are not expected.
type DayOffs []string

// Contains reports whether day is a day off.
func (d DayOffs) Contains(day string) bool {
	for _, v := range d {
		if v == day {
			return true
		}
	}
	return false
}

// Scan implements sql.Scanner for the JSONB column.
func (d *DayOffs) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported day_offs source type %T", src)
	}
	return json.Unmarshal(raw, d)
}

// Value implements driver.Valuer for the JSONB column.
func (d DayOffs) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// Lecturer is an instructor who may teach many lectures.
type Lecturer struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	DayOffs   DayOffs   `db:"day_offs" json:"day_offs"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LecturerFilter captures cursor pagination and search for listings.
type LecturerFilter struct {
	Search string
	Cursor string
	Limit  int
}
