package models

// Conflict type literals, kept as the human-readable strings clients display.
const (
	ConflictTypeDayOff = "Lecturer Day Off"
	ConflictTypeRoom   = "Room Conflict"
)

// Conflict is one structured reason blocking a lecture create/update.
type Conflict struct {
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Lecturer  string `json:"lecturer,omitempty"`
	Day       string `json:"day,omitempty"`
	Room      string `json:"room,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// ConflictError carries the full itemised conflict list so callers can
// show every reason at once.
type ConflictError struct {
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts"`
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
