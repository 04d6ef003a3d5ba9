package models

import (
	"errors"
	"time"
)

// ErrSlotTaken is returned by the repository when the in-transaction
// overlap recheck finds the slot occupied at insert time.
var ErrSlotTaken = errors.New("room slot already taken")

// Lecture is a scheduled (or placeholder) session. Only the stage is
// mandatory; temporal fields and the room may stay unset, which excludes
// the lecture from conflict analysis.
type Lecture struct {
	ID          string    `db:"id" json:"id"`
	CourseName  *string   `db:"course_name" json:"course_name"`
	DayOfWeek   *string   `db:"day_of_week" json:"day_of_week"`
	StartTime   *string   `db:"start_time" json:"start_time"`
	EndTime     *string   `db:"end_time" json:"end_time"`
	HoursNumber *int      `db:"hours_number" json:"hours_number"`
	RoomID      *string   `db:"room_id" json:"room_id"`
	StageID     string    `db:"stage_id" json:"stage_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Room      *Room      `db:"-" json:"room,omitempty"`
	Stage     *Stage     `db:"-" json:"stage,omitempty"`
	Lecturers []Lecturer `db:"-" json:"lecturers"`
}

// TimeRange returns the lecture's interval when both bounds are set.
func (l *Lecture) TimeRange() (TimeRange, bool) {
	if l.StartTime == nil || l.EndTime == nil {
		return TimeRange{}, false
	}
	return TimeRange{Start: *l.StartTime, End: *l.EndTime}, true
}

// LectureFilter narrows lecture listings by stage and creation window.
type LectureFilter struct {
	StageID     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Period is a creation-time window grouping one stage's lectures.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LecturePage is the listing payload with period navigation.
type LecturePage struct {
	Data        []Lecture `json:"data"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	HasNext     bool      `json:"hasNext"`
	HasPrevious bool      `json:"hasPrevious"`
	NextPeriod  *Period   `json:"nextPeriod"`
	PrevPeriod  *Period   `json:"prevPeriod"`
}
