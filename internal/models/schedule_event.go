package models

import (
	"fmt"
	"time"
)

// AttendanceStatus is the attendance mark of one student in one event.
type AttendanceStatus string

const (
	AttendanceStatusPending AttendanceStatus = "pending"
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusExcused AttendanceStatus = "excused"
)

// ParseAttendanceStatus validates raw. An empty value means pending.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	status := AttendanceStatus(raw)
	if status == "" {
		return AttendanceStatusPending, nil
	}
	if !status.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", raw)
	}
	return status, nil
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPending, AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// ConsumesSession reports whether the mark uses up one purchased session.
// Absences are charged like attendance; excused and pending marks are not.
func (s AttendanceStatus) ConsumesSession() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent:
		return true
	case AttendanceStatusPending, AttendanceStatusExcused:
		return false
	default:
		return false
	}
}

// UnmarshalText rejects unknown statuses when decoding stored records.
func (s *AttendanceStatus) UnmarshalText(text []byte) error {
	status, err := ParseAttendanceStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Attendee is one roster entry of an event.
type Attendee struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Status      AttendanceStatus `json:"status"`
}

// ScheduleEvent is one scheduled session of a course.
type ScheduleEvent struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	CourseName  string     `json:"course_name"`
	CourseColor string     `json:"course_color"`
	DateTime    time.Time  `json:"date_time"`
	Note        string     `json:"note"`
	Attendees   []Attendee `json:"attendees"`
	CreatedDate time.Time  `json:"created_date"`
}

// Normalize replaces an absent roster with an empty one and fills empty statuses.
func (e ScheduleEvent) Normalize() ScheduleEvent {
	attendees := make([]Attendee, len(e.Attendees))
	for i, a := range e.Attendees {
		if a.Status == "" {
			a.Status = AttendanceStatusPending
		}
		attendees[i] = a
	}
	e.Attendees = attendees
	return e
}

// Attendee returns the roster entry for studentID, if any.
func (e ScheduleEvent) Attendee(studentID string) (Attendee, bool) {
	for _, a := range e.Attendees {
		if a.StudentID == studentID {
			return a, true
		}
	}
	return Attendee{}, false
}
