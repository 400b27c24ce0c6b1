package models

import "time"

// CourseStat summarises session usage of one enrollment.
type CourseStat struct {
	CourseID          string `json:"course_id"`
	CourseName        string `json:"course_name"`
	TotalPurchased    int    `json:"total_purchased"`
	SessionsUsed      int    `json:"sessions_used"`
	SessionsRemaining int    `json:"sessions_remaining"`
}

// AttendanceRecord is one event a student is rostered on.
type AttendanceRecord struct {
	Event  ScheduleEvent    `json:"event"`
	Status AttendanceStatus `json:"status"`
	Date   time.Time        `json:"date"`
}

// StatusCounts tallies attendance records by status.
type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
	Pending int `json:"pending"`
}

// Add increments the counter for status.
func (c *StatusCounts) Add(status AttendanceStatus) {
	switch status {
	case AttendanceStatusPresent:
		c.Present++
	case AttendanceStatusAbsent:
		c.Absent++
	case AttendanceStatusExcused:
		c.Excused++
	case AttendanceStatusPending:
		c.Pending++
	}
}

// StudentStats is the derived attendance view of one student.
type StudentStats struct {
	Student             Student            `json:"student"`
	AttendanceRecords   []AttendanceRecord `json:"attendance_records"`
	StatusCounts        StatusCounts       `json:"status_counts"`
	CourseStats         []CourseStat       `json:"course_stats"`
	TotalClasses        int                `json:"total_classes"`
	TotalRemaining      int                `json:"total_remaining"`
	HasCompletedCourses bool               `json:"has_completed_courses"`
}

// SortMode orders the attendance list.
type SortMode string

const (
	SortRemainingDesc SortMode = "remaining_desc"
	SortRemainingAsc  SortMode = "remaining_asc"
	SortCompleted     SortMode = "completed"
	SortNone          SortMode = "none"
)

// Valid returns true for supported sort modes.
func (m SortMode) Valid() bool {
	switch m {
	case SortRemainingDesc, SortRemainingAsc, SortCompleted, SortNone:
		return true
	default:
		return false
	}
}

// CourseAttendance breaks a course stat down by status for the student detail view.
type CourseAttendance struct {
	CourseStat
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
}
