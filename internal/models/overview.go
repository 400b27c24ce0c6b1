package models

// Overview backs the dashboard landing page.
type Overview struct {
	Month           string          `json:"month"`
	StudentCount    int             `json:"student_count"`
	CourseCount     int             `json:"course_count"`
	MonthEventCount int             `json:"month_event_count"`
	TotalEventCount int             `json:"total_event_count"`
	RecentStudents  []Student       `json:"recent_students"`
	RecentCourses   []Course        `json:"recent_courses"`
	UpcomingEvents  []ScheduleEvent `json:"upcoming_events"`
}
