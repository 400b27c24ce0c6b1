package dto

import "github.com/noah-isme/coursebook-api/internal/models"

// AttendanceListResponse is returned by GET /attendance.
type AttendanceListResponse struct {
	Sort     models.SortMode       `json:"sort"`
	Search   string                `json:"search,omitempty"`
	Students []models.StudentStats `json:"students"`
}

// StudentStatsResponse is the student detail view.
type StudentStatsResponse struct {
	Stats   models.StudentStats       `json:"stats"`
	Recent  []models.AttendanceRecord `json:"recent_records"`
	Courses []models.CourseAttendance `json:"courses"`
}
