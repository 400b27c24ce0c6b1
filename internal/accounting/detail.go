package accounting

import "github.com/noah-isme/coursebook-api/internal/models"

// CourseBreakdown splits each enrollment of stats by attendance status.
// Remaining sessions come from the enrollment's CourseStat, so every view
// charges absences the same way.
func CourseBreakdown(stats models.StudentStats) []models.CourseAttendance {
	breakdown := make([]models.CourseAttendance, 0, len(stats.CourseStats))
	for _, courseStat := range stats.CourseStats {
		row := models.CourseAttendance{CourseStat: courseStat}
		for _, record := range stats.AttendanceRecords {
			if record.Event.CourseID != courseStat.CourseID {
				continue
			}
			switch record.Status {
			case models.AttendanceStatusPresent:
				row.Present++
			case models.AttendanceStatusAbsent:
				row.Absent++
			case models.AttendanceStatusExcused:
				row.Excused++
			case models.AttendanceStatusPending:
			}
		}
		breakdown = append(breakdown, row)
	}
	return breakdown
}

// RecentRecords returns at most limit records from the head of stats' history.
func RecentRecords(stats models.StudentStats, limit int) []models.AttendanceRecord {
	if limit <= 0 || limit >= len(stats.AttendanceRecords) {
		return append([]models.AttendanceRecord(nil), stats.AttendanceRecords...)
	}
	return append([]models.AttendanceRecord(nil), stats.AttendanceRecords[:limit]...)
}

// FilterByName keeps stats whose student name contains query, case-insensitively.
func FilterByName(stats []models.StudentStats, query string) []models.StudentStats {
	out := make([]models.StudentStats, 0, len(stats))
	for _, s := range stats {
		if containsFold(s.Student.Name, query) {
			out = append(out, s)
		}
	}
	return out
}
