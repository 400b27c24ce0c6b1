package accounting

import (
	"sort"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// ComputeStudentStats builds the attendance view of one student from every
// visible event. Records are ordered newest first; events sharing a date keep
// their relative input order.
func ComputeStudentStats(student models.Student, events []models.ScheduleEvent) models.StudentStats {
	records := attendanceRecords(student.ID, events)

	var counts models.StatusCounts
	for _, record := range records {
		counts.Add(record.Status)
	}

	courseStats := make([]models.CourseStat, 0, len(student.Enrollments))
	totalRemaining := 0
	completed := false
	for _, enrollment := range student.Enrollments {
		stat := courseStat(student.ID, enrollment, events)
		totalRemaining += stat.SessionsRemaining
		if stat.SessionsRemaining <= 0 {
			completed = true
		}
		courseStats = append(courseStats, stat)
	}

	return models.StudentStats{
		Student:             cloneStudent(student),
		AttendanceRecords:   records,
		StatusCounts:        counts,
		CourseStats:         courseStats,
		TotalClasses:        len(records),
		TotalRemaining:      totalRemaining,
		HasCompletedCourses: completed,
	}
}

// ComputeAll runs ComputeStudentStats for each student, preserving student order.
func ComputeAll(students []models.Student, events []models.ScheduleEvent) []models.StudentStats {
	out := make([]models.StudentStats, 0, len(students))
	for _, student := range students {
		out = append(out, ComputeStudentStats(student, events))
	}
	return out
}

// SessionsUsed counts events of courseID where the student's mark consumes a session.
func SessionsUsed(studentID, courseID string, events []models.ScheduleEvent) int {
	used := 0
	for _, event := range events {
		if event.CourseID != courseID {
			continue
		}
		for _, attendee := range event.Attendees {
			if attendee.StudentID == studentID && attendee.Status.ConsumesSession() {
				used++
				break
			}
		}
	}
	return used
}

// Remaining floors purchased minus used at zero.
func Remaining(totalPurchased, used int) int {
	if remaining := totalPurchased - used; remaining > 0 {
		return remaining
	}
	return 0
}

func courseStat(studentID string, enrollment models.Enrollment, events []models.ScheduleEvent) models.CourseStat {
	used := SessionsUsed(studentID, enrollment.CourseID, events)
	return models.CourseStat{
		CourseID:          enrollment.CourseID,
		CourseName:        enrollment.CourseName,
		TotalPurchased:    enrollment.TotalPurchased,
		SessionsUsed:      used,
		SessionsRemaining: Remaining(enrollment.TotalPurchased, used),
	}
}

func attendanceRecords(studentID string, events []models.ScheduleEvent) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, 0)
	for _, event := range events {
		attendee, ok := event.Attendee(studentID)
		if !ok {
			continue
		}
		status := attendee.Status
		if status == "" {
			status = models.AttendanceStatusPending
		}
		records = append(records, models.AttendanceRecord{
			Event:  cloneEvent(event),
			Status: status,
			Date:   event.DateTime,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records
}

func cloneEvent(event models.ScheduleEvent) models.ScheduleEvent {
	if event.Attendees != nil {
		event.Attendees = append([]models.Attendee(nil), event.Attendees...)
	}
	return event
}

func cloneStudent(student models.Student) models.Student {
	enrollments := make([]models.Enrollment, len(student.Enrollments))
	copy(enrollments, student.Enrollments)
	student.Enrollments = enrollments
	return student
}
