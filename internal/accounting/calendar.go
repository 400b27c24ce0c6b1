package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// EventsInMonth returns events whose date falls in the calendar month of ref,
// evaluated in loc.
func EventsInMonth(events []models.ScheduleEvent, ref time.Time, loc *time.Location) []models.ScheduleEvent {
	if loc == nil {
		loc = time.UTC
	}
	ref = ref.In(loc)
	out := make([]models.ScheduleEvent, 0)
	for _, event := range events {
		at := event.DateTime.In(loc)
		if at.Year() == ref.Year() && at.Month() == ref.Month() {
			out = append(out, event)
		}
	}
	return out
}

// EventsOnDay returns events on the calendar day of ref in loc, ordered by time.
func EventsOnDay(events []models.ScheduleEvent, ref time.Time, loc *time.Location) []models.ScheduleEvent {
	if loc == nil {
		loc = time.UTC
	}
	ref = ref.In(loc)
	out := make([]models.ScheduleEvent, 0)
	for _, event := range events {
		at := event.DateTime.In(loc)
		if at.Year() == ref.Year() && at.YearDay() == ref.YearDay() {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	return out
}

// UpcomingEvents returns up to limit events at or after now, soonest first.
func UpcomingEvents(events []models.ScheduleEvent, now time.Time, limit int) []models.ScheduleEvent {
	out := make([]models.ScheduleEvent, 0)
	for _, event := range events {
		if !event.DateTime.Before(now) {
			out = append(out, event)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTime.Before(out[j].DateTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EligibleStudents returns students enrolled in courseID, in input order.
func EligibleStudents(students []models.Student, courseID string) []models.Student {
	out := make([]models.Student, 0)
	for _, student := range students {
		if _, ok := student.EnrollmentFor(courseID); ok {
			out = append(out, student)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
