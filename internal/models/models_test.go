package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttendanceStatus(t *testing.T) {
	status, err := ParseAttendanceStatus("")
	require.NoError(t, err)
	assert.Equal(t, AttendanceStatusPending, status)

	status, err = ParseAttendanceStatus("excused")
	require.NoError(t, err)
	assert.Equal(t, AttendanceStatusExcused, status)

	_, err = ParseAttendanceStatus("late")
	assert.Error(t, err)
}

func TestConsumesSession(t *testing.T) {
	assert.True(t, AttendanceStatusPresent.ConsumesSession())
	assert.True(t, AttendanceStatusAbsent.ConsumesSession())
	assert.False(t, AttendanceStatusExcused.ConsumesSession())
	assert.False(t, AttendanceStatusPending.ConsumesSession())
}

func TestScheduleEventDecodeRejectsUnknownStatus(t *testing.T) {
	raw := `{"id":"e1","course_id":"c1","date_time":"2026-10-01T10:00:00.000Z","attendees":[{"student_id":"s1","status":"late"}]}`

	var event ScheduleEvent
	err := json.Unmarshal([]byte(raw), &event)

	assert.Error(t, err)
}

func TestScheduleEventNormalize(t *testing.T) {
	raw := `{"id":"e1","course_id":"c1","date_time":"2026-10-01T10:00:00.000Z"}`
	var event ScheduleEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	assert.Nil(t, event.Attendees)

	normalized := event.Normalize()
	assert.NotNil(t, normalized.Attendees)
	assert.Empty(t, normalized.Attendees)

	withBlank := ScheduleEvent{Attendees: []Attendee{{StudentID: "s1"}}}.Normalize()
	assert.Equal(t, AttendanceStatusPending, withBlank.Attendees[0].Status)
}

func TestStudentNormalizeAndLookup(t *testing.T) {
	student := Student{ID: "s1"}.Normalize()
	assert.NotNil(t, student.Enrollments)

	student.Enrollments = append(student.Enrollments, Enrollment{CourseID: "c1", TotalPurchased: 5})
	enrollment, ok := student.EnrollmentFor("c1")
	assert.True(t, ok)
	assert.Equal(t, 5, enrollment.TotalPurchased)

	_, ok = student.EnrollmentFor("c2")
	assert.False(t, ok)
}

func TestStatusCountsAdd(t *testing.T) {
	var counts StatusCounts
	for _, s := range []AttendanceStatus{AttendanceStatusPresent, AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusPending} {
		counts.Add(s)
	}
	assert.Equal(t, StatusCounts{Present: 2, Absent: 1, Pending: 1}, counts)
}

func TestCourseColorFallback(t *testing.T) {
	assert.Equal(t, DefaultCourseColor, Course{}.Color())
	assert.Equal(t, "#10B981", Course{ColorHex: "#10B981"}.Color())
}
