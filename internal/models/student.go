package models

import "time"

// Student is a learner together with the sessions they purchased.
type Student struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Note        string       `json:"note"`
	Enrollments []Enrollment `json:"enrollments"`
	CreatedDate time.Time    `json:"created_date"`
}

// Enrollment records a purchase of TotalPurchased sessions of one course.
type Enrollment struct {
	CourseID       string `json:"course_id"`
	CourseName     string `json:"course_name"`
	TotalPurchased int    `json:"total_purchased"`
}

// Normalize replaces an absent enrollment list with an empty one.
func (s Student) Normalize() Student {
	if s.Enrollments == nil {
		s.Enrollments = []Enrollment{}
	}
	return s
}

// EnrollmentFor returns the enrollment for courseID, if any.
func (s Student) EnrollmentFor(courseID string) (Enrollment, bool) {
	for _, e := range s.Enrollments {
		if e.CourseID == courseID {
			return e, true
		}
	}
	return Enrollment{}, false
}
