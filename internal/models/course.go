package models

import "time"

// DefaultCourseColor is used whenever a course has no explicit colour.
const DefaultCourseColor = "#4F46E5"

// Course is a purchasable class offering.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ColorHex    string    `json:"color_hex"`
	CreatedDate time.Time `json:"created_date"`
}

// Color returns the display colour, falling back to DefaultCourseColor.
func (c Course) Color() string {
	if c.ColorHex == "" {
		return DefaultCourseColor
	}
	return c.ColorHex
}
