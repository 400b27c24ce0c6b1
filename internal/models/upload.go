package models

import "time"

// Upload describes a stored file and its signed download link.
type Upload struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
