package dto

import "github.com/noah-isme/coursebook-api/internal/models"

// ReportRequest captures the POST /reports payload.
type ReportRequest struct {
	Type     models.ReportType   `json:"type" validate:"required"`
	Format   models.ReportFormat `json:"format" validate:"required"`
	Month    string              `json:"month,omitempty"`
	CourseID string              `json:"course_id,omitempty"`
	Sort     models.SortMode     `json:"sort,omitempty"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
