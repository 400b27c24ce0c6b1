package models

import "time"

// ReportType enumerates supported asynchronous export categories.
type ReportType string

const (
	ReportTypeAttendance ReportType = "attendance"
	ReportTypeRoster     ReportType = "roster"
	ReportTypeSchedule   ReportType = "schedule"
)

// Valid returns true for supported report types.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeAttendance, ReportTypeRoster, ReportTypeSchedule:
		return true
	default:
		return false
	}
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// Valid returns true for supported formats.
func (f ReportFormat) Valid() bool {
	switch f {
	case ReportFormatCSV, ReportFormatPDF, ReportFormatXLSX:
		return true
	default:
		return false
	}
}

// ContentType returns the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatPDF:
		return "application/pdf"
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// ReportStatus captures background job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJob is persisted in the document store next to the domain records.
type ReportJob struct {
	ID           string          `json:"id"`
	Type         ReportType      `json:"type"`
	Params       ReportJobParams `json:"params"`
	Status       ReportStatus    `json:"status"`
	Progress     int             `json:"progress"`
	ResultURL    *string         `json:"result_url,omitempty"`
	CreatedDate  time.Time       `json:"created_date"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// ReportJobParams stores the request options of a job.
type ReportJobParams struct {
	Format   ReportFormat `json:"format"`
	Month    string       `json:"month,omitempty"`
	CourseID string       `json:"course_id,omitempty"`
	Sort     SortMode     `json:"sort,omitempty"`
}
