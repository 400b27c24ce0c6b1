package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/accounting"
	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/pkg/export"
	"github.com/noah-isme/coursebook-api/pkg/storage"
)

type statsRanker interface {
	Ranked(ctx context.Context, mode models.SortMode) ([]models.StudentStats, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Location  *time.Location
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService builds report datasets from stored records and persists rendered files.
type ExportService struct {
	stats    statsRanker
	students studentLister
	events   eventLister
	storage  fileStorage
	csv      csvRenderer
	pdf      documentRenderer
	xlsx     documentRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
	now      func() time.Time
}

// NewExportService constructs an ExportService with the default renderers.
func NewExportService(stats statsRanker, students studentLister, events eventLister, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ExportService{
		stats:    stats,
		students: students,
		events:   events,
		storage:  files,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		xlsx:     export.NewXLSXExporter(),
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Generate builds the dataset for job, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	case models.ReportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("export stored", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(payload)))

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          downloadURL(s.cfg.APIPrefix, "export", token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (the configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scope := "all"
	if job.Params.Month != "" {
		scope = sanitizeFilename(job.Params.Month)
	}
	return fmt.Sprintf("reports/%s_%s_%s_%s.%s", job.Type, scope, timestamp, shortID(job.ID), job.Params.Format)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeAttendance:
		return s.buildAttendanceDataset(ctx, job.Params)
	case models.ReportTypeRoster:
		return s.buildRosterDataset(ctx, job.Params)
	case models.ReportTypeSchedule:
		return s.buildScheduleDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildAttendanceDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	mode := params.Sort
	if mode == "" {
		mode = models.SortRemainingDesc
	}
	stats, err := s.stats.Ranked(ctx, mode)
	if err != nil {
		return export.Dataset{}, "", err
	}
	headers := []string{"Student", "Course", "Purchased", "Used", "Remaining", "Present", "Absent", "Excused", "Completed"}
	rows := make([]map[string]string, 0, len(stats))
	for _, st := range stats {
		for _, cs := range accounting.CourseBreakdown(st) {
			if params.CourseID != "" && cs.CourseID != params.CourseID {
				continue
			}
			rows = append(rows, map[string]string{
				"Student":   st.Student.Name,
				"Course":    cs.CourseName,
				"Purchased": strconv.Itoa(cs.TotalPurchased),
				"Used":      strconv.Itoa(cs.SessionsUsed),
				"Remaining": strconv.Itoa(cs.SessionsRemaining),
				"Present":   strconv.Itoa(cs.Present),
				"Absent":    strconv.Itoa(cs.Absent),
				"Excused":   strconv.Itoa(cs.Excused),
				"Completed": yesNo(cs.SessionsRemaining <= 0),
			})
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Attendance and Remaining Sessions", nil
}

func (s *ExportService) buildRosterDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	students, err := s.students.List(ctx, "name", 0)
	if err != nil {
		return export.Dataset{}, "", err
	}
	headers := []string{"Student", "Phone", "Email", "Course", "Purchased", "Joined"}
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		base := map[string]string{
			"Student": st.Name,
			"Phone":   st.Phone,
			"Email":   st.Email,
			"Joined":  s.formatDate(st.CreatedDate),
		}
		if len(st.Enrollments) == 0 && params.CourseID == "" {
			rows = append(rows, base)
			continue
		}
		for _, e := range st.Enrollments {
			if params.CourseID != "" && e.CourseID != params.CourseID {
				continue
			}
			row := make(map[string]string, len(headers))
			for k, v := range base {
				row[k] = v
			}
			row["Course"] = e.CourseName
			row["Purchased"] = strconv.Itoa(e.TotalPurchased)
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}, "Student Roster", nil
}

func (s *ExportService) buildScheduleDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	events, err := s.events.List(ctx, "date_time", 0)
	if err != nil {
		return export.Dataset{}, "", err
	}
	title := "Class Schedule"
	if params.Month != "" {
		month, err := time.ParseInLocation("2006-01", params.Month, s.cfg.Location)
		if err != nil {
			return export.Dataset{}, "", fmt.Errorf("invalid month %q: %w", params.Month, err)
		}
		filtered := make([]models.ScheduleEvent, 0, len(events))
		end := month.AddDate(0, 1, 0)
		for _, e := range events {
			if !e.DateTime.Before(month) && e.DateTime.Before(end) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
		title = fmt.Sprintf("Class Schedule %s", params.Month)
	}

	headers := []string{"Date", "Time", "Course", "Attendees", "Present", "Absent", "Excused", "Pending", "Note"}
	rows := make([]map[string]string, 0, len(events))
	for _, e := range events {
		if params.CourseID != "" && e.CourseID != params.CourseID {
			continue
		}
		var counts models.StatusCounts
		for _, a := range e.Attendees {
			counts.Add(a.Status)
		}
		local := e.DateTime.In(s.cfg.Location)
		rows = append(rows, map[string]string{
			"Date":      local.Format("2006-01-02"),
			"Time":      local.Format("15:04"),
			"Course":    e.CourseName,
			"Attendees": strconv.Itoa(len(e.Attendees)),
			"Present":   strconv.Itoa(counts.Present),
			"Absent":    strconv.Itoa(counts.Absent),
			"Excused":   strconv.Itoa(counts.Excused),
			"Pending":   strconv.Itoa(counts.Pending),
			"Note":      e.Note,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.cfg.Location).Format("2006-01-02")
}

func downloadURL(prefix, route, token string) string {
	base := strings.TrimRight(prefix, "/")
	if base == "" {
		base = "/api/v1"
	}
	return fmt.Sprintf("%s/%s/%s", base, route, token)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
