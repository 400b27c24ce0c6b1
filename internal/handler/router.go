package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/middleware"
)

// Handlers groups every HTTP handler mounted by Register. Reports and
// Uploads are optional and skipped when nil.
type Handlers struct {
	Courses    *CourseHandler
	Students   *StudentHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Overview   *OverviewHandler
	Reports    *ReportHandler
	Uploads    *UploadHandler
	Metrics    *MetricsHandler
}

// Register mounts probes at the root and the API under prefix.
func Register(r gin.IRouter, prefix string, h Handlers) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)
	courses.GET("/:id/eligible-students", h.Courses.EligibleStudents)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/stats", h.Attendance.StudentStats)

	events := api.Group("/events")
	events.GET("", h.Schedule.List)
	events.POST("", h.Schedule.Create)
	events.GET("/:id", h.Schedule.Get)
	events.PUT("/:id", h.Schedule.Update)
	events.DELETE("/:id", h.Schedule.Delete)
	events.PUT("/:id/attendees/:studentId", h.Schedule.MarkAttendance)

	api.GET("/attendance", h.Attendance.List)

	api.GET("/overview", middleware.WithResponseMeta(), h.Overview.Get)

	if h.Reports != nil {
		api.POST("/reports", h.Reports.Create)
		api.GET("/reports/:id", h.Reports.Status)
		api.GET("/export/:token", h.Reports.Download)
	}
	if h.Uploads != nil {
		api.POST("/uploads", h.Uploads.Upload)
		api.GET("/files/:token", h.Uploads.Download)
	}
}
