package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/dto"
	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/service"
	"github.com/noah-isme/coursebook-api/pkg/response"
)

type attendanceService interface {
	List(ctx context.Context, filter service.AttendanceFilter) (*dto.AttendanceListResponse, error)
	StudentStats(ctx context.Context, id string) (*dto.StudentStatsResponse, error)
}

// AttendanceHandler exposes remaining-session accounting.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// List godoc
// @Summary Attendance records per student
// @Description Students with their remaining sessions, ranked by sort.
// @Tags Attendance
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Param sort query string false "remaining_desc, remaining_asc, completed or none" default(remaining_desc)
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := service.AttendanceFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   models.SortMode(strings.TrimSpace(c.Query("sort"))),
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudentStats godoc
// @Summary Attendance detail for one student
// @Tags Attendance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/stats [get]
func (h *AttendanceHandler) StudentStats(c *gin.Context) {
	result, err := h.service.StudentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
