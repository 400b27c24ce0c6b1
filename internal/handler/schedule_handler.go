package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/service"
	"github.com/noah-isme/coursebook-api/pkg/response"
)

// ScheduleHandler exposes class event and roster endpoints.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List godoc
// @Summary List class events
// @Tags Events
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Param day query string false "Day (YYYY-MM-DD), takes precedence over month"
// @Param sort query string false "Sort field, prefix with - for descending" default(-date_time)
// @Param limit query int false "Maximum number of records"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	list, err := listFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := service.EventFilter{
		ListFilter: list,
		Month:      strings.TrimSpace(c.Query("month")),
		Day:        strings.TrimSpace(c.Query("day")),
	}
	events, pagination, err := h.schedule.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get class event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	event, err := h.schedule.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Schedule a class event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.EventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update a class event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.EventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.schedule.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// MarkAttendance godoc
// @Summary Mark one attendee
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param studentId path string true "Student ID"
// @Param payload body service.AttendanceMarkRequest true "Attendance status"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/attendees/{studentId} [put]
func (h *ScheduleHandler) MarkAttendance(c *gin.Context) {
	var req service.AttendanceMarkRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.schedule.MarkAttendance(c.Request.Context(), c.Param("id"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete a class event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204
// @Router /events/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
