package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/models"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
	"github.com/noah-isme/coursebook-api/pkg/response"
)

// listFilterFromQuery reads the sort and limit query parameters.
func listFilterFromQuery(c *gin.Context) (models.ListFilter, error) {
	filter := models.ListFilter{Sort: strings.TrimSpace(c.Query("sort"))}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// bindJSON decodes the request body into dest, answering 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
