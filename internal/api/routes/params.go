// filename: internal/api/routes/params.go
package routes

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novasec/honeydash/internal/common/errors"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/query"
)

// Значения по умолчанию параметров запроса
const (
	DefaultPreset   = query.DefaultPreset
	DefaultPageSize = 25
)

// ParseTimeRange разбирает preset, from и to из query-параметров // v1.0
func ParseTimeRange(c *gin.Context, now time.Time) (models.TimeRange, error) {
	return query.ResolveTimeRange(c.Query("preset"), c.Query("from"), c.Query("to"), now)
}

// ParseFilters разбирает фильтры; множества принимаются через запятую или повтором параметра // v1.0
func ParseFilters(c *gin.Context) models.Filters {
	return models.Filters{
		Sensors:     listParam(c, "sensors"),
		Protocols:   listParam(c, "protocols"),
		Countries:   listParam(c, "countries"),
		EventTypes:  listParam(c, "eventTypes"),
		IPAddress:   strings.TrimSpace(c.Query("ip")),
		Username:    c.Query("username"),
		Password:    c.Query("password"),
		Credentials: c.Query("credentials"),
		Query:       strings.TrimSpace(c.Query("q")),
	}
}

// ParsePage разбирает page и pageSize. Нечисловое значение дает ошибку пагинации. // v1.0
func ParsePage(c *gin.Context) (models.Page, error) {
	page := models.Page{Page: 0, PageSize: DefaultPageSize}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New(errors.ErrorCodeInvalidPagination, "page must be an integer").AddDetail("page", v)
		}
		page.Page = n
	}
	if v := c.Query("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New(errors.ErrorCodeInvalidPagination, "pageSize must be an integer").AddDetail("pageSize", v)
		}
		page.PageSize = n
	}

	if err := page.Validate(); err != nil {
		return page, errors.Wrap(err, errors.ErrorCodeInvalidPagination, models.ValidationMessage(err))
	}
	return page, nil
}

func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// respondError отдает DashError с его HTTP статусом // v1.0
func respondError(c *gin.Context, err error) {
	status := errors.StatusCode(err)
	body := gin.H{
		"error":     string(errors.GetErrorCode(err)),
		"message":   err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	var dashErr *errors.DashError
	if errors.As(err, &dashErr) {
		body["message"] = dashErr.Message
		if len(dashErr.Details) > 0 {
			body["details"] = dashErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}
