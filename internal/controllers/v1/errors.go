package v1

import (
	"errors"
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no envelope matching your query"`
}

// status returns the appropriate HTTP status for an error from the
// models package.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, models.ErrNoClosedMonth) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrMonthAlreadyClosed) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var errUserIDRequired = errors.New("the X-User-ID header must be set to a valid UUID")
