package v1

import (
	"net/http"
	"time"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/Carl9703/moj-budzet-sub001/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterMonthRoutes registers the routes for months with
// the RouterGroup that is passed.
func RegisterMonthRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMonth)
		r.GET("", GetMonth)
	}

	{
		r.OPTIONS("/close", OptionsMonthClose)
		r.POST("/close", CloseMonth)
	}

	{
		r.OPTIONS("/undo", OptionsMonthUndo)
		r.POST("/undo", UndoClose)
	}
}

type MonthResponse struct {
	Data  *models.MonthStats `json:"data"`
	Error *string            `json:"error"`
}

type CloseResponse struct {
	Data  *models.CloseSummary `json:"data"`
	Error *string              `json:"error"`
}

type UndoResponse struct {
	Data  *models.UndoSummary `json:"data"`
	Error *string             `json:"error"`
}

type QueryMonth struct {
	Month time.Time `form:"month" time_format:"2006-01" time_utc:"1" example:"2022-07"` // Year and month
}

func OptionsMonth(c *gin.Context) {
	httputil.OptionsGet(c)
}

func OptionsMonthClose(c *gin.Context) {
	httputil.OptionsPost(c)
}

func OptionsMonthUndo(c *gin.Context) {
	httputil.OptionsPost(c)
}

// GetMonth returns the partition sums for a month without closing it.
func GetMonth(c *gin.Context) {
	var query QueryMonth
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, MonthResponse{Error: &e})
		return
	}

	month := types.MonthOf(query.Month)
	if query.Month.IsZero() {
		month = types.MonthOf(time.Now().In(time.UTC))
	}

	stats, err := models.MonthStatistics(models.DB, currentUser(c), month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MonthResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: &stats})
}

// CloseMonth sweeps the month's surplus into the savings envelope and
// resets the monthly envelopes. Defaults to the current month.
func CloseMonth(c *gin.Context) {
	var query QueryMonth
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CloseResponse{Error: &e})
		return
	}

	var month types.Month
	if !query.Month.IsZero() {
		month = types.MonthOf(query.Month)
	}

	summary, err := models.CloseMonth(models.DB, currentUser(c), month)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CloseResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CloseResponse{Data: &summary})
}

// UndoClose reverses the latest month close of the user.
func UndoClose(c *gin.Context) {
	summary, err := models.UndoClose(models.DB, currentUser(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UndoResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, UndoResponse{Data: &summary})
}
