package v1

import (
	"net/http"
	"time"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/Carl9703/moj-budzet-sub001/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransactionAmount)
		r.DELETE("/:id", DeleteTransaction)
	}
}

type TransactionResponse struct {
	Data  *models.Transaction `json:"data"`
	Error *string             `json:"error"`
}

type TransactionListResponse struct {
	Data  []models.Transaction `json:"data"`
	Error *string              `json:"error"`
}

type TransactionQueryFilter struct {
	Envelope  uuid.UUID `form:"envelope"`
	Type      string    `form:"type"`
	Kind      string    `form:"kind"`
	FromDate  time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`
	UntilDate time.Time `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`
}

func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

func CreateTransaction(c *gin.Context) {
	var create models.EntryCreate
	err := httputil.BindData(c, &create)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	transaction, err := models.CreateEntry(models.DB, currentUser(c), create)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: &transaction})
}

func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	if filter.Type != "" && !slices.Contains([]string{string(models.TypeIncome), string(models.TypeExpense)}, filter.Type) {
		e := models.ErrTransactionTypeInvalid.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	entryFilter := models.EntryFilter{
		Type: models.TransactionType(filter.Type),
		Kind: models.TransactionKind(filter.Kind),
		From: filter.FromDate,
	}

	if filter.Envelope != uuid.Nil {
		entryFilter.EnvelopeID = &filter.Envelope.UUID
	}

	// The filter is inclusive of the until day
	if !filter.UntilDate.IsZero() {
		entryFilter.Until = filter.UntilDate.AddDate(0, 0, 1)
	}

	transactions, err := models.Entries(models.DB, currentUser(c), entryFilter)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

func GetTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	transaction, err := models.EntryForUser(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

// UpdateTransactionAmount corrects the amount of an entry. Other fields
// of a ledger entry are immutable.
func UpdateTransactionAmount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	var update struct {
		Amount decimal.Decimal `json:"amount"`
	}
	err := httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	transaction, err := models.UpdateEntryAmount(models.DB, currentUser(c), uri.ID.UUID, update.Amount)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

func DeleteTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := models.DeleteEntry(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
