package v1

import (
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

// RegisterEnvelopeRoutes registers the routes for envelopes with
// the RouterGroup that is passed.
func RegisterEnvelopeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsEnvelopeList)
		r.GET("", GetEnvelopes)
		r.POST("", CreateEnvelope)
	}

	// Envelope with ID
	{
		r.OPTIONS("/:id", OptionsEnvelopeDetail)
		r.GET("/:id", GetEnvelope)
		r.PATCH("/:id", UpdateEnvelope)
		r.DELETE("/:id", ArchiveEnvelope)
		r.POST("/:id/reconcile", ReconcileEnvelope)
	}
}

type EnvelopeResponse struct {
	Data  *models.Envelope `json:"data"`
	Error *string          `json:"error"`
}

type EnvelopeListResponse struct {
	Data  []models.Envelope `json:"data"`
	Error *string           `json:"error"`
}

type ReconciliationResponse struct {
	Data  *models.ReconciliationResult `json:"data"`
	Error *string                      `json:"error"`
}

// EnvelopeEditable contains the fields callers can set on an envelope.
type EnvelopeEditable struct {
	Name              string                   `json:"name" example:"Jedzenie"`
	Icon              string                   `json:"icon" example:"🍞"`
	Group             string                   `json:"group" example:"needs"`
	Type              models.EnvelopeType      `json:"type" example:"monthly"`
	PlannedAmount     decimal.Decimal          `json:"plannedAmount" example:"1200"`
	BalanceConvention models.BalanceConvention `json:"balanceConvention" example:"standard"`
	ResetPolicy       models.ResetPolicy       `json:"resetPolicy" example:"monthly"`
}

type EnvelopeQueryFilter struct {
	Type     string `form:"type"`
	Name     string `form:"name" filterField:"false"` // Glob match on the name
	Archived bool   `form:"archived"`
}

func OptionsEnvelopeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func OptionsEnvelopeDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

func CreateEnvelope(c *gin.Context) {
	var editable EnvelopeEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeResponse{Error: &e})
		return
	}

	envelope := models.Envelope{
		UserID:            currentUser(c),
		Name:              editable.Name,
		Icon:              editable.Icon,
		Group:             editable.Group,
		Type:              editable.Type,
		PlannedAmount:     editable.PlannedAmount,
		BalanceConvention: editable.BalanceConvention,
		ResetPolicy:       editable.ResetPolicy,
	}

	err = models.DB.Create(&envelope).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, EnvelopeResponse{Data: &envelope})
}

func GetEnvelopes(c *gin.Context) {
	var filter EnvelopeQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeListResponse{Error: &e})
		return
	}

	q := models.DB.
		Where(&models.Envelope{UserID: currentUser(c)}).
		Where("archived = ?", filter.Archived).
		Order("name ASC")

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var envelopes []models.Envelope
	err := q.Find(&envelopes).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeListResponse{Error: &e})
		return
	}

	// The glob match can not happen in the database
	if filter.Name != "" {
		matched := make([]models.Envelope, 0, len(envelopes))
		for _, envelope := range envelopes {
			if glob.Glob(filter.Name, envelope.Name) {
				matched = append(matched, envelope)
			}
		}
		envelopes = matched
	}

	c.JSON(http.StatusOK, EnvelopeListResponse{Data: envelopes})
}

func GetEnvelope(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeResponse{Error: &e})
		return
	}

	envelope, err := models.EnvelopeForUser(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, EnvelopeResponse{Data: &envelope})
}

// UpdateEnvelope updates the metadata of an envelope. The balance can
// not be set directly, it only changes through ledger operations.
func UpdateEnvelope(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeResponse{Error: &e})
		return
	}

	envelope, err := models.EnvelopeForUser(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{Error: &e})
		return
	}

	var update struct {
		Name          *string          `json:"name"`
		Icon          *string          `json:"icon"`
		Group         *string          `json:"group"`
		PlannedAmount *decimal.Decimal `json:"plannedAmount"`
		Archived      *bool            `json:"archived"`
	}
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EnvelopeResponse{Error: &e})
		return
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Icon != nil {
		fields["icon"] = *update.Icon
	}
	if update.Group != nil {
		fields["group"] = *update.Group
	}
	if update.PlannedAmount != nil {
		if update.PlannedAmount.IsNegative() {
			e := models.ErrPlannedAmountNegative.Error()
			c.JSON(http.StatusBadRequest, EnvelopeResponse{Error: &e})
			return
		}
		fields["planned_amount"] = *update.PlannedAmount
	}
	if update.Archived != nil {
		fields["archived"] = *update.Archived
	}

	err = models.DB.Model(&envelope).Updates(fields).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, EnvelopeResponse{Data: &envelope})
}

// ArchiveEnvelope archives an envelope. Envelopes are never deleted,
// their transaction history has to stay intact for audit and undo.
func ArchiveEnvelope(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	envelope, err := models.EnvelopeForUser(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Model(&envelope).Update("archived", true).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ReconcileEnvelope rebuilds the envelope balance from its full
// transaction history.
func ReconcileEnvelope(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ReconciliationResponse{Error: &e})
		return
	}

	result, err := models.ReconcileEnvelope(models.DB, currentUser(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ReconciliationResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, ReconciliationResponse{Data: &result})
}
