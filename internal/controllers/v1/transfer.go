package v1

import (
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterTransferRoutes registers the routes for transfers with
// the RouterGroup that is passed.
func RegisterTransferRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTransfers)
	r.POST("", CreateTransfer)
}

type TransferResponse struct {
	Data  *models.Transfer `json:"data"`
	Error *string          `json:"error"`
}

func OptionsTransfers(c *gin.Context) {
	httputil.OptionsPost(c)
}

// CreateTransfer moves funds between two envelopes of the user as one
// atomic pair of ledger entries.
func CreateTransfer(c *gin.Context) {
	var create models.TransferCreate
	err := httputil.BindData(c, &create)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransferResponse{Error: &e})
		return
	}

	transfer, err := models.CreateTransfer(models.DB, currentUser(c), create)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TransferResponse{Data: &transfer})
}
