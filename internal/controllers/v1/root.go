package v1

import (
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all v1 routes with the RouterGroup passed.
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", GetRoot)
	r.OPTIONS("", OptionsRoot)

	// Everything below operates on resources of a specific user
	user := r.Group("", ResolveUser())
	RegisterEnvelopeRoutes(user.Group("/envelopes"))
	RegisterTransactionRoutes(user.Group("/transactions"))
	RegisterTransferRoutes(user.Group("/transfers"))
	RegisterMonthRoutes(user.Group("/months"))
	RegisterOnboardingRoutes(user.Group("/onboarding"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Envelopes    string `json:"envelopes" example:"https://example.com/v1/envelopes"`
	Transactions string `json:"transactions" example:"https://example.com/v1/transactions"`
	Transfers    string `json:"transfers" example:"https://example.com/v1/transfers"`
	Months       string `json:"months" example:"https://example.com/v1/months"`
	Onboarding   string `json:"onboarding" example:"https://example.com/v1/onboarding"`
}

// GetRoot lists the endpoints of API v1.
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Envelopes:    "/v1/envelopes",
			Transactions: "/v1/transactions",
			Transfers:    "/v1/transfers",
			Months:       "/v1/months",
			Onboarding:   "/v1/onboarding",
		},
	})
}

func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}
