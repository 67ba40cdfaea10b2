package v1

import (
	"net/http"

	"github.com/Carl9703/moj-budzet-sub001/internal/httputil"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterOnboardingRoutes registers the routes for onboarding with
// the RouterGroup that is passed.
func RegisterOnboardingRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsOnboarding)
	r.POST("", Onboard)
}

func OptionsOnboarding(c *gin.Context) {
	httputil.OptionsPost(c)
}

// Onboard seeds the default envelope set, including the savings
// accumulator, for the user.
func Onboard(c *gin.Context) {
	envelopes, err := models.CreateDefaultEnvelopes(models.DB, currentUser(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), EnvelopeListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, EnvelopeListResponse{Data: envelopes})
}
