package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/Carl9703/moj-budzet-sub001/internal/controllers/v1"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/Carl9703/moj-budzet-sub001/internal/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestOptionsEnvelope() {
	_, headers := suite.user()

	recorder := test.Request(suite.T(), suite.controller, "OPTIONS", "/v1/envelopes", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	assert.Equal(suite.T(), "GET, POST", recorder.Header().Get("allow"))

	recorder = test.Request(suite.T(), suite.controller, "OPTIONS", fmt.Sprintf("/v1/envelopes/%s", uuid.New()), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)
	assert.Equal(suite.T(), "GET, PATCH, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateEnvelope() {
	_, headers := suite.user()

	recorder := test.Request(suite.T(), suite.controller, "POST", "/v1/envelopes", `{ "name": "Jedzenie", "icon": "🍞", "group": "needs", "plannedAmount": 1200 }`, headers)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, &recorder)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Equal(suite.T(), "Jedzenie", response.Data.Name)
	assert.Equal(suite.T(), models.EnvelopeTypeMonthly, response.Data.Type)
	assert.Equal(suite.T(), models.ResetMonthly, response.Data.ResetPolicy)
	assert.True(suite.T(), response.Data.PlannedAmount.Equal(amount(1200)))
}

func (suite *TestSuiteStandard) TestCreateEnvelopeInvalid() {
	_, headers := suite.user()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"broken json", `{ "name": "Jedzenie"`},
		{"missing name", `{ "icon": "🍞" }`},
		{"negative planned amount", `{ "name": "Jedzenie", "plannedAmount": -10 }`},
		{"unknown type", `{ "name": "Jedzenie", "type": "weekly" }`},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, "POST", "/v1/envelopes", tt.body, headers)
			test.AssertHTTPStatus(t, http.StatusBadRequest, &recorder)
		})
	}
}

func (suite *TestSuiteStandard) TestCreateEnvelopeRequiresUser() {
	recorder := test.Request(suite.T(), suite.controller, "POST", "/v1/envelopes", `{ "name": "Jedzenie" }`)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestGetEnvelopes() {
	userID, headers := suite.user()

	_ = suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})
	_ = suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Transport"})
	_ = suite.createTestEnvelope(models.Envelope{UserID: uuid.New(), Name: "Cudza koperta"})

	recorder := test.Request(suite.T(), suite.controller, "GET", "/v1/envelopes", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Jedzenie", response.Data[0].Name)
	assert.Equal(suite.T(), "Transport", response.Data[1].Name)
}

func (suite *TestSuiteStandard) TestGetEnvelopesFilter() {
	userID, headers := suite.user()

	_ = suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})
	_ = suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Wakacje", Type: models.EnvelopeTypeYearly})
	_ = suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Stara koperta", Archived: true})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"all active", "", 2},
		{"yearly", "type=yearly", 1},
		{"archived", "archived=true", 1},
		{"name glob", "name=Jedz*", 1},
		{"glob without match", "name=Oszcz*", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, suite.controller, "GET", fmt.Sprintf("/v1/envelopes?%s", tt.query), "", headers)
			test.AssertHTTPStatus(t, http.StatusOK, &recorder)

			var response v1.EnvelopeListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestGetEnvelope() {
	userID, headers := suite.user()
	envelope := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})

	recorder := test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), envelope.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetEnvelopeScopedToUser() {
	envelope := suite.createTestEnvelope(models.Envelope{UserID: uuid.New(), Name: "Jedzenie"})

	_, headers := suite.user()
	recorder := test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}

func (suite *TestSuiteStandard) TestUpdateEnvelope() {
	userID, headers := suite.user()
	envelope := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})

	recorder := test.Request(suite.T(), suite.controller, "PATCH", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), `{ "name": "Jedzenie i picie", "plannedAmount": 1500 }`, headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Jedzenie i picie", response.Data.Name)
	assert.True(suite.T(), response.Data.PlannedAmount.Equal(amount(1500)))
}

func (suite *TestSuiteStandard) TestUpdateEnvelopeNegativePlannedAmount() {
	userID, headers := suite.user()
	envelope := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})

	recorder := test.Request(suite.T(), suite.controller, "PATCH", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), `{ "plannedAmount": -1 }`, headers)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestArchiveEnvelope() {
	userID, headers := suite.user()
	envelope := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})

	recorder := test.Request(suite.T(), suite.controller, "DELETE", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, &recorder)

	// Archiving hides the envelope from the default listing but keeps it
	// readable
	var listResponse v1.EnvelopeListResponse
	listRecorder := test.Request(suite.T(), suite.controller, "GET", "/v1/envelopes", "", headers)
	test.DecodeResponse(suite.T(), &listRecorder, &listResponse)
	assert.Len(suite.T(), listResponse.Data, 0)

	recorder = test.Request(suite.T(), suite.controller, "GET", fmt.Sprintf("/v1/envelopes/%s", envelope.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.EnvelopeResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.True(suite.T(), response.Data.Archived)
}

func (suite *TestSuiteStandard) TestReconcileEnvelopeEndpoint() {
	userID, headers := suite.user()
	envelope := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})

	_ = suite.createTestEntry(userID, models.EntryCreate{
		Type:       models.TypeIncome,
		Amount:     amount(1200),
		Date:       date(2026, 1, 1),
		EnvelopeID: &envelope.ID,
	})

	require.Nil(suite.T(), models.DB.Model(&envelope).Update("current_amount", amount(5)).Error)

	recorder := test.Request(suite.T(), suite.controller, "POST", fmt.Sprintf("/v1/envelopes/%s/reconcile", envelope.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.ReconciliationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.RebuiltAmount.Equal(amount(1200)))
	assert.Equal(suite.T(), 1, response.Data.Entries)
}
