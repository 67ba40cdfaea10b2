package v1_test

import (
	"net/http"

	v1 "github.com/Carl9703/moj-budzet-sub001/internal/controllers/v1"
	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/Carl9703/moj-budzet-sub001/internal/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthFixture books income and expenses in January 2026 for a fresh
// user with a savings accumulator.
func (suite *TestSuiteStandard) monthFixture() (uuid.UUID, map[string]string, models.Envelope) {
	userID, headers := suite.user()

	monthly := suite.createTestEnvelope(models.Envelope{UserID: userID, Name: "Jedzenie"})
	savings := suite.createTestEnvelope(models.Envelope{
		UserID:            userID,
		Name:              "Budowanie Przyszłości",
		Type:              models.EnvelopeTypeYearly,
		BalanceConvention: models.ConventionInverted,
	})

	_ = suite.createTestEntry(userID, models.EntryCreate{
		Type:   models.TypeIncome,
		Amount: amount(5000),
		Date:   date(2026, 1, 5),
	})
	_ = suite.createTestEntry(userID, models.EntryCreate{
		Type:       models.TypeExpense,
		Amount:     amount(3000),
		Date:       date(2026, 1, 15),
		EnvelopeID: &monthly.ID,
	})

	return userID, headers, savings
}

func (suite *TestSuiteStandard) TestGetMonth() {
	_, headers, _ := suite.monthFixture()

	recorder := test.Request(suite.T(), suite.controller, "GET", "/v1/months?month=2026-01", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.MonthResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Income.Equal(amount(5000)))
	assert.True(suite.T(), response.Data.Expenses.Equal(amount(3000)))
	assert.True(suite.T(), response.Data.Balance.Equal(amount(2000)))
}

func (suite *TestSuiteStandard) TestGetMonthInvalid() {
	_, headers := suite.user()

	recorder := test.Request(suite.T(), suite.controller, "GET", "/v1/months?month=later", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, &recorder)
}

func (suite *TestSuiteStandard) TestCloseMonthEndpoint() {
	userID, headers, savings := suite.monthFixture()

	recorder := test.Request(suite.T(), suite.controller, "POST", "/v1/months/close?month=2026-01", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.CloseResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Transferred.Equal(amount(2000)))

	reloaded, err := models.EnvelopeForUser(models.DB, userID, savings.ID)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), reloaded.CurrentAmount.Equal(amount(2000)))

	// The second close of the same month conflicts
	recorder = test.Request(suite.T(), suite.controller, "POST", "/v1/months/close?month=2026-01", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, &recorder)
}

func (suite *TestSuiteStandard) TestUndoCloseEndpoint() {
	userID, headers, savings := suite.monthFixture()

	recorder := test.Request(suite.T(), suite.controller, "POST", "/v1/months/close?month=2026-01", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	recorder = test.Request(suite.T(), suite.controller, "POST", "/v1/months/undo", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, &recorder)

	var response v1.UndoResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data)
	assert.True(suite.T(), response.Data.Reversed.Equal(amount(2000)))

	reloaded, err := models.EnvelopeForUser(models.DB, userID, savings.ID)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), reloaded.CurrentAmount.IsZero())
}

func (suite *TestSuiteStandard) TestUndoCloseWithoutClose() {
	_, headers := suite.user()

	recorder := test.Request(suite.T(), suite.controller, "POST", "/v1/months/undo", "", headers)
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, &recorder)
}
