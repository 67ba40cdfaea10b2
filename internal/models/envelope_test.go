package models_test

import (
	"strings"
	"testing"

	"github.com/Carl9703/moj-budzet-sub001/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestEnvelopeDefaults() {
	tests := []struct {
		name            string
		envelopeType    models.EnvelopeType
		wantType        models.EnvelopeType
		wantResetPolicy models.ResetPolicy
		wantConvention  models.BalanceConvention
	}{
		{"empty type defaults to monthly", "", models.EnvelopeTypeMonthly, models.ResetMonthly, models.ConventionStandard},
		{"monthly envelopes reset monthly", models.EnvelopeTypeMonthly, models.EnvelopeTypeMonthly, models.ResetMonthly, models.ConventionStandard},
		{"yearly envelopes never reset", models.EnvelopeTypeYearly, models.EnvelopeTypeYearly, models.ResetNever, models.ConventionStandard},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			envelope := suite.createTestEnvelope(models.Envelope{Type: tt.envelopeType})

			assert.Equal(t, tt.wantType, envelope.Type)
			assert.Equal(t, tt.wantResetPolicy, envelope.ResetPolicy)
			assert.Equal(t, tt.wantConvention, envelope.BalanceConvention)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopeCreateValidation() {
	userID := uuid.New()

	tests := []struct {
		name     string
		envelope models.Envelope
		err      error
	}{
		{"name required", models.Envelope{UserID: userID}, models.ErrEnvelopeNameRequired},
		{"negative planned amount", models.Envelope{UserID: userID, Name: "Transport", PlannedAmount: decimal.NewFromInt(-1)}, models.ErrPlannedAmountNegative},
		{"invalid type", models.Envelope{UserID: userID, Name: "Transport", Type: "weekly"}, models.ErrEnvelopeTypeInvalid},
		{"invalid convention", models.Envelope{UserID: userID, Name: "Transport", BalanceConvention: "upside-down"}, models.ErrBalanceConventionInvalid},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.envelope).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopeSingleSavingsAccumulator() {
	userID := uuid.New()

	_ = suite.createTestEnvelope(models.Envelope{
		UserID:            userID,
		Name:              "Budowanie Przyszłości",
		Type:              models.EnvelopeTypeYearly,
		BalanceConvention: models.ConventionInverted,
	})

	second := models.Envelope{
		UserID:            userID,
		Name:              "Drugi fundusz",
		Type:              models.EnvelopeTypeYearly,
		BalanceConvention: models.ConventionInverted,
	}
	err := models.DB.Create(&second).Error
	assert.ErrorIs(suite.T(), err, models.ErrSavingsEnvelopeExists)

	// A different user is not affected
	other := models.Envelope{
		UserID:            uuid.New(),
		Name:              "Budowanie Przyszłości",
		BalanceConvention: models.ConventionInverted,
	}
	err = models.DB.Create(&other).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestEnvelopeForUserScoping() {
	envelope := suite.createTestEnvelope(models.Envelope{Name: "Mieszkanie"})

	_, err := models.EnvelopeForUser(models.DB, envelope.UserID, envelope.ID)
	assert.Nil(suite.T(), err)

	// Another user must not see the envelope
	_, err = models.EnvelopeForUser(models.DB, uuid.New(), envelope.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestEnvelopeTrimWhitespace() {
	name := "  Jedzenie \t"
	group := " needs "

	envelope := suite.createTestEnvelope(models.Envelope{Name: name, Group: group})

	assert.Equal(suite.T(), strings.TrimSpace(name), envelope.Name)
	assert.Equal(suite.T(), strings.TrimSpace(group), envelope.Group)
}

func (suite *TestSuiteStandard) TestSavingsEnvelope() {
	userID := uuid.New()

	_, err := models.SavingsEnvelope(models.DB, userID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	created := suite.createTestEnvelope(models.Envelope{
		UserID:            userID,
		Name:              "Budowanie Przyszłości",
		Type:              models.EnvelopeTypeYearly,
		BalanceConvention: models.ConventionInverted,
	})

	found, err := models.SavingsEnvelope(models.DB, userID)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), created.ID, found.ID)
}
