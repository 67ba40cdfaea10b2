package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// defaultEnvelopes is the envelope set every user starts with.
//
// "Budowanie Przyszłości" is the savings accumulator: contributions are
// recorded as expenses, so its balance convention is inverted and the
// month close never resets it.
var defaultEnvelopes = []Envelope{
	{Name: "Jedzenie", Icon: "🍞", Group: "needs", Type: EnvelopeTypeMonthly, PlannedAmount: decimal.NewFromInt(1200)},
	{Name: "Mieszkanie", Icon: "🏠", Group: "needs", Type: EnvelopeTypeMonthly, PlannedAmount: decimal.NewFromInt(2000)},
	{Name: "Transport", Icon: "🚌", Group: "needs", Type: EnvelopeTypeMonthly, PlannedAmount: decimal.NewFromInt(300)},
	{Name: "Rozrywka", Icon: "🎉", Group: "wants", Type: EnvelopeTypeMonthly, PlannedAmount: decimal.NewFromInt(400)},
	{Name: "Wakacje", Icon: "🏖️", Group: "target", Type: EnvelopeTypeYearly, PlannedAmount: decimal.NewFromInt(5000)},
	{
		Name:              "Budowanie Przyszłości",
		Icon:              "🌱",
		Group:             "target",
		Type:              EnvelopeTypeYearly,
		BalanceConvention: ConventionInverted,
		ResetPolicy:       ResetNever,
	},
}

// CreateDefaultEnvelopes seeds the default envelope set for a new user.
func CreateDefaultEnvelopes(db *gorm.DB, userID uuid.UUID) ([]Envelope, error) {
	envelopes := make([]Envelope, len(defaultEnvelopes))

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, envelope := range defaultEnvelopes {
			envelope.UserID = userID

			err := tx.Create(&envelope).Error
			if err != nil {
				return err
			}

			envelopes[i] = envelope
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return envelopes, nil
}
