package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconciliationResult reports the outcome of rebuilding an envelope
// balance from its transaction history.
type ReconciliationResult struct {
	EnvelopeID     uuid.UUID       `json:"envelopeId"`
	PreviousAmount decimal.Decimal `json:"previousAmount"`
	RebuiltAmount  decimal.Decimal `json:"rebuiltAmount"`
	Entries        int             `json:"entries"`
}

// ReconcileEnvelope recomputes the envelope balance from its full
// transaction history, independent of the running balance.
//
// Transfer legs already encode their direction, all other entries apply
// the envelope's balance convention. The final balance is floored at
// zero and written back as an unconditional overwrite. History is
// authoritative afterwards: the operation is safe to re-run any number
// of times.
func ReconcileEnvelope(db *gorm.DB, userID, envelopeID uuid.UUID) (ReconciliationResult, error) {
	var result ReconciliationResult

	err := db.Transaction(func(tx *gorm.DB) error {
		envelope, err := EnvelopeForUser(tx, userID, envelopeID)
		if err != nil {
			return err
		}

		var entries []Transaction
		err = tx.
			Where("user_id = ? AND envelope_id = ?", userID, envelopeID).
			Order("date ASC, created_at ASC").
			Find(&entries).Error
		if err != nil {
			return err
		}

		balance := decimal.Zero
		for _, entry := range entries {
			balance = balance.Add(entry.effectOn(envelope))
		}

		if balance.IsNegative() {
			balance = decimal.Zero
		}

		result = ReconciliationResult{
			EnvelopeID:     envelope.ID,
			PreviousAmount: envelope.CurrentAmount,
			RebuiltAmount:  balance,
			Entries:        len(entries),
		}

		return envelope.setBalance(tx, balance)
	})
	if err != nil {
		return ReconciliationResult{}, err
	}

	return result, nil
}
