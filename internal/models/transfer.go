package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransferCreate is the set of caller supplied values for a transfer
// between two envelopes.
type TransferCreate struct {
	FromEnvelopeID uuid.UUID       `json:"fromEnvelopeId"`
	ToEnvelopeID   uuid.UUID       `json:"toEnvelopeId"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Category       string          `json:"category"`
}

// Transfer is a matched pair of ledger entries moving funds between two
// envelopes of the same user.
type Transfer struct {
	PairID   uuid.UUID   `json:"pairId"`
	Outgoing Transaction `json:"outgoing"`
	Incoming Transaction `json:"incoming"`
}

// CreateTransfer moves funds between two envelopes.
//
// It creates one expense entry on the source and one income entry on
// the destination, both marked as transfer legs sharing a pair ID and
// excluded from statistics. Either both entries and both balance
// updates land, or none do.
func CreateTransfer(db *gorm.DB, userID uuid.UUID, create TransferCreate) (Transfer, error) {
	if !create.Amount.IsPositive() {
		return Transfer{}, ErrAmountNotPositive
	}

	if create.FromEnvelopeID == create.ToEnvelopeID {
		return Transfer{}, ErrSameEnvelope
	}

	var transfer Transfer

	err := db.Transaction(func(tx *gorm.DB) error {
		source, err := EnvelopeForUser(tx, userID, create.FromEnvelopeID)
		if err != nil {
			return err
		}

		destination, err := EnvelopeForUser(tx, userID, create.ToEnvelopeID)
		if err != nil {
			return err
		}

		if source.CurrentAmount.LessThan(create.Amount) {
			return ErrInsufficientFunds
		}

		err = source.addBalance(tx, create.Amount.Neg())
		if err != nil {
			return err
		}

		err = destination.addBalance(tx, create.Amount)
		if err != nil {
			return err
		}

		pairID := uuid.New()
		date := create.Date
		if date.IsZero() {
			date = time.Now().In(time.UTC)
		}

		outgoing := Transaction{
			UserID:         userID,
			Type:           TypeExpense,
			Kind:           KindTransferLeg,
			Amount:         create.Amount,
			Date:           date,
			Description:    "Transfer: " + source.Name + " -> " + destination.Name,
			EnvelopeID:     &source.ID,
			IncludeInStats: false,
			TransferPairID: &pairID,
		}
		err = tx.Create(&outgoing).Error
		if err != nil {
			return err
		}

		incoming := Transaction{
			UserID:         userID,
			Type:           TypeIncome,
			Kind:           KindTransferLeg,
			Amount:         create.Amount,
			Date:           date,
			Description:    "Transfer: " + source.Name + " -> " + destination.Name,
			EnvelopeID:     &destination.ID,
			Category:       create.Category,
			IncludeInStats: false,
			TransferPairID: &pairID,
		}
		err = tx.Create(&incoming).Error
		if err != nil {
			return err
		}

		transfer = Transfer{
			PairID:   pairID,
			Outgoing: outgoing,
			Incoming: incoming,
		}

		return nil
	})
	if err != nil {
		return Transfer{}, err
	}

	return transfer, nil
}
