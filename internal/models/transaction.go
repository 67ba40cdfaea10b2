package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// TransactionType is the direction of a monetary event.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// TransactionKind is the structural kind of a ledger entry.
//
// It is set at creation time and replaces the detection of transfers
// and closing entries by description substring.
type TransactionKind string

const (
	KindRegular         TransactionKind = "regular"
	KindTransferLeg     TransactionKind = "transfer_leg"
	KindMonthCloseSweep TransactionKind = "month_close_sweep"
)

// Transaction represents a single monetary event in the ledger.
//
// Amounts are always stored positive, the direction is derived from the
// type and, for regular entries, the balance convention of the linked
// envelope.
type Transaction struct {
	DefaultModel
	UserID         uuid.UUID       `json:"userId" gorm:"index;uniqueIndex:transaction_user_month_key"`
	Type           TransactionType `json:"type"`
	Kind           TransactionKind `json:"kind"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	EnvelopeID     *uuid.UUID      `json:"envelopeId" gorm:"index"`
	Category       string          `json:"category"`
	IncludeInStats bool            `json:"includeInStats"`
	TransferPairID *uuid.UUID      `json:"transferPairId" gorm:"index"`

	// Set on closing entries only. The swept amounts are stored as
	// structured fields so that the undo never has to parse them out
	// of the description.
	SavingsAmount decimal.Decimal `json:"savingsAmount" gorm:"type:DECIMAL(20,8)"`
	ReturnsAmount decimal.Decimal `json:"returnsAmount" gorm:"type:DECIMAL(20,8)"`
	MonthKey      *string         `json:"monthKey" gorm:"uniqueIndex:transaction_user_month_key"`
}

// BeforeSave sets the timezone for the Date to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if t.Kind == "" {
		t.Kind = KindRegular
	}

	return nil
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	t.Date = t.Date.In(time.UTC)
	return t.DefaultModel.AfterFind(tx)
}

// effectOn returns the signed delta the entry applies to the balance of
// the envelope it references.
//
// Transfer legs already encode their direction, only regular entries
// and closing entries follow the envelope's balance convention.
func (t Transaction) effectOn(e Envelope) decimal.Decimal {
	effect := t.Amount
	if t.Type == TypeExpense {
		effect = effect.Neg()
	}

	if t.Kind != KindTransferLeg && e.BalanceConvention == ConventionInverted {
		effect = effect.Neg()
	}

	return effect
}

// EntryCreate is the set of caller supplied values for a new ledger entry.
type EntryCreate struct {
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	EnvelopeID     *uuid.UUID      `json:"envelopeId"`
	Category       string          `json:"category"`
	IncludeInStats *bool           `json:"includeInStats"` // Defaults to true
}

// CreateEntry validates and inserts a regular ledger entry and applies
// its effect to the referenced envelope in the same transaction.
func CreateEntry(db *gorm.DB, userID uuid.UUID, create EntryCreate) (Transaction, error) {
	if !create.Amount.IsPositive() {
		return Transaction{}, ErrAmountNotPositive
	}

	if !slices.Contains([]TransactionType{TypeIncome, TypeExpense}, create.Type) {
		return Transaction{}, ErrTransactionTypeInvalid
	}

	includeInStats := true
	if create.IncludeInStats != nil {
		includeInStats = *create.IncludeInStats
	}

	transaction := Transaction{
		UserID:         userID,
		Type:           create.Type,
		Kind:           KindRegular,
		Amount:         create.Amount,
		Date:           create.Date,
		Description:    create.Description,
		EnvelopeID:     create.EnvelopeID,
		Category:       create.Category,
		IncludeInStats: includeInStats,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if create.EnvelopeID != nil {
			envelope, err := EnvelopeForUser(tx, userID, *create.EnvelopeID)
			if err != nil {
				return err
			}

			err = envelope.addBalance(tx, transaction.effectOn(envelope))
			if err != nil {
				return err
			}
		}

		return tx.Create(&transaction).Error
	})
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

// EntryForUser returns the ledger entry with the ID if it belongs to the user.
func EntryForUser(db *gorm.DB, userID, id uuid.UUID) (Transaction, error) {
	var transaction Transaction
	err := db.Where(&Transaction{UserID: userID}).First(&transaction, "id = ?", id).Error
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

// UpdateEntryAmount corrects the amount of a ledger entry.
//
// For expense entries linked to an envelope the difference is applied
// to the envelope balance, so reducing the amount returns funds and
// increasing it consumes more. Transfer legs are always corrected as a
// pair so that both halves keep the same amount.
func UpdateEntryAmount(db *gorm.DB, userID, id uuid.UUID, newAmount decimal.Decimal) (Transaction, error) {
	if newAmount.IsNegative() {
		return Transaction{}, ErrNewAmountNegative
	}

	transaction, err := EntryForUser(db, userID, id)
	if err != nil {
		return Transaction{}, err
	}

	if transaction.Kind == KindMonthCloseSweep {
		return Transaction{}, ErrCloseEntryProtected
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if transaction.TransferPairID != nil {
			legs, err := transferLegs(tx, userID, *transaction.TransferPairID)
			if err != nil {
				return err
			}

			for i := range legs {
				err = updateLegAmount(tx, &legs[i], newAmount, true)
				if err != nil {
					return err
				}

				if legs[i].ID == transaction.ID {
					transaction = legs[i]
				}
			}

			return nil
		}

		return updateLegAmount(tx, &transaction, newAmount, transaction.Type == TypeExpense)
	})
	if err != nil {
		return Transaction{}, err
	}

	return transaction, nil
}

// updateLegAmount sets the new amount on a single entry and, if
// adjustBalance is set, applies the resulting effect difference to the
// linked envelope.
func updateLegAmount(tx *gorm.DB, transaction *Transaction, newAmount decimal.Decimal, adjustBalance bool) error {
	oldEffect := decimal.Zero
	newEffect := decimal.Zero

	if transaction.EnvelopeID != nil && adjustBalance {
		envelope, err := EnvelopeForUser(tx, transaction.UserID, *transaction.EnvelopeID)
		if err != nil {
			return err
		}

		oldEffect = transaction.effectOn(envelope)

		updated := *transaction
		updated.Amount = newAmount
		newEffect = updated.effectOn(envelope)

		err = envelope.addBalance(tx, newEffect.Sub(oldEffect))
		if err != nil {
			return err
		}
	}

	transaction.Amount = newAmount
	return tx.Model(transaction).Select("Amount").Updates(Transaction{Amount: newAmount}).Error
}

// DeleteEntry removes a ledger entry and reverses its balance effect.
//
// Transfer legs are deleted as a pair. Reversals that would push an
// envelope below zero are floored at zero. Closing entries cannot be
// deleted directly, undoing the month close removes them.
func DeleteEntry(db *gorm.DB, userID, id uuid.UUID) error {
	transaction, err := EntryForUser(db, userID, id)
	if err != nil {
		return err
	}

	if transaction.Kind == KindMonthCloseSweep {
		return ErrCloseEntryProtected
	}

	return db.Transaction(func(tx *gorm.DB) error {
		toDelete := []Transaction{transaction}

		if transaction.TransferPairID != nil {
			legs, err := transferLegs(tx, userID, *transaction.TransferPairID)
			if err != nil {
				return err
			}
			toDelete = legs
		}

		for _, entry := range toDelete {
			if entry.EnvelopeID != nil {
				envelope, err := EnvelopeForUser(tx, userID, *entry.EnvelopeID)
				if err != nil {
					return err
				}

				reversed := envelope.CurrentAmount.Sub(entry.effectOn(envelope))
				if reversed.IsNegative() {
					reversed = decimal.Zero
				}

				err = envelope.setBalance(tx, reversed)
				if err != nil {
					return err
				}
			}

			err := tx.Delete(&Transaction{}, "id = ?", entry.ID).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// transferLegs returns both entries of a transfer pair.
func transferLegs(db *gorm.DB, userID, pairID uuid.UUID) ([]Transaction, error) {
	var legs []Transaction
	err := db.
		Where(&Transaction{UserID: userID}).
		Where("transfer_pair_id = ?", pairID).
		Find(&legs).Error
	if err != nil {
		return nil, err
	}

	// A lone half violates referential consistency
	if len(legs) != 2 {
		return nil, ErrTransferPairIncomplete
	}

	return legs, nil
}

// EntryFilter is the set of optional filters for listing ledger entries.
type EntryFilter struct {
	EnvelopeID *uuid.UUID
	Type       TransactionType
	Kind       TransactionKind
	From       time.Time
	Until      time.Time
}

// Entries returns the user's ledger entries matching the filter, newest
// first.
func Entries(db *gorm.DB, userID uuid.UUID, filter EntryFilter) ([]Transaction, error) {
	q := db.
		Where(&Transaction{UserID: userID}).
		Order("date DESC, created_at DESC")

	if filter.EnvelopeID != nil {
		q = q.Where("envelope_id = ?", *filter.EnvelopeID)
	}

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From.In(time.UTC))
	}

	if !filter.Until.IsZero() {
		q = q.Where("date < ?", filter.Until.In(time.UTC))
	}

	var transactions []Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
