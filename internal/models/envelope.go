package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// EnvelopeType determines the planning horizon of an envelope.
type EnvelopeType string

const (
	EnvelopeTypeMonthly EnvelopeType = "monthly"
	EnvelopeTypeYearly  EnvelopeType = "yearly"
)

// BalanceConvention determines how income and expense entries affect
// the envelope balance.
//
// For the standard convention an expense subtracts from the balance and
// an income adds to it. The inverted convention is used by the savings
// accumulator envelope, where an expense is a contribution and an income
// is a withdrawal.
type BalanceConvention string

const (
	ConventionStandard BalanceConvention = "standard"
	ConventionInverted BalanceConvention = "inverted"
)

// ResetPolicy determines whether the month close resets the envelope
// balance to zero.
type ResetPolicy string

const (
	ResetMonthly ResetPolicy = "monthly"
	ResetNever   ResetPolicy = "never"
)

// Envelope represents a named budget bucket with a running balance.
type Envelope struct {
	DefaultModel
	UserID            uuid.UUID         `json:"userId" gorm:"index"`
	Name              string            `json:"name"`
	Icon              string            `json:"icon"`
	Group             string            `json:"group"` // Informational tag, e.g. "needs" or "target"
	Type              EnvelopeType      `json:"type"`
	PlannedAmount     decimal.Decimal   `json:"plannedAmount" gorm:"type:DECIMAL(20,8)"`
	CurrentAmount     decimal.Decimal   `json:"currentAmount" gorm:"type:DECIMAL(20,8)"`
	BalanceConvention BalanceConvention `json:"balanceConvention"`
	ResetPolicy       ResetPolicy       `json:"resetPolicy"`
	Archived          bool              `json:"archived"`
}

// BeforeSave trims whitespace and fills in defaults derived from the
// envelope type.
func (e *Envelope) BeforeSave(_ *gorm.DB) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Icon = strings.TrimSpace(e.Icon)
	e.Group = strings.TrimSpace(e.Group)

	if e.Type == "" {
		e.Type = EnvelopeTypeMonthly
	}

	if e.BalanceConvention == "" {
		e.BalanceConvention = ConventionStandard
	}

	// Monthly envelopes are reset at month close, yearly ones persist
	if e.ResetPolicy == "" {
		if e.Type == EnvelopeTypeMonthly {
			e.ResetPolicy = ResetMonthly
		} else {
			e.ResetPolicy = ResetNever
		}
	}

	return nil
}

// BeforeCreate validates the envelope and ensures that at most one
// envelope with inverted balance convention exists per user.
func (e *Envelope) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	if e.Name == "" {
		return ErrEnvelopeNameRequired
	}

	if e.PlannedAmount.IsNegative() {
		return ErrPlannedAmountNegative
	}

	if err := e.checkEnums(); err != nil {
		return err
	}

	if e.BalanceConvention == ConventionInverted {
		var count int64
		err := tx.Model(&Envelope{}).
			Where(&Envelope{UserID: e.UserID, BalanceConvention: ConventionInverted}).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrSavingsEnvelopeExists
		}
	}

	return nil
}

// BeforeUpdate verifies the state of the envelope before committing an
// update to the database.
func (e *Envelope) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("PlannedAmount") {
		toSave, ok := tx.Statement.Dest.(Envelope)
		if ok && toSave.PlannedAmount.IsNegative() {
			return ErrPlannedAmountNegative
		}
	}

	return nil
}

func (e *Envelope) checkEnums() error {
	if !slices.Contains([]EnvelopeType{EnvelopeTypeMonthly, EnvelopeTypeYearly}, e.Type) {
		return ErrEnvelopeTypeInvalid
	}

	if !slices.Contains([]BalanceConvention{ConventionStandard, ConventionInverted}, e.BalanceConvention) {
		return ErrBalanceConventionInvalid
	}

	if !slices.Contains([]ResetPolicy{ResetMonthly, ResetNever}, e.ResetPolicy) {
		return ErrResetPolicyInvalid
	}

	return nil
}

// EnvelopeForUser returns the envelope with the ID if it belongs to the
// user. A lookup across users reports not found, never the existence of
// the resource.
func EnvelopeForUser(db *gorm.DB, userID, id uuid.UUID) (Envelope, error) {
	var envelope Envelope
	err := db.Where(&Envelope{UserID: userID}).First(&envelope, "id = ?", id).Error
	if err != nil {
		return Envelope{}, err
	}

	return envelope, nil
}

// SavingsEnvelope returns the user's envelope with inverted balance
// convention.
func SavingsEnvelope(db *gorm.DB, userID uuid.UUID) (Envelope, error) {
	var envelope Envelope
	err := db.
		Where(&Envelope{UserID: userID, BalanceConvention: ConventionInverted}).
		First(&envelope).Error
	if err != nil {
		return Envelope{}, err
	}

	return envelope, nil
}

// addBalance applies a relative delta to the envelope balance.
//
// It is used by every ledger write so that balance mutations always
// happen inside the transaction of the triggering ledger operation.
func (e *Envelope) addBalance(tx *gorm.DB, delta decimal.Decimal) error {
	e.CurrentAmount = e.CurrentAmount.Add(delta)
	return tx.Model(e).Select("CurrentAmount").Updates(Envelope{CurrentAmount: e.CurrentAmount}).Error
}

// setBalance overwrites the envelope balance unconditionally.
//
// Only reconciliation and the month close reset may do this, every
// other mutation has to go through addBalance.
func (e *Envelope) setBalance(tx *gorm.DB, balance decimal.Decimal) error {
	e.CurrentAmount = balance
	return tx.Model(e).Select("CurrentAmount").Updates(Envelope{CurrentAmount: balance}).Error
}
