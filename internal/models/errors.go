package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Envelope errors
var (
	ErrEnvelopeNameRequired     = errors.New("the envelope name must be set")
	ErrPlannedAmountNegative    = errors.New("the planned amount must not be negative")
	ErrSavingsEnvelopeExists    = errors.New("there already is an envelope with inverted balance convention for this user")
	ErrNoSavingsEnvelope        = errors.New("no envelope with inverted balance convention exists for this user")
	ErrEnvelopeTypeInvalid      = errors.New("the envelope type is invalid")
	ErrBalanceConventionInvalid = errors.New("the balance convention is invalid")
	ErrResetPolicyInvalid       = errors.New("the reset policy is invalid")
)

// Transaction errors
var (
	ErrAmountNotPositive       = errors.New("the transaction amount must be positive")
	ErrNewAmountNegative       = errors.New("the new transaction amount must not be negative")
	ErrTransactionTypeInvalid  = errors.New("the transaction type is invalid")
	ErrCloseEntryProtected     = errors.New("closing entries can only be removed by undoing the month close")
	ErrTransferPairIncomplete  = errors.New("the transfer is missing its second leg")
)

// Transfer errors
var (
	ErrSameEnvelope      = errors.New("source and destination envelope must be different")
	ErrInsufficientFunds = errors.New("the source envelope does not hold enough funds for this transfer")
)

// Month close errors
var (
	ErrMonthAlreadyClosed = errors.New("this month has already been closed")
	ErrNoClosedMonth      = errors.New("there is no closed month to undo")
)
