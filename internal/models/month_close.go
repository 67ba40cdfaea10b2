package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carl9703/moj-budzet-sub001/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthStats holds the partition sums for one calendar month.
//
// Income covers income entries counting towards statistics, Returns
// covers income entries excluded from statistics (refunds and similar).
// Transfer legs and closing entries never count into either.
type MonthStats struct {
	Month       types.Month     `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Returns     decimal.Decimal `json:"returns"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
}

// CloseSummary is the result of closing a month.
type CloseSummary struct {
	MonthStats
	Transferred      decimal.Decimal `json:"transferred"`
	TargetEnvelopeID *uuid.UUID      `json:"targetEnvelopeId"`
	ResetEnvelopes   int             `json:"resetEnvelopes"`
}

// UndoSummary is the result of undoing the latest month close.
type UndoSummary struct {
	Month            types.Month     `json:"month"`
	Reversed         decimal.Decimal `json:"reversed"`
	RebuiltEnvelopes int             `json:"rebuiltEnvelopes"`
	DeletedEntryID   uuid.UUID       `json:"deletedEntryId"`
}

// monthSum returns the sum of all regular entries of the user in the
// month matching type and statistics flag.
func monthSum(db *gorm.DB, userID uuid.UUID, month types.Month, transactionType TransactionType, includeInStats bool) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.Model(&Transaction{}).
		Where("user_id = ? AND kind = ? AND type = ? AND include_in_stats = ?", userID, KindRegular, transactionType, includeInStats).
		Where("date >= ? AND date < ?", month.FirstDay(), month.Next().FirstDay()).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing transactions for month %s failed: %w", month, err)
	}

	return sum.Decimal, nil
}

// MonthStatistics computes the partition sums for the month without
// changing any state.
func MonthStatistics(db *gorm.DB, userID uuid.UUID, month types.Month) (MonthStats, error) {
	income, err := monthSum(db, userID, month, TypeIncome, true)
	if err != nil {
		return MonthStats{}, err
	}

	returns, err := monthSum(db, userID, month, TypeIncome, false)
	if err != nil {
		return MonthStats{}, err
	}

	expenses, err := monthSum(db, userID, month, TypeExpense, true)
	if err != nil {
		return MonthStats{}, err
	}

	stats := MonthStats{
		Month:    month,
		Income:   income,
		Returns:  returns,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}

	if income.IsPositive() {
		stats.SavingsRate = stats.Balance.Div(income)
	}

	return stats, nil
}

// CloseMonth closes the calendar month for the user.
//
// The month's surplus plus returns is swept into the savings envelope,
// a closing entry with the structured breakdown is recorded, and every
// envelope with monthly reset policy is set back to zero. A month
// without any entries is a no-op. Closing an already closed month
// fails with ErrMonthAlreadyClosed before anything is written, backed
// by a uniqueness constraint on the month key inside the transaction.
func CloseMonth(db *gorm.DB, userID uuid.UUID, month types.Month) (CloseSummary, error) {
	if month.IsZero() {
		month = types.MonthOf(time.Now().In(time.UTC))
	}

	monthKey := month.String()

	var closed int64
	err := db.Model(&Transaction{}).
		Where("user_id = ? AND kind = ? AND month_key = ?", userID, KindMonthCloseSweep, monthKey).
		Count(&closed).Error
	if err != nil {
		return CloseSummary{}, err
	}

	if closed > 0 {
		return CloseSummary{}, ErrMonthAlreadyClosed
	}

	stats, err := MonthStatistics(db, userID, month)
	if err != nil {
		return CloseSummary{}, err
	}

	summary := CloseSummary{MonthStats: stats}

	// A month without any entries is a no-op. Entries outside the
	// partition sums, like transfer legs, still make the close proceed
	// so that the reset happens and the month is durably closed.
	var activity int64
	err = db.Model(&Transaction{}).
		Where("user_id = ? AND kind <> ?", userID, KindMonthCloseSweep).
		Where("date >= ? AND date < ?", month.FirstDay(), month.Next().FirstDay()).
		Count(&activity).Error
	if err != nil {
		return CloseSummary{}, err
	}

	if activity == 0 {
		return summary, nil
	}

	total := stats.Balance.Add(stats.Returns)

	err = db.Transaction(func(tx *gorm.DB) error {
		sweep := Transaction{
			UserID:         userID,
			Type:           TypeExpense,
			Kind:           KindMonthCloseSweep,
			Amount:         decimal.Zero,
			Date:           time.Now().In(time.UTC),
			Description:    fmt.Sprintf("Zamknięcie miesiąca %s", monthKey),
			IncludeInStats: false,
			SavingsAmount:  stats.Balance,
			ReturnsAmount:  stats.Returns,
			MonthKey:       &monthKey,
		}

		if total.IsPositive() {
			target, err := SavingsEnvelope(tx, userID)
			if err != nil {
				if errors.Is(err, ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoSavingsEnvelope
				}
				return err
			}

			sweep.Amount = total
			sweep.EnvelopeID = &target.ID

			err = target.addBalance(tx, sweep.effectOn(target))
			if err != nil {
				return err
			}

			summary.TargetEnvelopeID = &target.ID
			summary.Transferred = total
		}

		err := tx.Create(&sweep).Error
		if err != nil {
			return err
		}

		reset := tx.Model(&Envelope{}).
			Where("user_id = ? AND reset_policy = ? AND archived = ?", userID, ResetMonthly, false).
			Update("current_amount", decimal.Zero)
		if reset.Error != nil {
			return reset.Error
		}

		summary.ResetEnvelopes = int(reset.RowsAffected)

		return nil
	})
	if err != nil {
		return CloseSummary{}, err
	}

	return summary, nil
}

// UndoClose reverses the latest month close of the user.
//
// The swept amount is removed from the savings envelope, every envelope
// with monthly reset policy is rebuilt by replaying the closed month's
// entries, and the closing entry is deleted. After the undo the
// balances look as if the close had never happened.
func UndoClose(db *gorm.DB, userID uuid.UUID) (UndoSummary, error) {
	var sweep Transaction
	err := db.
		Where("user_id = ? AND kind = ?", userID, KindMonthCloseSweep).
		Order("date DESC, created_at DESC").
		First(&sweep).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return UndoSummary{}, ErrNoClosedMonth
		}
		return UndoSummary{}, err
	}

	if sweep.MonthKey == nil {
		return UndoSummary{}, ErrGeneral
	}

	month, err := types.ParseMonth(*sweep.MonthKey)
	if err != nil {
		return UndoSummary{}, fmt.Errorf("parsing month key %q failed: %w", *sweep.MonthKey, err)
	}

	summary := UndoSummary{
		Month:          month,
		DeletedEntryID: sweep.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Reverse the sweep, floored at zero
		total := sweep.SavingsAmount.Add(sweep.ReturnsAmount)
		if total.IsPositive() && sweep.EnvelopeID != nil {
			target, err := EnvelopeForUser(tx, userID, *sweep.EnvelopeID)
			if err != nil {
				return err
			}

			reversed := target.CurrentAmount.Sub(total)
			if reversed.IsNegative() {
				reversed = decimal.Zero
			}

			err = target.setBalance(tx, reversed)
			if err != nil {
				return err
			}

			summary.Reversed = total
		}

		// Replay the closed month for every envelope the close reset.
		// Transfer legs are pure internal movement and are skipped, the
		// balances from transfers were part of the running balance the
		// reset wiped, not of the month's net.
		var envelopes []Envelope
		err := tx.
			Where("user_id = ? AND reset_policy = ? AND archived = ?", userID, ResetMonthly, false).
			Find(&envelopes).Error
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]Envelope, len(envelopes))
		for _, envelope := range envelopes {
			byID[envelope.ID] = envelope
		}

		var entries []Transaction
		err = tx.
			Where("user_id = ? AND kind = ?", userID, KindRegular).
			Where("date >= ? AND date < ?", month.FirstDay(), month.Next().FirstDay()).
			Find(&entries).Error
		if err != nil {
			return err
		}

		net := make(map[uuid.UUID]decimal.Decimal)
		for _, entry := range entries {
			if entry.EnvelopeID == nil {
				continue
			}

			envelope, ok := byID[*entry.EnvelopeID]
			if !ok {
				continue
			}

			net[envelope.ID] = net[envelope.ID].Add(entry.effectOn(envelope))
		}

		for i := range envelopes {
			err = envelopes[i].setBalance(tx, net[envelopes[i].ID])
			if err != nil {
				return err
			}
		}

		summary.RebuiltEnvelopes = len(envelopes)

		// Hard delete so that the month key is free for a later close
		return tx.Unscoped().Delete(&Transaction{}, "id = ?", sweep.ID).Error
	})
	if err != nil {
		return UndoSummary{}, err
	}

	return summary, nil
}
