package workflow

import (
	"context"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DriftTolerance is the largest recomputation difference we silently accept;
// anything above it is corrected and logged.
var DriftTolerance = decimal.NewFromFloat(0.01)

// ComputeOutstanding recomputes a party's outstanding from scratch: opening
// baseline plus confirmed document totals minus settled allocations, never
// negative. Overpayment shows up as stored advances, not negative debt.
func ComputeOutstanding(opening, confirmedTotal, allocatedTotal decimal.Decimal) decimal.Decimal {
	outstanding := opening.Add(confirmedTotal).Sub(allocatedTotal)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// ExceedsDriftTolerance reports whether two balances differ by more than the
// accepted rounding drift.
func ExceedsDriftTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(DriftTolerance)
}

type ReconciliationResult struct {
	PartyId    int             `json:"party_id"`
	Previous   decimal.Decimal `json:"previous"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Adjusted   bool            `json:"adjusted"`
}

// RecalculateOutstanding recomputes one party's outstanding inside the
// caller's transaction and repairs it when the stored projection drifted.
// Safe to run repeatedly; a second run is a no-op.
func RecalculateOutstanding(tx *gorm.DB, logger *logrus.Logger, partyId int) (*ReconciliationResult, error) {
	party, err := models.GetParty(tx, partyId)
	if err != nil {
		return nil, err
	}

	var confirmedTotal decimal.Decimal
	err = tx.Model(&models.Document{}).
		Where("party_id = ? AND status = ?", partyId, models.DocumentStatusConfirmed).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&confirmedTotal).Error
	if err != nil {
		config.LogError(logger, "reconciliation.go", "RecalculateOutstanding", "SumConfirmedDocuments", partyId, err)
		return nil, err
	}

	var allocatedTotal decimal.Decimal
	err = tx.Model(&models.PaymentAllocation{}).
		Joins("JOIN party_payments ON party_payments.id = payment_allocations.payment_id").
		Where("party_payments.party_id = ? AND party_payments.status = ?", partyId, models.TransactionStatusActive).
		Select("COALESCE(SUM(payment_allocations.amount), 0)").
		Scan(&allocatedTotal).Error
	if err != nil {
		config.LogError(logger, "reconciliation.go", "RecalculateOutstanding", "SumAllocations", partyId, err)
		return nil, err
	}

	recomputed := ComputeOutstanding(party.OpeningBalance, confirmedTotal, allocatedTotal)
	result := &ReconciliationResult{
		PartyId:    partyId,
		Previous:   party.OutstandingBalance,
		Recomputed: recomputed,
	}
	if !ExceedsDriftTolerance(party.OutstandingBalance, recomputed) {
		return result, nil
	}

	logger.WithFields(logrus.Fields{
		"party_id":   partyId,
		"previous":   party.OutstandingBalance.String(),
		"recomputed": recomputed.String(),
	}).Warn("outstanding balance drift corrected")

	if err := tx.Model(&models.Party{}).Where("id = ?", partyId).
		UpdateColumn("outstanding_balance", recomputed).Error; err != nil {
		return nil, err
	}
	result.Adjusted = true
	return result, nil
}

// RunReconciliation recomputes every active party's outstanding, one party
// per transaction so a failure never poisons the rest. A Redis lock keeps the
// job a cluster singleton; when Redis is unavailable the job still runs,
// per-party posting locks keep it correct.
func RunReconciliation(ctx context.Context, db *gorm.DB, logger *logrus.Logger) ([]ReconciliationResult, error) {
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "reconciliation:run", 10*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			logger.Info("reconciliation already running elsewhere, skipping")
			return nil, nil
		}
		if err == nil {
			defer func() { _ = lock.Release(ctx) }()
		}
	}

	var partyIds []int
	if err := db.WithContext(ctx).Model(&models.Party{}).
		Where("is_active = true").Order("id").Pluck("id", &partyIds).Error; err != nil {
		return nil, err
	}

	results := make([]ReconciliationResult, 0, len(partyIds))
	for _, partyId := range partyIds {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := AcquirePartyPostingLock(tx, partyId); err != nil {
				return err
			}
			defer ReleasePartyPostingLock(tx, partyId)

			result, err := RecalculateOutstanding(tx, logger, partyId)
			if err != nil {
				return err
			}
			results = append(results, *result)
			return nil
		})
		if err != nil {
			config.LogError(logger, "reconciliation.go", "RunReconciliation", "RecalculateOutstanding", partyId, err)
			return results, err
		}
	}
	return results, nil
}
