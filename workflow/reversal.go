package workflow

import (
	"fmt"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReverseAccountJournal creates a reversal journal that negates the original
// journal's legs and rolls their effects back out of the balance projections.
//
// Design:
// - Posted journals are never deleted.
// - We insert a reversal journal (is_reversal=true) and mark the original as
//   reversed_by_journal_id=<reversal>.
func ReverseAccountJournal(tx *gorm.DB, logger *logrus.Logger, original *models.AccountJournal, reason string) (reversalJournalID int, err error) {
	if tx == nil || original == nil {
		return 0, fmt.Errorf("reverse journal: tx/original is nil")
	}

	if original.ReversedByJournalId != nil && *original.ReversedByJournalId > 0 {
		return 0, utils.NewAlreadyReversedError(
			"journal %d was already reversed by journal %d", original.ID, *original.ReversedByJournalId)
	}
	if original.IsReversal {
		return 0, utils.NewValidationError("journal_id", "journal %d is itself a reversal", original.ID)
	}

	// Ensure legs are loaded.
	if original.AccountTransactions == nil {
		var loaded models.AccountJournal
		if err := tx.Preload("AccountTransactions").Where("id = ?", original.ID).First(&loaded).Error; err != nil {
			return 0, err
		}
		original = &loaded
	}

	reasonCopy := reason
	now := time.Now().UTC()

	reversedTxs := make([]models.AccountTransaction, 0, len(original.AccountTransactions))
	for _, t := range original.AccountTransactions {
		entry := JournalEntry{
			LedgerType:  t.LedgerType,
			AccountId:   t.AccountId,
			PartyId:     t.PartyId,
			Debit:       t.Credit,
			Credit:      t.Debit,
			Description: t.Description,
			IsAdvance:   t.IsAdvance != nil && *t.IsAdvance,
		}
		closing, err := applyEntryEffect(tx, logger, entry)
		if err != nil {
			return 0, err
		}
		isAdvance := entry.IsAdvance
		reversedTxs = append(reversedTxs, models.AccountTransaction{
			LedgerType:          t.LedgerType,
			AccountId:           t.AccountId,
			PartyId:             t.PartyId,
			TransactionDateTime: t.TransactionDateTime,
			Description:         t.Description,
			Debit:               t.Credit,
			Credit:              t.Debit,
			ClosingBalance:      closing,
			IsAdvance:           &isAdvance,
		})
	}

	reversal := models.AccountJournal{
		TransactionDateTime: original.TransactionDateTime,
		TransactionNumber:   "REV-" + original.TransactionNumber,
		TransactionDetails:  "Reversal: " + reasonCopy,
		ReferenceNumber:     original.ReferenceNumber,
		ReferenceId:         original.ReferenceId,
		ReferenceType:       original.ReferenceType,
		IsReversal:          true,
		ReversesJournalId:   &original.ID,
		ReversalReason:      &reasonCopy,
		CorrelationId:       original.CorrelationId,
		AccountTransactions: reversedTxs,
	}
	if err := tx.Create(&reversal).Error; err != nil {
		return 0, err
	}

	// Mark original as reversed (metadata-only update).
	if err := tx.Model(&models.AccountJournal{}).
		Where("id = ?", original.ID).
		Updates(map[string]interface{}{
			"reversed_by_journal_id": reversal.ID,
			"reversal_reason":        &reasonCopy,
			"reversed_at":            &now,
		}).Error; err != nil {
		return 0, err
	}

	return reversal.ID, nil
}
