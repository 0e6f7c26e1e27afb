package models

import (
	"errors"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountJournal is one balanced posting. For a given (reference_type,
// reference_id) there is at most one active journal: is_reversal = false AND
// reversed_by_journal_id IS NULL. Posted journals are never deleted; changes
// are made by inserting a reversal journal.
type AccountJournal struct {
	ID                  int                  `gorm:"primary_key" json:"id"`
	TransactionDateTime time.Time            `gorm:"index;not null" json:"transaction_date_time"`
	TransactionNumber   string               `gorm:"size:255" json:"transaction_number"`
	TransactionDetails  string               `gorm:"type:text" json:"transaction_details"`
	ReferenceNumber     string               `gorm:"size:255" json:"reference_number"`
	ReferenceId         int                  `gorm:"index:idx_aj_ref,priority:2" json:"reference_id"`
	ReferenceType       AccountReferenceType `gorm:"type:enum('CP','SP','CAR','SAR','AT');index:idx_aj_ref,priority:1" json:"reference_type"`
	IsReversal          bool                 `gorm:"not null;default:false;index" json:"is_reversal"`
	ReversesJournalId   *int                 `gorm:"index" json:"reverses_journal_id"`
	ReversedByJournalId *int                 `gorm:"index" json:"reversed_by_journal_id"`
	ReversalReason      *string              `gorm:"type:text" json:"reversal_reason"`
	ReversedAt          *time.Time           `gorm:"index" json:"reversed_at"`
	AccountTransactions []AccountTransaction `gorm:"foreignKey:JournalId" json:"account_transactions"`
	CorrelationId       string               `gorm:"size:64;index" json:"correlation_id"`
	CreatedBy           int                  `json:"created_by"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// AccountTransaction is one leg of a journal. LedgerType selects which ledger
// the leg belongs to: Account legs carry AccountId, Party legs carry PartyId.
// Advance legs (is_advance) are excluded from the party outstanding effect.
type AccountTransaction struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	JournalId           int             `gorm:"index;not null" json:"journal_id" binding:"required"`
	LedgerType          LedgerType      `gorm:"type:enum('Account','Party');not null" json:"ledger_type"`
	AccountId           int             `gorm:"index;index:idx_at_acct_date,priority:1" json:"account_id"`
	PartyId             int             `gorm:"index;index:idx_at_party_date,priority:1" json:"party_id"`
	TransactionDateTime time.Time       `gorm:"index;not null;index:idx_at_acct_date,priority:2;index:idx_at_party_date,priority:2" json:"transaction_date_time"`
	Description         string          `gorm:"size:255" json:"description"`
	Debit               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit              decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	ClosingBalance      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"closing_balance"`
	IsAdvance           *bool           `gorm:"not null;default:false" json:"is_advance"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Ledger immutability guardrails:
// - account_transactions are append-only (no updates/deletes).
// - account_journals must never be deleted; limited updates are allowed only for reversal linkage fields.

func (t *AccountTransaction) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("immutable ledger: account_transactions cannot be updated")
}

func (t *AccountTransaction) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable ledger: account_transactions cannot be deleted")
}

func (j *AccountJournal) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable ledger: account_journals cannot be deleted")
}

func (j *AccountJournal) BeforeUpdate(tx *gorm.DB) error {
	// Allow only reversal linkage fields to be updated.
	allowed := map[string]bool{
		"IsReversal":          true,
		"ReversesJournalId":   true,
		"ReversedByJournalId": true,
		"ReversalReason":      true,
		"ReversedAt":          true,
		"UpdatedAt":           true,
	}
	if tx == nil || tx.Statement == nil || tx.Statement.Schema == nil {
		return nil
	}
	for _, f := range tx.Statement.Schema.Fields {
		if tx.Statement.Changed(f.Name) && !allowed[f.Name] {
			return errors.New("immutable ledger: only reversal linkage fields may be updated on account_journals")
		}
	}
	return nil
}

// GetActiveJournal returns the current active journal for a source record, or
// nil when the record has none (never posted, or its journal was reversed).
func GetActiveJournal(tx *gorm.DB, referenceType AccountReferenceType, referenceId int) (*AccountJournal, error) {
	var journal AccountJournal
	err := tx.
		Preload("AccountTransactions").
		Where("reference_type = ? AND reference_id = ? AND is_reversal = false AND reversed_by_journal_id IS NULL",
			referenceType, referenceId).
		First(&journal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &journal, nil
}

// GetAccountJournal loads a journal with its legs by primary key.
func GetAccountJournal(tx *gorm.DB, id int) (*AccountJournal, error) {
	var journal AccountJournal
	if err := tx.Preload("AccountTransactions").First(&journal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewValidationError("journal_id", "journal %d not found", id)
		}
		return nil, err
	}
	return &journal, nil
}
