package workflow

import (
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// JournalEntry is one leg of a journal before posting. Account legs carry
// AccountId, party legs carry PartyId. IsAdvance legs are kept out of the
// party outstanding projection.
type JournalEntry struct {
	LedgerType  models.LedgerType
	AccountId   int
	PartyId     int
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	IsAdvance   bool
}

type JournalInput struct {
	TransactionDateTime time.Time
	TransactionNumber   string
	TransactionDetails  string
	ReferenceNumber     string
	ReferenceId         int
	ReferenceType       models.AccountReferenceType
	CorrelationId       string
	CreatedBy           int
	Entries             []JournalEntry
}

// AccountEffect is the signed balance change a leg applies to a money
// account: debit increases, credit decreases.
func AccountEffect(e JournalEntry) decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// PartyEffect is the signed outstanding change a leg applies to a party.
// Customer outstanding grows with debits (they owe more); supplier and entity
// outstanding grows with credits (we owe more). Advance legs never move the
// outstanding projection.
func PartyEffect(role models.PartyRole, e JournalEntry) decimal.Decimal {
	if e.IsAdvance {
		return decimal.Zero
	}
	if role == models.PartyRoleCustomer {
		return e.Debit.Sub(e.Credit)
	}
	return e.Credit.Sub(e.Debit)
}

// NextOutstanding applies one leg to a party's outstanding projection. An
// advance payment drives it negative: a credit balance the party holds with
// us. Nothing is clamped here, so posting a journal and posting its reversal
// are exact inverses of each other.
func NextOutstanding(current decimal.Decimal, role models.PartyRole, e JournalEntry) decimal.Decimal {
	return current.Add(PartyEffect(role, e))
}

// ValidateBalancedEntries rejects journals the ledger must never accept:
// unbalanced totals, legs with both sides set, negative amounts, or legs
// missing their ledger id.
func ValidateBalancedEntries(entries []JournalEntry) error {
	if len(entries) == 0 {
		return utils.NewValidationError("entries", "journal must have at least one entry")
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return utils.NewValidationError("entries", "debit and credit amounts cannot be negative")
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			return utils.NewValidationError("entries", "an entry cannot carry both debit and credit")
		}
		switch e.LedgerType {
		case models.LedgerTypeAccount:
			if e.AccountId == 0 {
				return utils.NewValidationError("entries", "account entry is missing account_id")
			}
		case models.LedgerTypeParty:
			if e.PartyId == 0 {
				return utils.NewValidationError("entries", "party entry is missing party_id")
			}
		default:
			return utils.NewValidationError("entries", "unknown ledger type %q", e.LedgerType)
		}
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return utils.NewUnbalancedTransactionError(
			"journal debits %s do not equal credits %s", totalDebit.String(), totalCredit.String())
	}
	return nil
}

// PostJournal validates and posts a balanced journal: creates the journal row
// with its legs and applies every leg's effect to the money account and party
// balance projections. Must run inside a transaction that holds the posting
// locks for the accounts and parties involved.
func PostJournal(tx *gorm.DB, logger *logrus.Logger, input JournalInput) (*models.AccountJournal, error) {
	if err := ValidateBalancedEntries(input.Entries); err != nil {
		return nil, err
	}

	existing, err := models.GetActiveJournal(tx, input.ReferenceType, input.ReferenceId)
	if err != nil {
		config.LogError(logger, "poster.go", "PostJournal", "GetActiveJournal", input.ReferenceId, err)
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewValidationError("reference_id",
			"%s %d already has an active journal %d", input.ReferenceType, input.ReferenceId, existing.ID)
	}

	transactions := make([]models.AccountTransaction, 0, len(input.Entries))
	for _, e := range input.Entries {
		closing, err := applyEntryEffect(tx, logger, e)
		if err != nil {
			return nil, err
		}
		isAdvance := e.IsAdvance
		transactions = append(transactions, models.AccountTransaction{
			LedgerType:          e.LedgerType,
			AccountId:           e.AccountId,
			PartyId:             e.PartyId,
			TransactionDateTime: input.TransactionDateTime,
			Description:         e.Description,
			Debit:               e.Debit,
			Credit:              e.Credit,
			ClosingBalance:      closing,
			IsAdvance:           &isAdvance,
		})
	}

	journal := models.AccountJournal{
		TransactionDateTime: input.TransactionDateTime,
		TransactionNumber:   input.TransactionNumber,
		TransactionDetails:  input.TransactionDetails,
		ReferenceNumber:     input.ReferenceNumber,
		ReferenceId:         input.ReferenceId,
		ReferenceType:       input.ReferenceType,
		CorrelationId:       input.CorrelationId,
		CreatedBy:           input.CreatedBy,
		AccountTransactions: transactions,
	}
	if err := tx.Create(&journal).Error; err != nil {
		config.LogError(logger, "poster.go", "PostJournal", "CreateJournal", input.TransactionNumber, err)
		return nil, err
	}
	return &journal, nil
}

// applyEntryEffect mutates the balance projection the leg points at and
// returns the resulting closing balance.
func applyEntryEffect(tx *gorm.DB, logger *logrus.Logger, e JournalEntry) (decimal.Decimal, error) {
	if e.LedgerType == models.LedgerTypeAccount {
		account, err := models.GetMoneyAccount(tx, e.AccountId)
		if err != nil {
			return decimal.Zero, err
		}
		effect := AccountEffect(e)
		if effect.IsNegative() && account.AvailableBalance().LessThan(effect.Neg()) {
			return decimal.Zero, utils.NewInsufficientBalanceError(
				"account %s has available balance %s, cannot withdraw %s",
				account.AccountName, account.AvailableBalance().String(), effect.Neg().String())
		}
		newBalance := account.CurrentBalance.Add(effect)
		if err := tx.Model(&models.MoneyAccount{}).Where("id = ?", account.ID).
			UpdateColumn("current_balance", newBalance).Error; err != nil {
			config.LogError(logger, "poster.go", "applyEntryEffect", "UpdateAccountBalance", account.ID, err)
			return decimal.Zero, err
		}
		return newBalance, nil
	}

	party, err := models.GetParty(tx, e.PartyId)
	if err != nil {
		return decimal.Zero, err
	}
	newOutstanding := NextOutstanding(party.OutstandingBalance, party.Role, e)
	if err := tx.Model(&models.Party{}).Where("id = ?", party.ID).
		UpdateColumn("outstanding_balance", newOutstanding).Error; err != nil {
		config.LogError(logger, "poster.go", "applyEntryEffect", "UpdatePartyOutstanding", party.ID, err)
		return decimal.Zero, err
	}
	return newOutstanding, nil
}
