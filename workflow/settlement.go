package workflow

import (
	"context"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewPartyPayment is the request for a customer receipt or supplier payment.
// Amount is drawn from the money account, UseAdvanceAmount from the party's
// stored advances. Nil Allocations means FIFO across open documents; the
// remainder after allocation is retained as a new advance.
type NewPartyPayment struct {
	PartyId          int                 `json:"party_id" binding:"required"`
	AccountId        *int                `json:"account_id"`
	PaymentDate      time.Time           `json:"payment_date" binding:"required"`
	Mode             models.PaymentMode  `json:"mode" binding:"required"`
	Amount           decimal.Decimal     `json:"amount"`
	UseAdvanceAmount decimal.Decimal     `json:"use_advance_amount"`
	Allocations      []AllocationRequest `json:"allocations"`
	ReferenceNumber  string              `json:"reference_number"`
	Notes            string              `json:"notes"`
}

type NewAdvanceRefund struct {
	PartyId         int                `json:"party_id" binding:"required"`
	AccountId       int                `json:"account_id" binding:"required"`
	RefundDate      time.Time          `json:"refund_date" binding:"required"`
	Mode            models.PaymentMode `json:"mode" binding:"required"`
	Amount          decimal.Decimal    `json:"amount" binding:"required"`
	ReferenceNumber string             `json:"reference_number"`
	Notes           string             `json:"notes"`
}

type NewAccountTransfer struct {
	FromAccountId   int             `json:"from_account_id" binding:"required"`
	ToAccountId     int             `json:"to_account_id" binding:"required"`
	TransferDate    time.Time       `json:"transfer_date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// CreateReceipt records money coming in from a customer.
func CreateReceipt(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input NewPartyPayment) (*models.PartyPayment, error) {
	return createPartyPayment(ctx, db, logger, input, models.PartyRoleCustomer)
}

// CreatePayment records money going out to a supplier or entity.
func CreatePayment(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input NewPartyPayment) (*models.PartyPayment, error) {
	return createPartyPayment(ctx, db, logger, input, models.PartyRoleSupplier)
}

func createPartyPayment(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input NewPartyPayment, wantRole models.PartyRole) (*models.PartyPayment, error) {
	if err := validatePaymentInput(input); err != nil {
		return nil, err
	}

	var payment *models.PartyPayment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquirePartyPostingLock(tx, input.PartyId); err != nil {
			return err
		}
		defer ReleasePartyPostingLock(tx, input.PartyId)
		if input.AccountId != nil {
			if err := AcquireAccountPostingLock(tx, *input.AccountId); err != nil {
				return err
			}
			defer ReleaseAccountPostingLock(tx, *input.AccountId)
		}

		party, err := models.GetParty(tx, input.PartyId)
		if err != nil {
			return err
		}
		if err := checkPartyRole(party, wantRole); err != nil {
			return err
		}
		if input.AccountId != nil {
			if _, err := models.GetMoneyAccount(tx, *input.AccountId); err != nil {
				return err
			}
		}

		documents, err := models.ListOutstandingDocuments(tx, party.ID)
		if err != nil {
			config.LogError(logger, "settlement.go", "createPartyPayment", "ListOutstandingDocuments", party.ID, err)
			return err
		}

		totalFunds := input.Amount.Add(input.UseAdvanceAmount)
		var allocations []AllocationResult
		var allocated decimal.Decimal
		if input.Allocations != nil {
			allocated, err = ValidateManualAllocations(documents, input.Allocations, totalFunds)
			if err != nil {
				return err
			}
			for _, req := range input.Allocations {
				allocations = append(allocations, AllocationResult{DocumentId: req.DocumentId, Amount: req.Amount})
			}
		} else {
			allocations, _ = AllocateFIFO(documents, totalFunds)
			for _, a := range allocations {
				allocated = allocated.Add(a.Amount)
			}
		}
		advanceRemainder := totalFunds.Sub(allocated)

		// A consumed advance settles documents; it cannot be re-banked as a
		// fresh advance.
		if input.UseAdvanceAmount.GreaterThan(allocated) {
			return utils.NewValidationError("use_advance_amount",
				"advance amount %s exceeds allocatable total %s", input.UseAdvanceAmount.String(), allocated.String())
		}

		moduleName := models.SeriesModuleReceipt
		referenceType := models.AccountReferenceTypeCustomerReceipt
		if wantRole != models.PartyRoleCustomer {
			moduleName = models.SeriesModulePayment
			referenceType = models.AccountReferenceTypeSupplierPayment
		}
		number, err := models.NextTransactionNumber(tx, moduleName)
		if err != nil {
			return err
		}

		userId, _ := utils.GetUserIdFromContext(ctx)
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

		payment = &models.PartyPayment{
			PaymentNumber:     number,
			PartyId:           party.ID,
			AccountId:         input.AccountId,
			PaymentDate:       input.PaymentDate,
			Mode:              input.Mode,
			Amount:            input.Amount,
			AllocatedAmount:   allocated,
			AdvanceAmount:     advanceRemainder,
			UsedAdvanceAmount: input.UseAdvanceAmount,
			ReferenceNumber:   input.ReferenceNumber,
			Notes:             input.Notes,
			Status:            models.TransactionStatusActive,
			CreatedBy:         userId,
		}
		if err := tx.Create(payment).Error; err != nil {
			config.LogError(logger, "settlement.go", "createPartyPayment", "CreatePartyPayment", number, err)
			return err
		}

		if input.UseAdvanceAmount.IsPositive() {
			if err := consumeAdvances(tx, logger, party.ID, payment.ID, input.UseAdvanceAmount); err != nil {
				return err
			}
		}

		if err := applyAllocations(tx, logger, payment.ID, allocations); err != nil {
			return err
		}

		entries := BuildPaymentEntries(party.Role, input.AccountId, party.ID,
			input.Amount, allocated, input.UseAdvanceAmount, number)
		journal, err := PostJournal(tx, logger, JournalInput{
			TransactionDateTime: input.PaymentDate,
			TransactionNumber:   number,
			TransactionDetails:  input.Notes,
			ReferenceNumber:     input.ReferenceNumber,
			ReferenceId:         payment.ID,
			ReferenceType:       referenceType,
			CorrelationId:       correlationId,
			CreatedBy:           userId,
			Entries:             entries,
		})
		if err != nil {
			return err
		}
		return tx.Model(payment).UpdateColumn("journal_id", journal.ID).Error
	})
	if err != nil {
		return nil, err
	}
	payment.Status = models.TransactionStatusActive
	return payment, nil
}

func validatePaymentInput(input NewPartyPayment) error {
	if input.Amount.IsNegative() || input.UseAdvanceAmount.IsNegative() {
		return utils.NewValidationError("amount", "amounts cannot be negative")
	}
	if !input.Amount.Add(input.UseAdvanceAmount).IsPositive() {
		return utils.NewValidationError("amount", "payment amount must be positive")
	}
	if input.PaymentDate.IsZero() {
		return utils.NewValidationError("payment_date", "payment date is required")
	}
	if input.Amount.IsPositive() && input.AccountId == nil {
		return utils.NewValidationError("account_id", "account is required when amount is drawn from an account")
	}
	if input.Amount.IsZero() && input.Mode != models.PaymentModeAdjustment {
		return utils.NewValidationError("mode", "advance-only settlement must use Adjustment mode")
	}
	return nil
}

func checkPartyRole(party *models.Party, wantRole models.PartyRole) error {
	if wantRole == models.PartyRoleCustomer {
		if party.Role != models.PartyRoleCustomer {
			return utils.NewValidationError("party_id", "party %d is not a customer", party.ID)
		}
		return nil
	}
	if party.Role == models.PartyRoleCustomer {
		return utils.NewValidationError("party_id", "party %d is not a supplier or entity", party.ID)
	}
	return nil
}

// BuildPaymentEntries assembles the journal legs for a receipt or payment.
// The remainder (amount + usedAdvance - allocated) becomes a new advance: a
// flagged leg when the payment also settled documents, an unflagged leg for a
// pure advance so the outstanding reduction happens once, at creation.
// Consumed advances post an equal flagged debit+credit pair with zero net
// outstanding effect; the outstanding moved when the advance was created.
func BuildPaymentEntries(role models.PartyRole, accountId *int, partyId int,
	amount, allocated, usedAdvance decimal.Decimal, number string) []JournalEntry {

	remainder := amount.Add(usedAdvance).Sub(allocated)
	fromAccount := allocated.Sub(usedAdvance)

	entries := make([]JournalEntry, 0, 4)
	if amount.IsPositive() && accountId != nil {
		entries = append(entries, accountLeg(role, *accountId, amount, number))
	}
	if fromAccount.IsPositive() {
		entries = append(entries, partyLeg(role, partyId, fromAccount, false, "Settlement "+number))
	}
	if remainder.IsPositive() {
		isAdvance := allocated.IsPositive()
		entries = append(entries, partyLeg(role, partyId, remainder, isAdvance, "Advance "+number))
	}
	if usedAdvance.IsPositive() {
		entries = append(entries, partyLeg(role, partyId, usedAdvance, true, "Advance applied "+number))
		entries = append(entries, partyCounterLeg(role, partyId, usedAdvance, "Advance consumed "+number))
	}
	return entries
}

// accountLeg moves cash: debit for money in (customer receipt), credit for
// money out (supplier payment).
func accountLeg(role models.PartyRole, accountId int, amount decimal.Decimal, number string) JournalEntry {
	e := JournalEntry{
		LedgerType:  models.LedgerTypeAccount,
		AccountId:   accountId,
		Description: "Payment " + number,
	}
	if role == models.PartyRoleCustomer {
		e.Debit = amount
	} else {
		e.Credit = amount
	}
	return e
}

// partyLeg reduces what the party owes (or what we owe them): credit for a
// customer, debit for a supplier or entity.
func partyLeg(role models.PartyRole, partyId int, amount decimal.Decimal, isAdvance bool, description string) JournalEntry {
	e := JournalEntry{
		LedgerType:  models.LedgerTypeParty,
		PartyId:     partyId,
		IsAdvance:   isAdvance,
		Description: description,
	}
	if role == models.PartyRoleCustomer {
		e.Credit = amount
	} else {
		e.Debit = amount
	}
	return e
}

// partyCounterLeg is the opposite side of partyLeg, always advance-flagged.
func partyCounterLeg(role models.PartyRole, partyId int, amount decimal.Decimal, description string) JournalEntry {
	e := JournalEntry{
		LedgerType:  models.LedgerTypeParty,
		PartyId:     partyId,
		IsAdvance:   true,
		Description: description,
	}
	if role == models.PartyRoleCustomer {
		e.Debit = amount
	} else {
		e.Credit = amount
	}
	return e
}

// consumeAdvances draws amount from the party's stored advances oldest first
// and records which source payments funded it.
func consumeAdvances(tx *gorm.DB, logger *logrus.Logger, partyId, paymentId int, amount decimal.Decimal) error {
	advances, err := models.GetUnallocatedAdvances(tx, partyId)
	if err != nil {
		config.LogError(logger, "settlement.go", "consumeAdvances", "GetUnallocatedAdvances", partyId, err)
		return err
	}

	available := decimal.Zero
	for _, adv := range advances {
		available = available.Add(adv.AdvanceRemaining())
	}
	if available.LessThan(amount) {
		return utils.NewInsufficientBalanceError(
			"party %d has advance balance %s, cannot apply %s", partyId, available.String(), amount.String())
	}

	remaining := amount
	for _, adv := range advances {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(adv.AdvanceRemaining(), remaining)
		if !take.IsPositive() {
			continue
		}
		if err := tx.Model(&models.PartyPayment{}).Where("id = ?", adv.ID).
			UpdateColumn("advance_applied", gorm.Expr("advance_applied + ?", take)).Error; err != nil {
			return err
		}
		application := models.AdvanceApplication{
			PaymentId:       paymentId,
			SourcePaymentId: adv.ID,
			Amount:          take,
		}
		if err := tx.Create(&application).Error; err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	return nil
}

// applyAllocations writes the allocation rows and draws down each document's
// remaining balance.
func applyAllocations(tx *gorm.DB, logger *logrus.Logger, paymentId int, allocations []AllocationResult) error {
	for _, a := range allocations {
		row := models.PaymentAllocation{
			PaymentId:  paymentId,
			DocumentId: a.DocumentId,
			Amount:     a.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			config.LogError(logger, "settlement.go", "applyAllocations", "CreatePaymentAllocation", a.DocumentId, err)
			return err
		}
		if err := tx.Model(&models.Document{}).Where("id = ?", a.DocumentId).
			UpdateColumn("remaining_balance", gorm.Expr("remaining_balance - ?", a.Amount)).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateAdvanceRefund returns a party's stored advance through a money
// account: cash out for a customer advance, cash back in for a supplier one.
func CreateAdvanceRefund(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input NewAdvanceRefund) (*models.PartyPayment, error) {
	if !input.Amount.IsPositive() {
		return nil, utils.NewValidationError("amount", "refund amount must be positive")
	}

	var refund *models.PartyPayment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquirePartyPostingLock(tx, input.PartyId); err != nil {
			return err
		}
		defer ReleasePartyPostingLock(tx, input.PartyId)
		if err := AcquireAccountPostingLock(tx, input.AccountId); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(tx, input.AccountId)

		party, err := models.GetParty(tx, input.PartyId)
		if err != nil {
			return err
		}
		if _, err := models.GetMoneyAccount(tx, input.AccountId); err != nil {
			return err
		}

		moduleName := models.SeriesModulePayment
		referenceType := models.AccountReferenceTypeCustomerAdvanceRefund
		if party.Role != models.PartyRoleCustomer {
			// Supplier advance coming back is money in.
			moduleName = models.SeriesModuleReceipt
			referenceType = models.AccountReferenceTypeSupplierAdvanceRefund
		}
		number, err := models.NextTransactionNumber(tx, moduleName)
		if err != nil {
			return err
		}

		userId, _ := utils.GetUserIdFromContext(ctx)
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		accountId := input.AccountId

		refund = &models.PartyPayment{
			PaymentNumber:     number,
			PartyId:           party.ID,
			AccountId:         &accountId,
			PaymentDate:       input.RefundDate,
			Mode:              input.Mode,
			Amount:            input.Amount,
			UsedAdvanceAmount: input.Amount,
			IsRefund:          true,
			ReferenceNumber:   input.ReferenceNumber,
			Notes:             input.Notes,
			Status:            models.TransactionStatusActive,
			CreatedBy:         userId,
		}
		if err := tx.Create(refund).Error; err != nil {
			config.LogError(logger, "settlement.go", "CreateAdvanceRefund", "CreateRefund", number, err)
			return err
		}
		if err := consumeAdvances(tx, logger, party.ID, refund.ID, input.Amount); err != nil {
			return err
		}

		entries := BuildAdvanceRefundEntries(party.Role, input.AccountId, party.ID, input.Amount, number)
		journal, err := PostJournal(tx, logger, JournalInput{
			TransactionDateTime: input.RefundDate,
			TransactionNumber:   number,
			TransactionDetails:  input.Notes,
			ReferenceNumber:     input.ReferenceNumber,
			ReferenceId:         refund.ID,
			ReferenceType:       referenceType,
			CorrelationId:       correlationId,
			CreatedBy:           userId,
			Entries:             entries,
		})
		if err != nil {
			return err
		}
		return tx.Model(refund).UpdateColumn("journal_id", journal.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// BuildAdvanceRefundEntries: refunding a customer advance pays cash out; a
// supplier advance refund mirrors it. The party leg is unflagged so the
// outstanding reduction the advance made at creation comes back up by the
// refunded amount.
func BuildAdvanceRefundEntries(role models.PartyRole, accountId, partyId int, amount decimal.Decimal, number string) []JournalEntry {
	account := JournalEntry{
		LedgerType:  models.LedgerTypeAccount,
		AccountId:   accountId,
		Description: "Advance refund " + number,
	}
	party := JournalEntry{
		LedgerType:  models.LedgerTypeParty,
		PartyId:     partyId,
		Description: "Advance refund " + number,
	}
	if role == models.PartyRoleCustomer {
		account.Credit = amount
		party.Debit = amount
	} else {
		account.Debit = amount
		party.Credit = amount
	}
	return []JournalEntry{account, party}
}

// CreateAccountTransfer moves money between two of the entity's accounts.
func CreateAccountTransfer(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input NewAccountTransfer) (*models.AccountTransfer, error) {
	if !input.Amount.IsPositive() {
		return nil, utils.NewValidationError("amount", "transfer amount must be positive")
	}
	if input.FromAccountId == input.ToAccountId {
		return nil, utils.NewValidationError("to_account_id", "cannot transfer to the same account")
	}

	var transfer *models.AccountTransfer
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock both accounts in ascending id order to avoid deadlock.
		first, second := input.FromAccountId, input.ToAccountId
		if second < first {
			first, second = second, first
		}
		if err := AcquireAccountPostingLock(tx, first); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(tx, first)
		if err := AcquireAccountPostingLock(tx, second); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(tx, second)

		if _, err := models.GetMoneyAccount(tx, input.FromAccountId); err != nil {
			return err
		}
		if _, err := models.GetMoneyAccount(tx, input.ToAccountId); err != nil {
			return err
		}

		number, err := models.NextTransactionNumber(tx, models.SeriesModuleTransfer)
		if err != nil {
			return err
		}
		userId, _ := utils.GetUserIdFromContext(ctx)
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

		transfer = &models.AccountTransfer{
			TransferNumber:  number,
			FromAccountId:   input.FromAccountId,
			ToAccountId:     input.ToAccountId,
			TransferDate:    input.TransferDate,
			Amount:          input.Amount,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			Status:          models.TransactionStatusActive,
			CreatedBy:       userId,
		}
		if err := tx.Create(transfer).Error; err != nil {
			config.LogError(logger, "settlement.go", "CreateAccountTransfer", "CreateTransfer", number, err)
			return err
		}

		entries := []JournalEntry{
			{
				LedgerType:  models.LedgerTypeAccount,
				AccountId:   input.FromAccountId,
				Credit:      input.Amount,
				Description: "Transfer out " + number,
			},
			{
				LedgerType:  models.LedgerTypeAccount,
				AccountId:   input.ToAccountId,
				Debit:       input.Amount,
				Description: "Transfer in " + number,
			},
		}
		journal, err := PostJournal(tx, logger, JournalInput{
			TransactionDateTime: input.TransferDate,
			TransactionNumber:   number,
			TransactionDetails:  input.Notes,
			ReferenceNumber:     input.ReferenceNumber,
			ReferenceId:         transfer.ID,
			ReferenceType:       models.AccountReferenceTypeAccountTransfer,
			CorrelationId:       correlationId,
			CreatedBy:           userId,
			Entries:             entries,
		})
		if err != nil {
			return err
		}
		return tx.Model(transfer).UpdateColumn("journal_id", journal.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// ReversePartyPayment backs out a receipt, payment, or advance refund: posts
// the reversal journal, restores document balances, gives consumed advances
// back to their source payments, and marks the record Reversed.
func ReversePartyPayment(ctx context.Context, db *gorm.DB, logger *logrus.Logger, paymentId int, reason string) (*models.PartyPayment, error) {
	var payment *models.PartyPayment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = models.GetPartyPayment(tx, paymentId)
		if err != nil {
			return err
		}

		if err := AcquirePartyPostingLock(tx, payment.PartyId); err != nil {
			return err
		}
		defer ReleasePartyPostingLock(tx, payment.PartyId)
		if payment.AccountId != nil {
			if err := AcquireAccountPostingLock(tx, *payment.AccountId); err != nil {
				return err
			}
			defer ReleaseAccountPostingLock(tx, *payment.AccountId)
		}

		if payment.Status == models.TransactionStatusReversed {
			return utils.NewAlreadyReversedError("payment %s was already reversed", payment.PaymentNumber)
		}
		// The advance this payment banked was already spent by later
		// settlements; those must be reversed first.
		if payment.AdvanceApplied.IsPositive() {
			return utils.NewInsufficientBalanceError(
				"advance of payment %s was partially applied (%s); reverse the consuming settlements first",
				payment.PaymentNumber, payment.AdvanceApplied.String())
		}

		if payment.JournalId != nil {
			journal, err := models.GetAccountJournal(tx, *payment.JournalId)
			if err != nil {
				return err
			}
			if _, err := ReverseAccountJournal(tx, logger, journal, reason); err != nil {
				return err
			}
		}

		// Restore document balances.
		for _, alloc := range payment.Allocations {
			if err := tx.Model(&models.Document{}).Where("id = ?", alloc.DocumentId).
				UpdateColumn("remaining_balance", gorm.Expr("remaining_balance + ?", alloc.Amount)).Error; err != nil {
				return err
			}
		}

		// Give consumed advances back to their sources.
		var applications []models.AdvanceApplication
		if err := tx.Where("payment_id = ?", payment.ID).Find(&applications).Error; err != nil {
			return err
		}
		for _, app := range applications {
			if err := tx.Model(&models.PartyPayment{}).Where("id = ?", app.SourcePaymentId).
				UpdateColumn("advance_applied", gorm.Expr("advance_applied - ?", app.Amount)).Error; err != nil {
				return err
			}
		}
		if len(applications) > 0 {
			if err := tx.Where("payment_id = ?", payment.ID).Delete(&models.AdvanceApplication{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.PartyPayment{}).Where("id = ?", payment.ID).
			UpdateColumn("status", models.TransactionStatusReversed).Error
	})
	if err != nil {
		return nil, err
	}
	payment.Status = models.TransactionStatusReversed
	return payment, nil
}

// ReverseAccountTransfer backs out a transfer by posting its reversal journal.
func ReverseAccountTransfer(ctx context.Context, db *gorm.DB, logger *logrus.Logger, transferId int, reason string) (*models.AccountTransfer, error) {
	var transfer *models.AccountTransfer
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transfer, err = models.GetAccountTransfer(tx, transferId)
		if err != nil {
			return err
		}

		first, second := transfer.FromAccountId, transfer.ToAccountId
		if second < first {
			first, second = second, first
		}
		if err := AcquireAccountPostingLock(tx, first); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(tx, first)
		if err := AcquireAccountPostingLock(tx, second); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(tx, second)

		if transfer.Status == models.TransactionStatusReversed {
			return utils.NewAlreadyReversedError("transfer %s was already reversed", transfer.TransferNumber)
		}

		if transfer.JournalId != nil {
			journal, err := models.GetAccountJournal(tx, *transfer.JournalId)
			if err != nil {
				return err
			}
			if _, err := ReverseAccountJournal(tx, logger, journal, reason); err != nil {
				return err
			}
		}

		return tx.Model(&models.AccountTransfer{}).Where("id = ?", transfer.ID).
			UpdateColumn("status", models.TransactionStatusReversed).Error
	})
	if err != nil {
		return nil, err
	}
	transfer.Status = models.TransactionStatusReversed
	return transfer, nil
}
