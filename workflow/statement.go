package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// StatementLine is one ledger row with its running balance recovered by the
// backward walk.
type StatementLine struct {
	JournalId           int             `json:"journal_id"`
	TransactionNumber   string          `json:"transaction_number"`
	TransactionDateTime time.Time       `json:"transaction_date_time"`
	Description         string          `json:"description"`
	Debit               decimal.Decimal `json:"debit"`
	Credit              decimal.Decimal `json:"credit"`
	IsReversal          bool            `json:"is_reversal"`
	IsAdvance           bool            `json:"is_advance"`
	BalanceBefore       decimal.Decimal `json:"balance_before"`
	BalanceAfter        decimal.Decimal `json:"balance_after"`
}

// Statement is one page of ledger history plus summary aggregates over the
// whole queried window: the live balance and the total debits (inflow) and
// credits (outflow).
type Statement struct {
	Title          string          `json:"title"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalInflow    decimal.Decimal `json:"total_inflow"`
	TotalOutflow   decimal.Decimal `json:"total_outflow"`
	Lines          []StatementLine `json:"lines"`
	Page           int             `json:"page"`
	PageSize       int             `json:"page_size"`
	TotalRows      int64           `json:"total_rows"`
}

type statementTotals struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// statementRow joins a ledger leg with its journal header.
type statementRow struct {
	models.AccountTransaction
	TransactionNumber string
	IsReversalJournal bool
}

// AccountRowEffect is the signed balance change of an account ledger row.
func AccountRowEffect(t models.AccountTransaction) decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// PartyRowEffect is the signed outstanding change of a party ledger row.
// Advance-flagged rows carry no outstanding effect.
func PartyRowEffect(role models.PartyRole, t models.AccountTransaction) decimal.Decimal {
	if t.IsAdvance != nil && *t.IsAdvance {
		return decimal.Zero
	}
	if role == models.PartyRoleCustomer {
		return t.Debit.Sub(t.Credit)
	}
	return t.Credit.Sub(t.Debit)
}

// BuildStatement walks rows newest first: the newest row ends at balanceAfter,
// each balanceBefore is balanceAfter minus the row's effect, and the next
// (older) row's balanceAfter is this row's balanceBefore. Pure.
func BuildStatement(balanceAfterNewest decimal.Decimal, rows []statementRow,
	effect func(models.AccountTransaction) decimal.Decimal) []StatementLine {

	lines := make([]StatementLine, 0, len(rows))
	balanceAfter := balanceAfterNewest
	for _, row := range rows {
		balanceBefore := balanceAfter.Sub(effect(row.AccountTransaction))
		lines = append(lines, StatementLine{
			JournalId:           row.JournalId,
			TransactionNumber:   row.TransactionNumber,
			TransactionDateTime: row.TransactionDateTime,
			Description:         row.Description,
			Debit:               row.Debit,
			Credit:              row.Credit,
			IsReversal:          row.IsReversalJournal,
			IsAdvance:           row.IsAdvance != nil && *row.IsAdvance,
			BalanceBefore:       balanceBefore,
			BalanceAfter:        balanceAfter,
		})
		balanceAfter = balanceBefore
	}
	return lines
}

// GetAccountStatement returns an account's ledger newest first with running
// balances anchored to the live account balance.
func GetAccountStatement(ctx context.Context, db *gorm.DB, logger *logrus.Logger,
	accountId int, from, to *time.Time, page, pageSize int) (*Statement, error) {

	account, err := models.GetMoneyAccount(db.WithContext(ctx), accountId)
	if err != nil {
		return nil, err
	}

	scope := func(q *gorm.DB) *gorm.DB {
		return q.Where("account_transactions.ledger_type = ? AND account_transactions.account_id = ?",
			models.LedgerTypeAccount, accountId)
	}
	rows, total, sums, anchor, err := fetchStatementRows(ctx, db, logger, scope, from, to, page, pageSize,
		account.CurrentBalance, AccountRowEffect)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Title:          "Account statement: " + account.AccountName,
		CurrentBalance: account.CurrentBalance,
		TotalInflow:    sums.TotalDebit,
		TotalOutflow:   sums.TotalCredit,
		Lines:          BuildStatement(anchor, rows, AccountRowEffect),
		Page:           page,
		PageSize:       pageSize,
		TotalRows:      total,
	}, nil
}

// GetPartyStatement returns a party's sub-ledger newest first with running
// outstanding balances anchored to the live projection.
func GetPartyStatement(ctx context.Context, db *gorm.DB, logger *logrus.Logger,
	partyId int, from, to *time.Time, page, pageSize int) (*Statement, error) {

	party, err := models.GetParty(db.WithContext(ctx), partyId)
	if err != nil {
		return nil, err
	}

	effect := func(t models.AccountTransaction) decimal.Decimal {
		return PartyRowEffect(party.Role, t)
	}
	scope := func(q *gorm.DB) *gorm.DB {
		return q.Where("account_transactions.ledger_type = ? AND account_transactions.party_id = ?",
			models.LedgerTypeParty, partyId)
	}
	rows, total, sums, anchor, err := fetchStatementRows(ctx, db, logger, scope, from, to, page, pageSize,
		party.OutstandingBalance, effect)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Title:          "Party statement: " + party.PartyName,
		CurrentBalance: party.OutstandingBalance,
		TotalInflow:    sums.TotalDebit,
		TotalOutflow:   sums.TotalCredit,
		Lines:          BuildStatement(anchor, rows, effect),
		Page:           page,
		PageSize:       pageSize,
		TotalRows:      total,
	}, nil
}

// fetchStatementRows pages the ledger newest first, sums the window's debits
// and credits, and computes the balance anchor for the first returned row:
// the live balance minus the effects of every row newer than it.
func fetchStatementRows(ctx context.Context, db *gorm.DB, logger *logrus.Logger,
	scope func(*gorm.DB) *gorm.DB, from, to *time.Time, page, pageSize int,
	liveBalance decimal.Decimal,
	effect func(models.AccountTransaction) decimal.Decimal) ([]statementRow, int64, statementTotals, decimal.Decimal, error) {

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	base := scope(db.WithContext(ctx).Model(&models.AccountTransaction{}))
	if from != nil {
		base = base.Where("account_transactions.transaction_date_time >= ?", *from)
	}
	if to != nil {
		base = base.Where("account_transactions.transaction_date_time < ?", *to)
	}

	var sums statementTotals
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, sums, decimal.Zero, err
	}
	err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(account_transactions.debit), 0) AS total_debit, COALESCE(SUM(account_transactions.credit), 0) AS total_credit").
		Scan(&sums).Error
	if err != nil {
		config.LogError(logger, "statement.go", "fetchStatementRows", "SumLedgerRows", page, err)
		return nil, 0, sums, decimal.Zero, err
	}

	var rows []statementRow
	err = base.Session(&gorm.Session{}).
		Select("account_transactions.*, account_journals.transaction_number, account_journals.is_reversal AS is_reversal_journal").
		Joins("JOIN account_journals ON account_journals.id = account_transactions.journal_id").
		Order("account_transactions.transaction_date_time DESC, account_transactions.id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		config.LogError(logger, "statement.go", "fetchStatementRows", "QueryLedgerRows", page, err)
		return nil, 0, sums, decimal.Zero, err
	}
	if len(rows) == 0 {
		return rows, total, sums, liveBalance, nil
	}

	// Every row strictly newer than the first row of this page, unrestricted
	// by the date window: the anchor must tie back to the live balance.
	newest := rows[0]
	var newerRows []models.AccountTransaction
	err = scope(db.WithContext(ctx).Model(&models.AccountTransaction{})).
		Where("account_transactions.transaction_date_time > ? OR (account_transactions.transaction_date_time = ? AND account_transactions.id > ?)",
			newest.TransactionDateTime, newest.TransactionDateTime, newest.AccountTransaction.ID).
		Find(&newerRows).Error
	if err != nil {
		return nil, 0, sums, decimal.Zero, err
	}
	anchor := liveBalance
	for _, t := range newerRows {
		anchor = anchor.Sub(effect(t))
	}
	return rows, total, sums, anchor, nil
}

// ExportStatementXLSX renders a statement as a spreadsheet.
func ExportStatementXLSX(statement *Statement) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", statement.Title)
	f.SetCellValue(sheet, "A2", "Number")
	f.SetCellValue(sheet, "B2", "Date")
	f.SetCellValue(sheet, "C2", "Description")
	f.SetCellValue(sheet, "D2", "Debit")
	f.SetCellValue(sheet, "E2", "Credit")
	f.SetCellValue(sheet, "F2", "Balance")

	for i, line := range statement.Lines {
		row := fmt.Sprint(i + 3)
		f.SetCellValue(sheet, "A"+row, line.TransactionNumber)
		f.SetCellValue(sheet, "B"+row, line.TransactionDateTime.Format("2006-01-02"))
		f.SetCellValue(sheet, "C"+row, line.Description)
		f.SetCellValue(sheet, "D"+row, line.Debit.Round(2).InexactFloat64())
		f.SetCellValue(sheet, "E"+row, line.Credit.Round(2).InexactFloat64())
		f.SetCellValue(sheet, "F"+row, line.BalanceAfter.Round(2).InexactFloat64())
	}

	sumRow := fmt.Sprint(len(statement.Lines) + 3)
	f.SetCellValue(sheet, "C"+sumRow, "Totals")
	f.SetCellValue(sheet, "D"+sumRow, statement.TotalInflow.Round(2).InexactFloat64())
	f.SetCellValue(sheet, "E"+sumRow, statement.TotalOutflow.Round(2).InexactFloat64())
	return f, nil
}
