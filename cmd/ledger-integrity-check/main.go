package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/shopspring/decimal"
)

type journalBalance struct {
	JournalId         int             `gorm:"column:journal_id"`
	TransactionNumber string          `gorm:"column:transaction_number"`
	TotalDebit        decimal.Decimal `gorm:"column:total_debit"`
	TotalCredit       decimal.Decimal `gorm:"column:total_credit"`
}

// Verifies the ledger invariants over all posted journals:
// - every journal's debits equal its credits
// - every reversal points at a journal that points back
// Exit code 1 when any violation is found.
func main() {
	journalID := flag.Int("journal-id", 0, "Optional: check a single journal id")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	violations := 0

	q := db.Model(&models.AccountTransaction{}).
		Select("account_transactions.journal_id, account_journals.transaction_number, SUM(account_transactions.debit) AS total_debit, SUM(account_transactions.credit) AS total_credit").
		Joins("JOIN account_journals ON account_journals.id = account_transactions.journal_id").
		Group("account_transactions.journal_id, account_journals.transaction_number")
	if *journalID > 0 {
		q = q.Where("account_transactions.journal_id = ?", *journalID)
	}
	var balances []journalBalance
	if err := q.Scan(&balances).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	for _, b := range balances {
		if !b.TotalDebit.Equal(b.TotalCredit) {
			violations++
			fmt.Printf("UNBALANCED journal_id=%d number=%s debit=%s credit=%s\n",
				b.JournalId, b.TransactionNumber, b.TotalDebit.String(), b.TotalCredit.String())
		}
	}

	var reversals []models.AccountJournal
	rq := db.Where("is_reversal = true")
	if *journalID > 0 {
		rq = rq.Where("id = ?", *journalID)
	}
	if err := rq.Find(&reversals).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	for _, rev := range reversals {
		if rev.ReversesJournalId == nil {
			violations++
			fmt.Printf("ORPHAN_REVERSAL journal_id=%d number=%s\n", rev.ID, rev.TransactionNumber)
			continue
		}
		var original models.AccountJournal
		if err := db.First(&original, *rev.ReversesJournalId).Error; err != nil {
			violations++
			fmt.Printf("MISSING_ORIGINAL journal_id=%d reverses=%d\n", rev.ID, *rev.ReversesJournalId)
			continue
		}
		if original.ReversedByJournalId == nil || *original.ReversedByJournalId != rev.ID {
			violations++
			fmt.Printf("BROKEN_LINK journal_id=%d original=%d\n", rev.ID, original.ID)
		}
	}

	fmt.Printf("journals=%d reversals=%d violations=%d\n", len(balances), len(reversals), violations)
	if violations > 0 {
		os.Exit(1)
	}
}
