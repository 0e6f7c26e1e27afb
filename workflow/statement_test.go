package workflow

import (
	"testing"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/shopspring/decimal"
)

func ledgerRow(id int, number string, debit, credit string, isAdvance bool) statementRow {
	return statementRow{
		AccountTransaction: models.AccountTransaction{
			ID:                  id,
			JournalId:           id,
			TransactionDateTime: time.Date(2026, 2, id, 0, 0, 0, 0, time.UTC),
			Debit:               d(debit),
			Credit:              d(credit),
			IsAdvance:           boolPtr(isAdvance),
		},
		TransactionNumber: number,
	}
}

func boolPtr(b bool) *bool { return &b }

func TestBuildStatement_BackwardWalk(t *testing.T) {
	// Newest first: deposit 200, then (older) withdrawal 50, then deposit 100.
	rows := []statementRow{
		ledgerRow(3, "TRF-3", "200", "0", false),
		ledgerRow(2, "TRF-2", "0", "50", false),
		ledgerRow(1, "TRF-1", "100", "0", false),
	}

	lines := BuildStatement(d("250"), rows, AccountRowEffect)

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	wantAfter := []string{"250", "50", "100"}
	wantBefore := []string{"50", "100", "0"}
	for i, line := range lines {
		if !line.BalanceAfter.Equal(d(wantAfter[i])) {
			t.Fatalf("line %d balance_after = %s, want %s", i, line.BalanceAfter, wantAfter[i])
		}
		if !line.BalanceBefore.Equal(d(wantBefore[i])) {
			t.Fatalf("line %d balance_before = %s, want %s", i, line.BalanceBefore, wantBefore[i])
		}
	}
	// Adjacent lines chain: each older row ends where the newer one began.
	for i := 0; i < len(lines)-1; i++ {
		if !lines[i].BalanceBefore.Equal(lines[i+1].BalanceAfter) {
			t.Fatalf("lines %d and %d do not chain: %s vs %s",
				i, i+1, lines[i].BalanceBefore, lines[i+1].BalanceAfter)
		}
	}
}

func TestBuildStatement_PartyAdvanceRowsDoNotMoveBalance(t *testing.T) {
	rows := []statementRow{
		ledgerRow(2, "RCPT-2", "0", "30", true),
		ledgerRow(1, "RCPT-1", "0", "60", false),
	}
	effect := func(t models.AccountTransaction) decimal.Decimal {
		return PartyRowEffect(models.PartyRoleCustomer, t)
	}

	lines := BuildStatement(d("40"), rows, effect)

	if !lines[0].BalanceBefore.Equal(d("40")) {
		t.Fatalf("advance row moved the balance: before = %s, want 40", lines[0].BalanceBefore)
	}
	if !lines[1].BalanceBefore.Equal(d("100")) {
		t.Fatalf("settlement row balance_before = %s, want 100", lines[1].BalanceBefore)
	}
}

func TestBuildStatement_Empty(t *testing.T) {
	lines := BuildStatement(d("10"), nil, AccountRowEffect)
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}

func TestExportStatementXLSX(t *testing.T) {
	statement := &Statement{
		Title:          "Account statement: Main",
		CurrentBalance: d("250"),
		TotalInflow:    d("250"),
		TotalOutflow:   d("0"),
		Lines: BuildStatement(d("250"), []statementRow{
			ledgerRow(1, "TRF-1", "250", "0", false),
		}, AccountRowEffect),
	}

	f, err := ExportStatementXLSX(statement)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := f.GetCellValue("Sheet1", "A3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "TRF-1" {
		t.Fatalf("cell A3 = %q, want TRF-1", got)
	}
	label, err := f.GetCellValue("Sheet1", "C4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "Totals" {
		t.Fatalf("cell C4 = %q, want Totals", label)
	}
	inflow, err := f.GetCellValue("Sheet1", "D4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inflow != "250" {
		t.Fatalf("cell D4 = %q, want 250", inflow)
	}
}
