package workflow

import (
	"testing"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
)

func TestValidateBalancedEntries_Balanced(t *testing.T) {
	entries := []JournalEntry{
		{LedgerType: models.LedgerTypeAccount, AccountId: 1, Debit: d("100")},
		{LedgerType: models.LedgerTypeParty, PartyId: 2, Credit: d("100")},
	}
	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBalancedEntries_Unbalanced(t *testing.T) {
	entries := []JournalEntry{
		{LedgerType: models.LedgerTypeAccount, AccountId: 1, Debit: d("100")},
		{LedgerType: models.LedgerTypeParty, PartyId: 2, Credit: d("99.99")},
	}
	err := ValidateBalancedEntries(entries)
	if utils.KindOf(err) != utils.ErrorKindUnbalancedTransaction {
		t.Fatalf("expected UnbalancedTransaction, got %v", err)
	}
}

func TestValidateBalancedEntries_BothSidesSet(t *testing.T) {
	entries := []JournalEntry{
		{LedgerType: models.LedgerTypeAccount, AccountId: 1, Debit: d("50"), Credit: d("50")},
	}
	err := ValidateBalancedEntries(entries)
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestValidateBalancedEntries_NegativeAmount(t *testing.T) {
	entries := []JournalEntry{
		{LedgerType: models.LedgerTypeAccount, AccountId: 1, Debit: d("-10")},
		{LedgerType: models.LedgerTypeParty, PartyId: 2, Credit: d("-10")},
	}
	err := ValidateBalancedEntries(entries)
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestValidateBalancedEntries_MissingLedgerId(t *testing.T) {
	entries := []JournalEntry{
		{LedgerType: models.LedgerTypeAccount, Debit: d("10")},
		{LedgerType: models.LedgerTypeParty, PartyId: 2, Credit: d("10")},
	}
	err := ValidateBalancedEntries(entries)
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestValidateBalancedEntries_Empty(t *testing.T) {
	err := ValidateBalancedEntries(nil)
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestAccountEffect_Signs(t *testing.T) {
	debit := JournalEntry{Debit: d("40")}
	credit := JournalEntry{Credit: d("40")}

	if !AccountEffect(debit).Equal(d("40")) {
		t.Fatalf("debit effect = %s, want 40", AccountEffect(debit))
	}
	if !AccountEffect(credit).Equal(d("-40")) {
		t.Fatalf("credit effect = %s, want -40", AccountEffect(credit))
	}
}

func TestPartyEffect_RoleSigns(t *testing.T) {
	credit := JournalEntry{Credit: d("40")}

	// A credit reduces what a customer owes and raises what we owe a supplier.
	if !PartyEffect(models.PartyRoleCustomer, credit).Equal(d("-40")) {
		t.Fatalf("customer credit effect = %s, want -40", PartyEffect(models.PartyRoleCustomer, credit))
	}
	if !PartyEffect(models.PartyRoleSupplier, credit).Equal(d("40")) {
		t.Fatalf("supplier credit effect = %s, want 40", PartyEffect(models.PartyRoleSupplier, credit))
	}
	if !PartyEffect(models.PartyRoleEntity, credit).Equal(d("40")) {
		t.Fatalf("entity credit effect = %s, want 40", PartyEffect(models.PartyRoleEntity, credit))
	}
}

func TestPartyEffect_AdvanceRowsAreNeutral(t *testing.T) {
	advance := JournalEntry{Credit: d("40"), IsAdvance: true}

	if !PartyEffect(models.PartyRoleCustomer, advance).IsZero() {
		t.Fatalf("advance effect = %s, want 0", PartyEffect(models.PartyRoleCustomer, advance))
	}
}
