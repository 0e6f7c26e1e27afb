package workflow

import (
	"testing"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
)

func sumPartyEffect(role models.PartyRole, entries []JournalEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.LedgerType == models.LedgerTypeParty {
			total = total.Add(PartyEffect(role, e))
		}
	}
	return total
}

func sumAccountEffect(entries []JournalEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.LedgerType == models.LedgerTypeAccount {
			total = total.Add(AccountEffect(e))
		}
	}
	return total
}

func accountOf(id int) *int { return &id }

func TestBuildPaymentEntries_FullyAllocatedReceipt(t *testing.T) {
	entries := BuildPaymentEntries(models.PartyRoleCustomer, accountOf(7), 3,
		d("60"), d("60"), decimal.Zero, "RCPT-1")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	if got := sumAccountEffect(entries); !got.Equal(d("60")) {
		t.Fatalf("account effect = %s, want 60", got)
	}
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.Equal(d("-60")) {
		t.Fatalf("outstanding effect = %s, want -60", got)
	}
}

func TestBuildPaymentEntries_MixedRemainderIsAdvanceFlagged(t *testing.T) {
	// 150 received, 120 allocated, 30 retained as advance.
	entries := BuildPaymentEntries(models.PartyRoleCustomer, accountOf(7), 3,
		d("150"), d("120"), decimal.Zero, "RCPT-2")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	// The advance remainder must not reduce outstanding.
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.Equal(d("-120")) {
		t.Fatalf("outstanding effect = %s, want -120", got)
	}
	var advanceLeg *JournalEntry
	for i := range entries {
		if entries[i].IsAdvance {
			advanceLeg = &entries[i]
		}
	}
	if advanceLeg == nil || !advanceLeg.Credit.Equal(d("30")) {
		t.Fatalf("expected a flagged 30 credit advance leg, got %+v", entries)
	}
}

func TestBuildPaymentEntries_PureAdvanceReducesOutstandingOnce(t *testing.T) {
	entries := BuildPaymentEntries(models.PartyRoleCustomer, accountOf(7), 3,
		d("100"), decimal.Zero, decimal.Zero, "RCPT-3")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	// The full reduction happens at creation, via an unflagged leg.
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.Equal(d("-100")) {
		t.Fatalf("outstanding effect = %s, want -100", got)
	}
	for _, e := range entries {
		if e.IsAdvance {
			t.Fatalf("pure advance must not carry flagged legs, got %+v", e)
		}
	}
}

func TestBuildPaymentEntries_AdvanceApplicationIsOutstandingNeutral(t *testing.T) {
	// Settle 50 of documents purely from a stored advance: no cash moves and
	// outstanding does not move again.
	entries := BuildPaymentEntries(models.PartyRoleCustomer, nil, 3,
		decimal.Zero, d("50"), d("50"), "RCPT-4")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	if got := sumAccountEffect(entries); !got.IsZero() {
		t.Fatalf("account effect = %s, want 0", got)
	}
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.IsZero() {
		t.Fatalf("outstanding effect = %s, want 0", got)
	}
}

func TestBuildPaymentEntries_MixedCashAndAdvance(t *testing.T) {
	// 40 from the bank plus 50 from stored advance settles 90 of documents.
	entries := BuildPaymentEntries(models.PartyRoleCustomer, accountOf(7), 3,
		d("40"), d("90"), d("50"), "RCPT-5")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	if got := sumAccountEffect(entries); !got.Equal(d("40")) {
		t.Fatalf("account effect = %s, want 40", got)
	}
	// Only the cash-funded portion reduces outstanding now; the advance
	// portion already did at its creation.
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.Equal(d("-40")) {
		t.Fatalf("outstanding effect = %s, want -40", got)
	}
}

func TestBuildPaymentEntries_SupplierMirrorsSigns(t *testing.T) {
	entries := BuildPaymentEntries(models.PartyRoleSupplier, accountOf(7), 3,
		d("60"), d("60"), decimal.Zero, "PAY-1")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	if got := sumAccountEffect(entries); !got.Equal(d("-60")) {
		t.Fatalf("account effect = %s, want -60", got)
	}
	if got := sumPartyEffect(models.PartyRoleSupplier, entries); !got.Equal(d("-60")) {
		t.Fatalf("outstanding effect = %s, want -60", got)
	}
}

func TestBuildAdvanceRefundEntries_Customer(t *testing.T) {
	entries := BuildAdvanceRefundEntries(models.PartyRoleCustomer, 7, 3, d("30"), "PAY-9")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	// Cash goes out; the outstanding reduction the advance made at creation
	// comes back up by the refunded amount.
	if got := sumAccountEffect(entries); !got.Equal(d("-30")) {
		t.Fatalf("account effect = %s, want -30", got)
	}
	if got := sumPartyEffect(models.PartyRoleCustomer, entries); !got.Equal(d("30")) {
		t.Fatalf("outstanding effect = %s, want 30", got)
	}
}

func TestBuildAdvanceRefundEntries_Supplier(t *testing.T) {
	entries := BuildAdvanceRefundEntries(models.PartyRoleSupplier, 7, 3, d("30"), "RCPT-9")

	if err := ValidateBalancedEntries(entries); err != nil {
		t.Fatalf("entries unbalanced: %v", err)
	}
	if got := sumAccountEffect(entries); !got.Equal(d("30")) {
		t.Fatalf("account effect = %s, want 30", got)
	}
	if got := sumPartyEffect(models.PartyRoleSupplier, entries); !got.Equal(d("30")) {
		t.Fatalf("outstanding effect = %s, want 30", got)
	}
}

// A supplier advance with nothing outstanding drives the projection negative:
// the supplier holds a credit balance with us.
func TestSupplierAdvanceDrivesOutstandingNegative(t *testing.T) {
	entries := BuildPaymentEntries(models.PartyRoleSupplier, accountOf(7), 3,
		d("5000"), decimal.Zero, decimal.Zero, "PAY-7")

	outstanding := decimal.Zero
	for _, e := range entries {
		if e.LedgerType == models.LedgerTypeParty {
			outstanding = NextOutstanding(outstanding, models.PartyRoleSupplier, e)
		}
	}
	if !outstanding.Equal(d("-5000")) {
		t.Fatalf("outstanding after advance = %s, want -5000", outstanding)
	}
}

// Posting a journal and posting its reversal must be exact inverses: the
// outstanding projection ends where it started, even when the advance took it
// negative in between.
func TestReversalRoundTripRestoresOutstanding(t *testing.T) {
	cases := []struct {
		name    string
		role    models.PartyRole
		entries []JournalEntry
	}{
		{"pure supplier advance", models.PartyRoleSupplier,
			BuildPaymentEntries(models.PartyRoleSupplier, accountOf(7), 3, d("5000"), decimal.Zero, decimal.Zero, "PAY-7")},
		{"mixed customer receipt", models.PartyRoleCustomer,
			BuildPaymentEntries(models.PartyRoleCustomer, accountOf(7), 3, d("150"), d("120"), decimal.Zero, "RCPT-2")},
		{"customer advance refund", models.PartyRoleCustomer,
			BuildAdvanceRefundEntries(models.PartyRoleCustomer, 7, 3, d("30"), "PAY-9")},
	}
	for _, tc := range cases {
		outstanding := decimal.Zero
		for _, e := range tc.entries {
			if e.LedgerType == models.LedgerTypeParty {
				outstanding = NextOutstanding(outstanding, tc.role, e)
			}
		}
		for _, e := range tc.entries {
			if e.LedgerType != models.LedgerTypeParty {
				continue
			}
			reversed := e
			reversed.Debit, reversed.Credit = e.Credit, e.Debit
			outstanding = NextOutstanding(outstanding, tc.role, reversed)
		}
		if !outstanding.IsZero() {
			t.Fatalf("%s: outstanding after reversal = %s, want 0", tc.name, outstanding)
		}
	}
}

func TestValidatePaymentInput_Rejections(t *testing.T) {
	base := NewPartyPayment{
		PartyId:     3,
		AccountId:   accountOf(7),
		PaymentDate: openDocs()[0].DocumentDate,
		Mode:        models.PaymentModeBank,
	}

	zero := base
	zero.Amount = decimal.Zero
	if err := validatePaymentInput(zero); utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("zero amount: expected Validation, got %v", err)
	}

	negative := base
	negative.Amount = d("-5")
	if err := validatePaymentInput(negative); utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("negative amount: expected Validation, got %v", err)
	}

	noAccount := base
	noAccount.AccountId = nil
	noAccount.Amount = d("10")
	if err := validatePaymentInput(noAccount); utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("missing account: expected Validation, got %v", err)
	}

	advanceOnly := base
	advanceOnly.Amount = decimal.Zero
	advanceOnly.UseAdvanceAmount = d("10")
	if err := validatePaymentInput(advanceOnly); utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("advance-only without Adjustment mode: expected Validation, got %v", err)
	}
	advanceOnly.Mode = models.PaymentModeAdjustment
	if err := validatePaymentInput(advanceOnly); err != nil {
		t.Fatalf("advance-only with Adjustment mode: unexpected error %v", err)
	}
}
