package workflow

import (
	"testing"
	"time"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func openDocs() []models.Document {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return []models.Document{
		{ID: 1, DocumentNumber: "INV-1", DocumentDate: base, GrandTotal: d("100"), RemainingBalance: d("100")},
		{ID: 2, DocumentNumber: "INV-2", DocumentDate: base.AddDate(0, 0, 5), GrandTotal: d("20"), RemainingBalance: d("20")},
	}
}

func TestAllocateFIFO_PartialOldestFirst(t *testing.T) {
	got, leftover := AllocateFIFO(openDocs(), d("60"))

	if len(got) != 1 {
		t.Fatalf("expected 1 allocation, got %d", len(got))
	}
	if got[0].DocumentId != 1 || !got[0].Amount.Equal(d("60")) {
		t.Fatalf("allocation = doc %d amount %s, want doc 1 amount 60", got[0].DocumentId, got[0].Amount)
	}
	if !leftover.IsZero() {
		t.Fatalf("leftover = %s, want 0", leftover)
	}
}

func TestAllocateFIFO_SpillsIntoNewerDocument(t *testing.T) {
	got, leftover := AllocateFIFO(openDocs(), d("110"))

	if len(got) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(got))
	}
	if got[0].DocumentId != 1 || !got[0].Amount.Equal(d("100")) {
		t.Fatalf("first allocation = doc %d amount %s, want doc 1 amount 100", got[0].DocumentId, got[0].Amount)
	}
	if got[1].DocumentId != 2 || !got[1].Amount.Equal(d("10")) {
		t.Fatalf("second allocation = doc %d amount %s, want doc 2 amount 10", got[1].DocumentId, got[1].Amount)
	}
	if !leftover.IsZero() {
		t.Fatalf("leftover = %s, want 0", leftover)
	}
}

func TestAllocateFIFO_LeftoverBecomesAdvance(t *testing.T) {
	_, leftover := AllocateFIFO(openDocs(), d("150"))

	if !leftover.Equal(d("30")) {
		t.Fatalf("leftover = %s, want 30", leftover)
	}
}

func TestAllocateFIFO_SkipsSettledDocuments(t *testing.T) {
	docs := openDocs()
	docs[0].RemainingBalance = decimal.Zero

	got, _ := AllocateFIFO(docs, d("15"))

	if len(got) != 1 || got[0].DocumentId != 2 {
		t.Fatalf("expected a single allocation against doc 2, got %+v", got)
	}
}

func TestAllocateFIFO_Deterministic(t *testing.T) {
	first, _ := AllocateFIFO(openDocs(), d("60"))
	second, _ := AllocateFIFO(openDocs(), d("60"))

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].DocumentId != second[i].DocumentId || !first[i].Amount.Equal(second[i].Amount) {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestValidateManualAllocations_Valid(t *testing.T) {
	total, err := ValidateManualAllocations(openDocs(), []AllocationRequest{
		{DocumentId: 2, Amount: d("20")},
		{DocumentId: 1, Amount: d("30")},
	}, d("50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(d("50")) {
		t.Fatalf("total = %s, want 50", total)
	}
}

func TestValidateManualAllocations_OverDocumentBalance(t *testing.T) {
	_, err := ValidateManualAllocations(openDocs(), []AllocationRequest{
		{DocumentId: 2, Amount: d("25")},
	}, d("25"))
	if utils.KindOf(err) != utils.ErrorKindOverAllocation {
		t.Fatalf("expected OverAllocation, got %v", err)
	}
}

func TestValidateManualAllocations_OverPaymentAmount(t *testing.T) {
	_, err := ValidateManualAllocations(openDocs(), []AllocationRequest{
		{DocumentId: 1, Amount: d("100")},
		{DocumentId: 2, Amount: d("20")},
	}, d("110"))
	if utils.KindOf(err) != utils.ErrorKindOverAllocation {
		t.Fatalf("expected OverAllocation, got %v", err)
	}
}

func TestValidateManualAllocations_UnknownDocument(t *testing.T) {
	_, err := ValidateManualAllocations(openDocs(), []AllocationRequest{
		{DocumentId: 99, Amount: d("5")},
	}, d("5"))
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestValidateManualAllocations_DuplicateDocument(t *testing.T) {
	_, err := ValidateManualAllocations(openDocs(), []AllocationRequest{
		{DocumentId: 1, Amount: d("5")},
		{DocumentId: 1, Amount: d("5")},
	}, d("10"))
	if utils.KindOf(err) != utils.ErrorKindValidation {
		t.Fatalf("expected Validation, got %v", err)
	}
}
