package workflow

import (
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/models"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/utils"
	"github.com/shopspring/decimal"
)

// AllocationRequest is a caller-chosen split of a payment across documents.
type AllocationRequest struct {
	DocumentId int             `json:"document_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

type AllocationResult struct {
	DocumentId int
	Amount     decimal.Decimal
}

// AllocateFIFO spreads amount across the documents oldest first, never
// exceeding any document's remaining balance. Documents must already be in
// settlement order (document_date asc, id asc). Zero allocations are omitted.
// The leftover, if any, is the advance remainder.
func AllocateFIFO(documents []models.Document, amount decimal.Decimal) ([]AllocationResult, decimal.Decimal) {
	results := make([]AllocationResult, 0, len(documents))
	remaining := amount
	for _, doc := range documents {
		if !remaining.IsPositive() {
			break
		}
		due := doc.RemainingBalance
		if !due.IsPositive() {
			continue
		}
		alloc := decimal.Min(due, remaining)
		results = append(results, AllocationResult{DocumentId: doc.ID, Amount: alloc})
		remaining = remaining.Sub(alloc)
	}
	return results, remaining
}

// ValidateManualAllocations checks a caller-chosen split against the party's
// open documents and the payment amount. Returns the total allocated.
func ValidateManualAllocations(documents []models.Document, requests []AllocationRequest, amount decimal.Decimal) (decimal.Decimal, error) {
	byId := make(map[int]models.Document, len(documents))
	for _, doc := range documents {
		byId[doc.ID] = doc
	}

	total := decimal.Zero
	seen := make(map[int]bool, len(requests))
	for _, req := range requests {
		if !req.Amount.IsPositive() {
			return decimal.Zero, utils.NewValidationError("allocations", "allocation for document %d must be positive", req.DocumentId)
		}
		if seen[req.DocumentId] {
			return decimal.Zero, utils.NewValidationError("allocations", "document %d allocated twice", req.DocumentId)
		}
		seen[req.DocumentId] = true
		doc, ok := byId[req.DocumentId]
		if !ok {
			return decimal.Zero, utils.NewValidationError("allocations", "document %d is not open for this party", req.DocumentId)
		}
		if req.Amount.GreaterThan(doc.RemainingBalance) {
			return decimal.Zero, utils.NewOverAllocationError(
				"allocation %s exceeds remaining balance %s of document %s",
				req.Amount.String(), doc.RemainingBalance.String(), doc.DocumentNumber)
		}
		total = total.Add(req.Amount)
	}
	if total.GreaterThan(amount) {
		return decimal.Zero, utils.NewOverAllocationError(
			"allocations total %s exceeds payment amount %s", total.String(), amount.String())
	}
	return total, nil
}
