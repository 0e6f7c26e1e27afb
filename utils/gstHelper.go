package utils

import "github.com/shopspring/decimal"

type GSTBreakup struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

var decimalOneHundred = decimal.NewFromInt(100)

// SplitGST breaks a tax-inclusive grand total into taxable value and GST
// portions. Intra-state supplies split the tax evenly into CGST+SGST; any odd
// half-paisa lands on CGST. Inter-state supplies carry the whole tax as IGST.
// All outputs are rounded to 2 decimals, half-up.
func SplitGST(grandTotal decimal.Decimal, ratePercent decimal.Decimal, interState bool) GSTBreakup {
	if ratePercent.IsZero() {
		return GSTBreakup{TaxableValue: grandTotal.Round(2)}
	}
	taxable := grandTotal.Mul(decimalOneHundred).DivRound(decimalOneHundred.Add(ratePercent), 4).Round(2)
	tax := grandTotal.Round(2).Sub(taxable)
	if interState {
		return GSTBreakup{TaxableValue: taxable, IGST: tax}
	}
	sgst := tax.DivRound(decimal.NewFromInt(2), 4).RoundFloor(2)
	cgst := tax.Sub(sgst)
	return GSTBreakup{TaxableValue: taxable, CGST: cgst, SGST: sgst}
}
