package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestSplitGST_IntraState(t *testing.T) {
	got := SplitGST(d("118"), d("18"), false)

	if !got.TaxableValue.Equal(d("100")) {
		t.Fatalf("taxable = %s, want 100", got.TaxableValue)
	}
	if !got.CGST.Equal(d("9")) || !got.SGST.Equal(d("9")) {
		t.Fatalf("cgst/sgst = %s/%s, want 9/9", got.CGST, got.SGST)
	}
	if !got.IGST.IsZero() {
		t.Fatalf("igst = %s, want 0", got.IGST)
	}
}

func TestSplitGST_InterState(t *testing.T) {
	got := SplitGST(d("118"), d("18"), true)

	if !got.TaxableValue.Equal(d("100")) {
		t.Fatalf("taxable = %s, want 100", got.TaxableValue)
	}
	if !got.IGST.Equal(d("18")) {
		t.Fatalf("igst = %s, want 18", got.IGST)
	}
	if !got.CGST.IsZero() || !got.SGST.IsZero() {
		t.Fatalf("cgst/sgst = %s/%s, want 0/0", got.CGST, got.SGST)
	}
}

func TestSplitGST_OddHalfPaisaLandsOnCGST(t *testing.T) {
	got := SplitGST(d("100"), d("18"), false)

	if !got.TaxableValue.Equal(d("84.75")) {
		t.Fatalf("taxable = %s, want 84.75", got.TaxableValue)
	}
	if !got.CGST.Equal(d("7.63")) {
		t.Fatalf("cgst = %s, want 7.63", got.CGST)
	}
	if !got.SGST.Equal(d("7.62")) {
		t.Fatalf("sgst = %s, want 7.62", got.SGST)
	}
	// Components always reassemble the rounded grand total.
	sum := got.TaxableValue.Add(got.CGST).Add(got.SGST)
	if !sum.Equal(d("100")) {
		t.Fatalf("components sum to %s, want 100", sum)
	}
}

func TestSplitGST_ZeroRate(t *testing.T) {
	got := SplitGST(d("55.555"), d("0"), false)

	if !got.TaxableValue.Equal(d("55.56")) {
		t.Fatalf("taxable = %s, want 55.56", got.TaxableValue)
	}
	if !got.CGST.IsZero() || !got.SGST.IsZero() || !got.IGST.IsZero() {
		t.Fatalf("tax parts should be zero, got %s/%s/%s", got.CGST, got.SGST, got.IGST)
	}
}
