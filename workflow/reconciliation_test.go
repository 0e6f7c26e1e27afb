package workflow

import "testing"

func TestComputeOutstanding(t *testing.T) {
	cases := []struct {
		name      string
		opening   string
		confirmed string
		allocated string
		want      string
	}{
		{"no activity", "500", "0", "0", "500"},
		{"partially settled", "0", "1000", "400", "600"},
		{"fully settled", "100", "900", "1000", "0"},
		{"over-settled clamps to zero", "0", "100", "250", "0"},
	}
	for _, tc := range cases {
		got := ComputeOutstanding(d(tc.opening), d(tc.confirmed), d(tc.allocated))
		if !got.Equal(d(tc.want)) {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestExceedsDriftTolerance(t *testing.T) {
	if ExceedsDriftTolerance(d("100.00"), d("100.01")) {
		t.Fatalf("drift of exactly 0.01 must be tolerated")
	}
	if !ExceedsDriftTolerance(d("100.00"), d("100.011")) {
		t.Fatalf("drift above 0.01 must be flagged")
	}
	if ExceedsDriftTolerance(d("100"), d("100")) {
		t.Fatalf("equal balances flagged as drift")
	}
	if !ExceedsDriftTolerance(d("99.98"), d("100.00")) {
		t.Fatalf("negative drift above tolerance must be flagged")
	}
}
