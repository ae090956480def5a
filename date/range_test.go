package date

import "testing"

func TestRangeContains(t *testing.T) {
	r := Range{From: MustParse("2021-01-01"), To: MustParse("2021-03-31")}

	testCases := []struct {
		on   string
		want bool
	}{
		{"2020-12-31", false},
		{"2021-01-01", true},
		{"2021-02-15", true},
		{"2021-03-31", true},
		{"2021-04-01", false},
	}
	for _, tc := range testCases {
		if got := r.Contains(MustParse(tc.on)); got != tc.want {
			t.Errorf("Contains(%s) = %v, want %v", tc.on, got, tc.want)
		}
	}
}

func TestRangeIdentifier(t *testing.T) {
	testCases := []struct {
		r    Range
		want string
	}{
		{NewRange(MustParse("2021-05-19"), Daily), "2021-05-19"},
		{NewRange(MustParse("2021-05-19"), Weekly), "2021-W20"},
		{NewRange(MustParse("2021-05-19"), Monthly), "2021-05"},
		{NewRange(MustParse("2021-05-19"), Quarterly), "2021-Q2"},
		{NewRange(MustParse("2021-05-19"), Yearly), "2021"},
		{Range{From: MustParse("2021-05-19"), To: MustParse("2021-06-02")}, "2021-05-19_2021-06-02"},
	}
	for _, tc := range testCases {
		if got := tc.r.Identifier(); got != tc.want {
			t.Errorf("Identifier(%v) = %q, want %q", tc.r, got, tc.want)
		}
	}
}

func TestQuarters(t *testing.T) {
	r := Range{From: MustParse("2021-02-10"), To: MustParse("2022-01-15")}
	var got []string
	for q := range Quarters(r) {
		got = append(got, q.String())
	}
	want := []string{"2021-04-01", "2021-07-01", "2021-10-01", "2022-01-01"}
	if len(got) != len(want) {
		t.Fatalf("Quarters() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quarters()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQuarterRange(t *testing.T) {
	r, ok := QuarterRange(2021, 2)
	if !ok {
		t.Fatal("QuarterRange(2021, 2) not ok")
	}
	if r.From.String() != "2021-04-01" || r.To.String() != "2021-06-30" {
		t.Errorf("QuarterRange(2021, 2) = %v", r)
	}
	if _, ok := QuarterRange(2021, 5); ok {
		t.Error("QuarterRange(2021, 5) should not be ok")
	}
}
