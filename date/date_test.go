package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2021-07-01", want: New(2021, time.July, 1)},
		{in: "2021-7-1", want: New(2021, time.July, 1)},
		{in: "2021-12-31", want: New(2021, time.December, 31)},
		{in: "not-a-date", wantErr: true},
		{in: "2021/07/01", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNew_normalizes(t *testing.T) {
	if got, want := New(2021, time.January, 32), New(2021, time.February, 1); got != want {
		t.Errorf("New(2021, January, 32) = %s, want %s", got, want)
	}
	if got, want := New(2021, time.Month(13), 1), New(2022, time.January, 1); got != want {
		t.Errorf("New(2021, Month(13), 1) = %s, want %s", got, want)
	}
}

func TestStartOfEndOf(t *testing.T) {
	// 2021-05-19 is a Wednesday.
	d := MustParse("2021-05-19")

	testCases := []struct {
		period    Period
		wantStart string
		wantEnd   string
	}{
		{Daily, "2021-05-19", "2021-05-19"},
		{Weekly, "2021-05-17", "2021-05-23"},
		{Monthly, "2021-05-01", "2021-05-31"},
		{Quarterly, "2021-04-01", "2021-06-30"},
		{Yearly, "2021-01-01", "2021-12-31"},
	}
	for _, tc := range testCases {
		if got := d.StartOf(tc.period); got.String() != tc.wantStart {
			t.Errorf("StartOf(%s) = %s, want %s", tc.period, got, tc.wantStart)
		}
		if got := d.EndOf(tc.period); got.String() != tc.wantEnd {
			t.Errorf("EndOf(%s) = %s, want %s", tc.period, got, tc.wantEnd)
		}
	}
}

func TestStartOf_weekly_onMonday(t *testing.T) {
	// A Monday is the start of its own week.
	monday := MustParse("2021-05-17")
	if got := monday.StartOf(Weekly); got != monday {
		t.Errorf("StartOf(Weekly) = %s, want %s", got, monday)
	}
}

func TestDays(t *testing.T) {
	from := MustParse("2021-01-01")
	if got := from.Days(MustParse("2021-01-31")); got != 30 {
		t.Errorf("Days() = %d, want 30", got)
	}
	if got := from.Days(MustParse("2020-12-31")); got != -1 {
		t.Errorf("Days() = %d, want -1", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustParse("2021-05-19")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != `"2021-05-19"` {
		t.Fatalf("MarshalJSON = %s, want %q", b, `"2021-05-19"`)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got != d {
		t.Errorf("round trip = %s, want %s", got, d)
	}
}

func TestQuarter(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{"2021-01-15", 1},
		{"2021-03-31", 1},
		{"2021-04-01", 2},
		{"2021-09-30", 3},
		{"2021-10-01", 4},
	}
	for _, tc := range testCases {
		if got := MustParse(tc.in).Quarter(); got != tc.want {
			t.Errorf("Quarter(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
