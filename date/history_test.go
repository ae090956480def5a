package date

import "testing"

func newHistory(points map[string]float64) *History[float64] {
	h := &History[float64]{}
	for day, v := range points {
		h.Append(MustParse(day), v)
	}
	return h
}

func TestHistoryAppend_keepsChronologicalOrder(t *testing.T) {
	h := newHistory(map[string]float64{
		"2021-01-06": 3,
		"2021-01-04": 1,
		"2021-01-05": 2,
	})

	var days []string
	for on := range h.Values() {
		days = append(days, on.String())
	}
	want := []string{"2021-01-04", "2021-01-05", "2021-01-06"}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Values()[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestHistoryAppend_overwrites(t *testing.T) {
	h := newHistory(map[string]float64{"2021-01-04": 1})
	h.Append(MustParse("2021-01-04"), 42)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, _ := h.Get(MustParse("2021-01-04")); v != 42 {
		t.Errorf("Get() = %v, want 42", v)
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	h := newHistory(map[string]float64{
		"2021-01-04": 1,
		"2021-01-06": 3,
	})

	testCases := []struct {
		on     string
		want   float64
		wantOK bool
	}{
		{"2021-01-03", 0, false},
		{"2021-01-04", 1, true},
		{"2021-01-05", 1, true}, // carries the last known value forward
		{"2021-01-06", 3, true},
		{"2021-01-10", 3, true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(MustParse(tc.on))
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ValueAsOf(%s) = (%v, %v), want (%v, %v)", tc.on, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestHistoryValueOnOrAfter(t *testing.T) {
	h := newHistory(map[string]float64{
		"2021-01-04": 1,
		"2021-01-06": 3,
	})

	testCases := []struct {
		on     string
		want   float64
		wantOK bool
	}{
		{"2021-01-03", 1, true},
		{"2021-01-05", 3, true},
		{"2021-01-06", 3, true},
		{"2021-01-07", 0, false},
	}
	for _, tc := range testCases {
		got, ok := h.ValueOnOrAfter(MustParse(tc.on))
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ValueOnOrAfter(%s) = (%v, %v), want (%v, %v)", tc.on, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestHistoryBetween(t *testing.T) {
	h := newHistory(map[string]float64{
		"2021-01-04": 1,
		"2021-01-05": 2,
		"2021-01-06": 3,
		"2021-01-07": 4,
	})
	r := Range{From: MustParse("2021-01-05"), To: MustParse("2021-01-06")}
	var got []float64
	for _, v := range h.Between(r) {
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Between(%v) = %v, want [2 3]", r, got)
	}
}

func TestIterate(t *testing.T) {
	a := newHistory(map[string]float64{"2021-01-04": 1, "2021-01-06": 1})
	b := newHistory(map[string]float64{"2021-01-04": 2, "2021-01-05": 2})

	var got []string
	for on := range Iterate(a, b) {
		got = append(got, on.String())
	}
	want := []string{"2021-01-04", "2021-01-05", "2021-01-06"}
	if len(got) != len(want) {
		t.Fatalf("Iterate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
