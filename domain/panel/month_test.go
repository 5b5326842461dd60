package panel

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMonthFormatAndParse(t *testing.T) {
	m := NewMonth(2023, time.April)
	if m.String() != "2023-04" {
		t.Errorf("String = %q", m.String())
	}
	parsed, err := ParseMonth("2023-04")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != m {
		t.Errorf("parsed %v != %v", parsed, m)
	}
	if _, err := ParseMonth("April 2023"); err == nil {
		t.Error("expected parse failure")
	}
}

func TestMonthKeyOrdering(t *testing.T) {
	dec := NewMonth(2022, time.December)
	jan := NewMonth(2023, time.January)
	if dec.Key() != 202212 || jan.Key() != 202301 {
		t.Errorf("keys = %d, %d", dec.Key(), jan.Key())
	}
	if !dec.Before(jan) || jan.Before(dec) {
		t.Error("December 2022 should precede January 2023")
	}
}

func TestMonthArithmetic(t *testing.T) {
	nov := NewMonth(2022, time.November)
	if got := nov.AddMonths(3); got != NewMonth(2023, time.February) {
		t.Errorf("Nov 2022 + 3 = %v", got)
	}
	if got := nov.AddMonths(-11); got != NewMonth(2021, time.December) {
		t.Errorf("Nov 2022 - 11 = %v", got)
	}
	if got := NewMonth(2023, time.December).Next(); got != NewMonth(2024, time.January) {
		t.Errorf("Dec 2023 next = %v", got)
	}
}

func TestMonthDays(t *testing.T) {
	cases := []struct {
		m    Month
		want int
	}{
		{NewMonth(2023, time.April), 30},
		{NewMonth(2023, time.December), 31},
		{NewMonth(2023, time.February), 28},
		{NewMonth(2024, time.February), 29},
	}
	for _, tc := range cases {
		if got := tc.m.Days(); got != tc.want {
			t.Errorf("%v days = %d, want %d", tc.m, got, tc.want)
		}
	}
	if got := NewMonth(2024, time.February).LastDay(); got != "2024-02-29" {
		t.Errorf("LastDay = %q", got)
	}
	if got := NewMonth(2023, time.April).FirstDay(); got != "2023-04-01" {
		t.Errorf("FirstDay = %q", got)
	}
}

func TestMonthRange(t *testing.T) {
	months := MonthRange(NewMonth(2022, time.April), 24)
	if len(months) != 24 {
		t.Fatalf("len = %d", len(months))
	}
	if months[0] != NewMonth(2022, time.April) || months[23] != NewMonth(2024, time.March) {
		t.Errorf("range ends = %v .. %v", months[0], months[23])
	}
}

func TestEventClockTau(t *testing.T) {
	shanghai := NewEventClock(NewMonth(2023, time.April))
	if got := shanghai.Tau(NewMonth(2022, time.April)); got != -12 {
		t.Errorf("tau(Apr 2022) = %d, want -12", got)
	}
	if got := shanghai.Tau(NewMonth(2023, time.April)); got != 0 {
		t.Errorf("tau(Apr 2023) = %d, want 0", got)
	}
	if got := shanghai.Tau(NewMonth(2024, time.March)); got != 11 {
		t.Errorf("tau(Mar 2024) = %d, want 11", got)
	}
	if got := shanghai.MonthAt(-15); got != NewMonth(2022, time.January) {
		t.Errorf("MonthAt(-15) = %v", got)
	}

	// The CRA clock anchors tau=0 at December 2022, so January 2023 is +1.
	cra := NewEventClock(NewMonth(2022, time.December))
	if got := cra.Tau(NewMonth(2023, time.January)); got != 1 {
		t.Errorf("tau(Jan 2023) = %d, want 1", got)
	}
	if got := cra.Tau(NewMonth(2022, time.January)); got != -11 {
		t.Errorf("tau(Jan 2022) = %d, want -11", got)
	}
}

func TestMonthJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		M Month `json:"m"`
	}
	out, err := json.Marshal(wrapper{M: NewMonth(2023, time.April)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"m":"2023-04"}` {
		t.Errorf("marshal = %s", out)
	}
	var w wrapper
	if err := json.Unmarshal([]byte(`{"m":"2022-12"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.M != NewMonth(2022, time.December) {
		t.Errorf("unmarshal = %v", w.M)
	}
}
