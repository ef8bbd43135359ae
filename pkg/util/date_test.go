package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2023-10-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Format("2006-01-02") != "2023-10-01" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2023, 10, 1, 9, 30, 0, 0, time.UTC)
	b := time.Date(2023, 10, 1, 23, 59, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatalf("expected same day")
	}
	if SameDay(a, b.AddDate(0, 0, 1)) {
		t.Fatalf("expected different day")
	}
}

func TestDayStart(t *testing.T) {
	ts := time.Date(2023, 10, 1, 15, 4, 5, 0, time.UTC)
	got := DayStart(ts)
	if got.Hour() != 0 || got.Minute() != 0 || !SameDay(got, ts) {
		t.Fatalf("unexpected day start %v", got)
	}
}
