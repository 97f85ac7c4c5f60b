package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2025-06-01T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeAPIDate(t *testing.T) {
	got, ok := ParseTime("2025-06-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 1 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2025, 6, 1, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDateWindow(t *testing.T) {
	now := time.Date(2025, 6, 8, 15, 0, 0, 0, time.UTC)
	from, to := DateWindow(now, 7)
	if from != "2025-06-01" || to != "2025-06-08" {
		t.Fatalf("unexpected window %s..%s", from, to)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  aapl "); got != "AAPL" {
		t.Fatalf("unexpected symbol %q", got)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV("AAPL, msft ,,NVDA")
	if len(got) != 3 || got[0] != "AAPL" || got[1] != "msft" || got[2] != "NVDA" {
		t.Fatalf("unexpected parts %v", got)
	}
}
