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

func TestParseTimeMillis(t *testing.T) {
    ms := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).UnixMilli()
    got, ok := ParseTime(strconv.FormatInt(ms, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UnixMilli() != ms {
        t.Fatalf("unexpected millis %v", got.UnixMilli())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestDateKey(t *testing.T) {
    in := time.Date(2024, 10, 10, 23, 59, 59, 0, time.FixedZone("x", -3600))
    if got := DateKey(in); got != "2024-10-11" {
        t.Fatalf("expected UTC date key, got %s", got)
    }
}

func TestAddDays(t *testing.T) {
    if got := AddDays("2024-02-28", 1); got != "2024-02-29" {
        t.Fatalf("expected leap day, got %s", got)
    }
    if got := AddDays("2024-03-05", -6); got != "2024-02-28" {
        t.Fatalf("unexpected %s", got)
    }
    if got := AddDays("garbage", 3); got != "garbage" {
        t.Fatalf("invalid keys pass through, got %s", got)
    }
}
