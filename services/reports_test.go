package services

import (
	"testing"
	"time"
)

func TestParseDateRangeDefaults(t *testing.T) {
	before := time.Now().UTC()
	dr, err := ParseDateRange("", "")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if !dr.Start.Equal(time.Unix(0, 0).UTC()) {
		t.Errorf("missing start should normalize to epoch, got %v", dr.Start)
	}
	if dr.End.Before(before) {
		t.Errorf("missing end should normalize to now, got %v", dr.End)
	}
}

func TestParseDateRangeExplicitMatchesDefaults(t *testing.T) {
	// Explicit epoch..now must describe the same interval as no range at all.
	dr1, err := ParseDateRange("", "")
	if err != nil {
		t.Fatal(err)
	}
	dr2, err := ParseDateRange("1970-01-01", time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatal(err)
	}
	if !dr2.Start.Equal(dr1.Start) {
		t.Errorf("explicit epoch start %v != default %v", dr2.Start, dr1.Start)
	}
	if dr2.End.Sub(dr1.End) > time.Minute || dr1.End.Sub(dr2.End) > time.Minute {
		t.Errorf("explicit now end %v too far from default %v", dr2.End, dr1.End)
	}
}

func TestParseDateRangeBareEndDateIsInclusive(t *testing.T) {
	dr, err := ParseDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	if !dr.End.Equal(want) {
		t.Errorf("end = %v, want end of day %v", dr.End, want)
	}
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	if _, err := ParseDateRange("2024-02-01", "2024-01-01"); err == nil {
		t.Error("inverted range should be rejected")
	}
}

func TestParseDateRangeRejectsGarbage(t *testing.T) {
	if _, err := ParseDateRange("yesterday", ""); err == nil {
		t.Error("unparseable start should be rejected")
	}
}

func TestBucketFormat(t *testing.T) {
	cases := map[string]string{
		"":      "%Y-%m-%d",
		"day":   "%Y-%m-%d",
		"week":  "%G-W%V",
		"month": "%Y-%m",
	}
	for in, want := range cases {
		got, err := BucketFormat(in)
		if err != nil {
			t.Errorf("BucketFormat(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("BucketFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := BucketFormat("hour"); err == nil {
		t.Error("unsupported groupBy should error")
	}
}

func TestTZString(t *testing.T) {
	cases := map[int]string{
		0:    "+00:00",
		330:  "+05:30",
		-480: "-08:00",
		60:   "+01:00",
	}
	for in, want := range cases {
		if got := TZString(in); got != want {
			t.Errorf("TZString(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 3); got != 33.33 {
		t.Errorf("Percent(1,3) = %v, want 33.33", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("Percent with zero total = %v, want 0", got)
	}
	if got := Percent(2, 2); got != 100 {
		t.Errorf("Percent(2,2) = %v, want 100", got)
	}
}
