package trades

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-01-05", "2024-01-05", true},
		{" 2024-01-05 ", "2024-01-05", true},
		{"2024-01-05 13:45:00", "2024-01-05", true},
		{"2024-01-05T13:45:00Z", "2024-01-05", true},
		{"2024/01/05", "2024-01-05", true},
		{"05/01/2024", "2024-01-05", true}, // day first
		{"25/12/2024", "2024-12-25", true},
		{"05.01.2024", "2024-01-05", true},
		{"", "", false},
		{"yesterday", "", false},
		{"2024-13-01", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseDate(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.want)
		}
		if ok && (got.Hour() != 0 || got.Location() != time.UTC) {
			t.Errorf("ParseDate(%q) should drop time of day, got %v", tc.input, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"10", 10},
		{"-4.5", -4.5},
		{" 3 ", 3},
		{"1e2", 100},
		{"", 0},
		{"abc", 0},
		{"10,5", 0},
		{"NaN", 0},
		{"inf", 0},
		{"+Inf", 0},
		{"-Infinity", 0},
		{"1e400", 0},
	}

	for _, tc := range tests {
		if got := ParseNumber(tc.input); got != tc.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestRow_Record(t *testing.T) {
	row := Row{
		Date:          "2024-01-05",
		MinPointsGain: "1",
		MaxPointsGain: "x",
		MinPointsStop: "3",
		MaxPointsStop: "4",
		MinResult:     "-2",
		MaxResult:     "10",
	}

	rec, ok := row.Record()
	if !ok {
		t.Fatal("expected row to convert")
	}
	if rec.MaxPointsGain != 0 {
		t.Errorf("bad cell should coerce to zero, got %v", rec.MaxPointsGain)
	}
	if rec.MinPointsGain != 1 || rec.MinResult != -2 || rec.MaxResult != 10 {
		t.Errorf("unexpected record %+v", rec)
	}

	row.Date = "n/a"
	if _, ok := row.Record(); ok {
		t.Error("expected unparseable date to be rejected")
	}
}
