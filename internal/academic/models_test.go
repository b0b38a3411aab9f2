package academic

import (
	"testing"
	"time"
)

func TestComputeSummary(t *testing.T) {
	summary := ComputeSummary(map[AttendanceStatus]int64{
		StatusPresent: 8,
		StatusAbsent:  1,
		StatusLate:    1,
	})

	if summary.Total != 10 {
		t.Errorf("total = %d, want 10", summary.Total)
	}
	if summary.Percentage != 80 {
		t.Errorf("percentage = %v, want 80", summary.Percentage)
	}
}

func TestComputeSummaryNoRecords(t *testing.T) {
	summary := ComputeSummary(nil)

	if summary.Total != 0 {
		t.Errorf("total = %d, want 0", summary.Total)
	}
	if summary.Percentage != 0 {
		t.Errorf("percentage = %v, want 0 for no records", summary.Percentage)
	}
}

func TestComputeSummaryAllAbsent(t *testing.T) {
	summary := ComputeSummary(map[AttendanceStatus]int64{StatusAbsent: 5})

	if summary.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", summary.Percentage)
	}
	if summary.Total != 5 {
		t.Errorf("total = %d, want 5", summary.Total)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []AttendanceStatus{StatusPresent, StatusAbsent, StatusLate} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false", status)
		}
	}
	if ValidStatus("EXCUSED") {
		t.Error("unknown status accepted")
	}
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2025-03-17")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("parsed = %v, want %v", day, want)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, value := range []string{"17-03-2025", "2025/03/17", "yesterday", ""} {
		if _, err := ParseDate(value); err == nil {
			t.Errorf("ParseDate(%q) accepted", value)
		}
	}
}
