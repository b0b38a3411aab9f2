package analytics

import (
	"testing"
	"time"
)

func TestValidateRange(t *testing.T) {
	from, to, err := ValidateRange("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if from.After(to) {
		t.Error("from after to")
	}
	if from.Day() != 1 || from.Month() != time.January {
		t.Errorf("from = %v", from)
	}
	// The end bound must include records dated anywhere on the end day.
	endDay := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)
	if to.Before(endDay) {
		t.Errorf("to = %v excludes records on the end date", to)
	}
}

func TestValidateRangeSingleDay(t *testing.T) {
	from, to, err := ValidateRange("2025-06-15", "2025-06-15")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !to.After(from) {
		t.Error("single-day range is empty")
	}
}

func TestValidateRangeRejectsMissingBounds(t *testing.T) {
	if _, _, err := ValidateRange("", "2025-01-31"); err == nil {
		t.Error("missing startDate accepted")
	}
	if _, _, err := ValidateRange("2025-01-01", ""); err == nil {
		t.Error("missing endDate accepted")
	}
}

func TestValidateRangeRejectsReversedBounds(t *testing.T) {
	if _, _, err := ValidateRange("2025-02-01", "2025-01-01"); err == nil {
		t.Error("reversed range accepted")
	}
}

func TestValidateRangeRejectsBadFormat(t *testing.T) {
	if _, _, err := ValidateRange("01/01/2025", "2025-01-31"); err == nil {
		t.Error("bad start format accepted")
	}
	if _, _, err := ValidateRange("2025-01-01", "Jan 31"); err == nil {
		t.Error("bad end format accepted")
	}
}

func TestStatusBreakdownAdd(t *testing.T) {
	var b StatusBreakdown
	b.add("PRESENT", 3)
	b.add("ABSENT", 2)
	b.add("LATE", 1)

	if b.Present != 3 || b.Absent != 2 || b.Late != 1 {
		t.Errorf("breakdown = %+v", b)
	}
	if b.Total != 6 {
		t.Errorf("total = %d, want 6", b.Total)
	}
}
