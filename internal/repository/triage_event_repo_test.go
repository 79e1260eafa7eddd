package repository

import (
	"testing"

	"triage-assist/internal/domain"
)

func TestNormalizeDepartmentCounts(t *testing.T) {
	in := []domain.DepartmentCount{
		{Department: "Cardiology", Count: 5},
		{Department: "", Count: 3},
		{Department: "cardiology ", Count: 2},
		{Department: "Podiatry", Count: 1},
		{Department: "Eye Care", Count: 1},
	}

	got := normalizeDepartmentCounts(in)
	want := []domain.DepartmentCount{
		{Department: "Cardiology", Count: 7},
		{Department: "", Count: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestNormalizeDepartmentCounts_Empty(t *testing.T) {
	got := normalizeDepartmentCounts(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
