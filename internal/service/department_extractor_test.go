package service

import (
	"testing"

	"triage-assist/internal/domain"
)

func TestExtractDepartment(t *testing.T) {
	cases := []struct {
		text   string
		want   domain.Department
		wantOK bool
	}{
		{text: "You should see Cardiology for chest pain.", want: domain.DepartmentCardiology, wantOK: true},
		{text: "department: general medicine 💊", want: domain.DepartmentGeneralMedicine, wantOK: true},
		{text: "Visit OPHTHALMOLOGY soon", want: domain.DepartmentOphthalmology, wantOK: true},
		{text: "Please rest and monitor symptoms.", wantOK: false},
		{text: "", wantOK: false},
		{text: "Consider Neurology, or Cardiology if the chest pain persists", want: domain.DepartmentCardiology, wantOK: true},
		{text: "Orthopedics first, then Dermatology", want: domain.DepartmentDermatology, wantOK: true},
	}

	for _, tc := range cases {
		got, ok := ExtractDepartment(tc.text)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ExtractDepartment(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestExtractDepartment_TieBreakPrefersTaxonomyOrder(t *testing.T) {
	text := "Neurology may help, but Cardiology should rule out heart issues."
	for i := 0; i < 3; i++ {
		got, ok := ExtractDepartment(text)
		if !ok || got != domain.DepartmentCardiology {
			t.Fatalf("expected Cardiology, got %q (ok=%v)", got, ok)
		}
	}
}
