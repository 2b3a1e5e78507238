package calculator

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/felipemaillo/finance-app/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrenceCount(t *testing.T) {
	tests := []struct {
		name         string
		mode         models.RecurrenceMode
		installments int
		want         int
		wantErr      error
	}{
		{name: "none", mode: models.RecurrenceNone, want: 1},
		{name: "empty mode is none", mode: "", installments: 5, want: 1},
		{name: "fixed ignores installments", mode: models.RecurrenceFixed, installments: 3, want: 12},
		{name: "single installment", mode: models.RecurrenceInstallments, installments: 1, want: 1},
		{name: "max installments", mode: models.RecurrenceInstallments, installments: 72, want: 72},
		{name: "zero installments", mode: models.RecurrenceInstallments, installments: 0, wantErr: ErrInvalidInstallment},
		{name: "too many installments", mode: models.RecurrenceInstallments, installments: 73, wantErr: ErrInvalidInstallment},
		{name: "unknown mode", mode: "weekly", wantErr: ErrInvalidRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OccurrenceCount(tt.mode, tt.installments)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OccurrenceCount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OccurrenceCount() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OccurrenceCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"same day next month", date(2024, 3, 15), 1, date(2024, 4, 15)},
		{"zero months", date(2024, 3, 15), 0, date(2024, 3, 15)},
		{"jan 31 to leap feb", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"jan 31 to non-leap feb", date(2025, 1, 31), 1, date(2025, 2, 28)},
		{"jan 31 to mar keeps 31", date(2025, 1, 31), 2, date(2025, 3, 31)},
		{"oct 31 to nov 30", date(2025, 10, 31), 1, date(2025, 11, 30)},
		{"year rollover", date(2025, 11, 30), 2, date(2026, 1, 30)},
		{"many years", date(2024, 2, 29), 12, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonths(%s, %d) = %s, want %s",
					tt.start.Format(models.DateLayout), tt.months,
					got.Format(models.DateLayout), tt.want.Format(models.DateLayout))
			}
		})
	}
}

func TestPlanOccurrences_Installments(t *testing.T) {
	for _, n := range []int{1, 2, 3, 12, 72} {
		t.Run(fmt.Sprintf("installments=%d", n), func(t *testing.T) {
			start := date(2025, 1, 10)
			occ, err := PlanOccurrences("Laptop", start, true, models.RecurrenceInstallments, n)
			if err != nil {
				t.Fatalf("PlanOccurrences failed: %v", err)
			}
			if len(occ) != n {
				t.Fatalf("expected %d occurrences, got %d", n, len(occ))
			}

			for i, o := range occ {
				if o.Position != i+1 {
					t.Errorf("occurrence %d: position = %d", i, o.Position)
				}
				if want := AddMonths(start, i); !o.Date.Equal(want) {
					t.Errorf("occurrence %d: date = %s, want %s", i, o.Date, want)
				}
				wantDesc := "Laptop"
				if n > 1 {
					wantDesc = fmt.Sprintf("Laptop (%d/%d)", i+1, n)
				}
				if o.Description != wantDesc {
					t.Errorf("occurrence %d: description = %q, want %q", i, o.Description, wantDesc)
				}
				if o.IsSettled != (i == 0) {
					t.Errorf("occurrence %d: settled = %v", i, o.IsSettled)
				}
			}
		})
	}
}

func TestPlanOccurrences_FixedKeepsDescription(t *testing.T) {
	occ, err := PlanOccurrences("Rent", date(2025, 5, 5), false, models.RecurrenceFixed, 0)
	if err != nil {
		t.Fatalf("PlanOccurrences failed: %v", err)
	}
	if len(occ) != FixedOccurrences {
		t.Fatalf("expected %d occurrences, got %d", FixedOccurrences, len(occ))
	}
	for _, o := range occ {
		if o.Description != "Rent" {
			t.Errorf("position %d: description = %q, want %q", o.Position, o.Description, "Rent")
		}
		if o.IsSettled {
			t.Errorf("position %d: expected unsettled", o.Position)
		}
	}
	if last := occ[len(occ)-1].Date; !last.Equal(date(2026, 4, 5)) {
		t.Errorf("last occurrence = %s, want 2026-04-05", last.Format(models.DateLayout))
	}
}

func TestPlanOccurrences_MonthEndClamping(t *testing.T) {
	occ, err := PlanOccurrences("Gym", date(2025, 1, 31), false, models.RecurrenceInstallments, 4)
	if err != nil {
		t.Fatalf("PlanOccurrences failed: %v", err)
	}

	want := []time.Time{date(2025, 1, 31), date(2025, 2, 28), date(2025, 3, 31), date(2025, 4, 30)}
	for i, o := range occ {
		if !o.Date.Equal(want[i]) {
			t.Errorf("occurrence %d: date = %s, want %s", i+1,
				o.Date.Format(models.DateLayout), want[i].Format(models.DateLayout))
		}
	}
}

func TestPlanOccurrences_TruncatesTime(t *testing.T) {
	start := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	occ, err := PlanOccurrences("Coffee", start, false, models.RecurrenceNone, 0)
	if err != nil {
		t.Fatalf("PlanOccurrences failed: %v", err)
	}
	if !occ[0].Date.Equal(date(2025, 6, 1)) {
		t.Errorf("date = %s, want midnight 2025-06-01", occ[0].Date)
	}
}

func TestInstallmentMarker(t *testing.T) {
	tests := []struct {
		in        string
		stripped  string
		pos, size int
		ok        bool
	}{
		{"TV (3/10)", "TV", 3, 10, true},
		{"TV(3/10)", "TV", 3, 10, true},
		{"TV (3/10) extra", "TV (3/10) extra", 0, 0, false},
		{"Groceries", "Groceries", 0, 0, false},
		{"Split (a/b)", "Split (a/b)", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripInstallmentMarker(tt.in); got != tt.stripped {
				t.Errorf("StripInstallmentMarker(%q) = %q, want %q", tt.in, got, tt.stripped)
			}
			pos, size, ok := ParseInstallmentMarker(tt.in)
			if ok != tt.ok || pos != tt.pos || size != tt.size {
				t.Errorf("ParseInstallmentMarker(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.in, pos, size, ok, tt.pos, tt.size, tt.ok)
			}
		})
	}

	if got := WithInstallmentMarker("TV (1/10)", 4, 10); got != "TV (4/10)" {
		t.Errorf("WithInstallmentMarker = %q, want %q", got, "TV (4/10)")
	}
}
