package calculator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/felipemaillo/finance-app/internal/models"
)

const (
	// FixedOccurrences is the number of months a fixed recurrence covers.
	FixedOccurrences = 12

	// MaxInstallments is the largest accepted installment count.
	MaxInstallments = 72
)

var (
	ErrInvalidRecurrence  = errors.New("unknown recurrence mode")
	ErrInvalidInstallment = fmt.Errorf("installment count must be between 1 and %d", MaxInstallments)
)

var installmentMarker = regexp.MustCompile(`\s*\((\d+)/(\d+)\)$`)

// Occurrence is one planned row of an expanded entry.
type Occurrence struct {
	Position    int
	Date        time.Time
	Description string
	IsSettled   bool
}

// OccurrenceCount returns how many rows an entry expands into.
func OccurrenceCount(mode models.RecurrenceMode, installments int) (int, error) {
	switch mode {
	case "", models.RecurrenceNone:
		return 1, nil
	case models.RecurrenceFixed:
		return FixedOccurrences, nil
	case models.RecurrenceInstallments:
		if installments < 1 || installments > MaxInstallments {
			return 0, ErrInvalidInstallment
		}
		return installments, nil
	default:
		return 0, ErrInvalidRecurrence
	}
}

// AddMonths advances start by the given number of calendar months, keeping
// the day of month and clamping it to the last day of the target month.
// Jan 31 + 1 month is Feb 28 (or 29), Jan 31 + 2 months is Mar 31.
func AddMonths(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PlanOccurrences expands one entry into its dated occurrences.
// Dates are always computed from start, never chained from the previous
// occurrence, so clamping in a short month does not drift later months.
// Only the first occurrence keeps the settled flag.
func PlanOccurrences(description string, start time.Time, settled bool, mode models.RecurrenceMode, installments int) ([]Occurrence, error) {
	count, err := OccurrenceCount(mode, installments)
	if err != nil {
		return nil, err
	}

	start = models.Date(start)
	labelled := mode == models.RecurrenceInstallments && count > 1

	occurrences := make([]Occurrence, count)
	for i := range occurrences {
		desc := description
		if labelled {
			desc = WithInstallmentMarker(description, i+1, count)
		}
		occurrences[i] = Occurrence{
			Position:    i + 1,
			Date:        AddMonths(start, i),
			Description: desc,
			IsSettled:   settled && i == 0,
		}
	}

	return occurrences, nil
}

// WithInstallmentMarker replaces any trailing "(i/N)" marker on description
// with the marker for the given position.
func WithInstallmentMarker(description string, position, size int) string {
	return fmt.Sprintf("%s (%d/%d)", StripInstallmentMarker(description), position, size)
}

// StripInstallmentMarker removes a trailing "(i/N)" marker.
func StripInstallmentMarker(description string) string {
	return strings.TrimRight(installmentMarker.ReplaceAllString(description, ""), " ")
}

// ParseInstallmentMarker extracts position and size from a trailing
// "(i/N)" marker.
func ParseInstallmentMarker(description string) (position, size int, ok bool) {
	match := installmentMarker.FindStringSubmatch(description)
	if match == nil {
		return 0, 0, false
	}
	position, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, false
	}
	size, err = strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, false
	}
	return position, size, true
}
