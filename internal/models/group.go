package models

// RecurrenceMode describes how a single submitted entry expands into
// stored occurrences.
type RecurrenceMode string

const (
	// RecurrenceNone stores exactly one occurrence.
	RecurrenceNone RecurrenceMode = "none"

	// RecurrenceFixed repeats the entry monthly for a fixed number of months.
	RecurrenceFixed RecurrenceMode = "fixed"

	// RecurrenceInstallments splits the entry into N monthly installments,
	// each labelled "(i/N)".
	RecurrenceInstallments RecurrenceMode = "installments"
)

// Nature filters transactions by whether they belong to a group.
type Nature string

const (
	NatureAll          Nature = "all"
	NatureInstallments Nature = "installments"
	NatureStandalone   Nature = "standalone"
)
