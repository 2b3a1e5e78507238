package models

// Family is a household whose members share one ledger.
type Family struct {
	// ID is the unique identifier for the family (UUID format).
	ID string

	// Name is the display name shown on the join screen.
	Name string

	// SecretHash is the bcrypt hash of the shared secret required to join.
	// Empty means anyone may join.
	SecretHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// IsOpen reports whether joining the family requires no shared secret.
func (f *Family) IsOpen() bool {
	return f.SecretHash == ""
}
