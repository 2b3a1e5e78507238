package models

// User represents a registered member of a family.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	// Used for login.
	Email string

	// SecretHash is the bcrypt hash of the user's personal secret.
	SecretHash string

	// FamilyID is the family this user belongs to.
	FamilyID string

	// IsPrivileged allows creating and administering families.
	IsPrivileged bool

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}
