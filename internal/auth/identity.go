package auth

import "github.com/felipemaillo/finance-app/internal/models"

// Identity is the authenticated actor behind a ledger call. It is passed
// explicitly into every core operation.
type Identity struct {
	UserID     string
	FamilyID   string
	Privileged bool
}

// IdentityOf builds the identity for a stored user.
func IdentityOf(user *models.User) Identity {
	return Identity{
		UserID:     user.ID,
		FamilyID:   user.FamilyID,
		Privileged: user.IsPrivileged,
	}
}

// CanAdministerFamilies reports whether the identity may create families or
// change their name and shared secret.
func (i Identity) CanAdministerFamilies() bool {
	return i.Privileged
}

// InFamily reports whether the identity belongs to the given family.
func (i Identity) InFamily(familyID string) bool {
	return i.FamilyID != "" && i.FamilyID == familyID
}
