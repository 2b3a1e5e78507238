package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

// CreateFamilyInput names a new family. An empty SharedSecret leaves the
// family open to anyone.
type CreateFamilyInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	SharedSecret string `json:"shared_secret" validate:"secret_bytes"`
}

// UpdateFamilyInput renames a family or rotates its shared secret. An empty
// SharedSecret opens the family.
type UpdateFamilyInput struct {
	ID           string  `json:"id" validate:"required"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	SharedSecret *string `json:"shared_secret" validate:"omitempty,secret_bytes"`
}

// JoinFamilyInput registers a new account inside an existing family.
type JoinFamilyInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Secret       string `json:"secret" validate:"required"`
	FamilyID     string `json:"family_id" validate:"required"`
	FamilySecret string `json:"family_secret" validate:"secret_bytes"`
}

// BootstrapInput seeds the first family and its privileged administrator.
type BootstrapInput struct {
	FamilyName   string `json:"family_name" validate:"required,max=100"`
	FamilySecret string `json:"family_secret" validate:"secret_bytes"`
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Secret       string `json:"secret" validate:"required"`
}

// CreateFamily creates a family. Only privileged identities may do so.
func (l *Ledger) CreateFamily(ctx context.Context, id auth.Identity, in CreateFamilyInput) (*models.Family, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if !id.CanAdministerFamilies() {
		return nil, forbiddenError("only privileged users can create families")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validateStruct(in); err != nil {
		return nil, err
	}

	family := &models.Family{Name: in.Name}
	if in.SharedSecret != "" {
		hash, err := auth.HashSecret(in.SharedSecret)
		if err != nil {
			return nil, l.fail(ctx, "hash family secret", err)
		}
		family.SecretHash = hash
	}

	if err := l.store.CreateFamily(ctx, family); err != nil {
		return nil, l.fail(ctx, "create family", err)
	}

	l.publish(ctx, events.Event{Type: events.FamilyCreated, FamilyID: family.ID, UserID: id.UserID})
	l.logger.InfoContext(ctx, "Family created", "family_id", family.ID, "by", id.UserID)

	return family, nil
}

// UpdateFamily renames a family or rotates its shared secret. Only
// privileged identities may do so.
func (l *Ledger) UpdateFamily(ctx context.Context, id auth.Identity, in UpdateFamilyInput) (*models.Family, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if !id.CanAdministerFamilies() {
		return nil, forbiddenError("only privileged users can update families")
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := l.validateStruct(in); err != nil {
		return nil, err
	}

	var secretHash *string
	if in.SharedSecret != nil {
		hash := ""
		if *in.SharedSecret != "" {
			var err error
			if hash, err = auth.HashSecret(*in.SharedSecret); err != nil {
				return nil, l.fail(ctx, "hash family secret", err)
			}
		}
		secretHash = &hash
	}

	var family *models.Family
	err := l.withRetry(ctx, "update family", func() error {
		return l.store.WithinTx(ctx, func(tx storage.Store) error {
			f, err := tx.GetFamily(ctx, in.ID)
			if errors.Is(err, storage.ErrNotFound) {
				return notFoundError("family")
			}
			if err != nil {
				return err
			}
			if in.Name != nil {
				f.Name = *in.Name
			}
			if secretHash != nil {
				f.SecretHash = *secretHash
			}
			if err := tx.UpdateFamily(ctx, f); err != nil {
				return err
			}
			family = f
			return nil
		})
	})
	if err != nil {
		return nil, l.fail(ctx, "update family", err)
	}

	l.publish(ctx, events.Event{Type: events.FamilyUpdated, FamilyID: family.ID, UserID: id.UserID})
	l.logger.InfoContext(ctx, "Family updated",
		"family_id", family.ID,
		"renamed", in.Name != nil,
		"secret_rotated", in.SharedSecret != nil,
	)

	return family, nil
}

// ListFamilies returns every family. It is public so the join screen can
// offer a choice.
func (l *Ledger) ListFamilies(ctx context.Context) ([]*models.Family, error) {
	families, err := l.store.ListFamilies(ctx)
	if err != nil {
		return nil, l.fail(ctx, "list families", err)
	}
	return families, nil
}

// JoinFamily creates an account inside a family after checking the family's
// shared secret. A wrong secret creates nothing.
func (l *Ledger) JoinFamily(ctx context.Context, in JoinFamilyInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := l.validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkSecret(in.Secret); err != nil {
		return nil, err
	}

	family, err := l.store.GetFamily(ctx, in.FamilyID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("family")
	}
	if err != nil {
		return nil, l.fail(ctx, "get family", err)
	}

	if !family.IsOpen() && !auth.CompareSecret(family.SecretHash, in.FamilySecret) {
		l.logger.WarnContext(ctx, "Family secret mismatch", "family_id", family.ID, "email", in.Email)
		return nil, authError("invalid family secret")
	}

	hash, err := auth.HashSecret(in.Secret)
	if err != nil {
		return nil, l.fail(ctx, "hash secret", err)
	}

	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		SecretHash: hash,
		FamilyID:   family.ID,
	}
	if err := l.createUser(ctx, l.store, user); err != nil {
		return nil, err
	}

	l.publish(ctx, events.Event{Type: events.UserJoined, FamilyID: family.ID, UserID: user.ID})
	l.logger.InfoContext(ctx, "User joined family", "user_id", user.ID, "family_id", family.ID)

	return user, nil
}

// Bootstrap creates the first family together with a privileged user. It
// refuses once any user exists.
func (l *Ledger) Bootstrap(ctx context.Context, in BootstrapInput) (*models.Family, *models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := l.validateStruct(in); err != nil {
		return nil, nil, err
	}
	if err := checkSecret(in.Secret); err != nil {
		return nil, nil, err
	}

	userHash, err := auth.HashSecret(in.Secret)
	if err != nil {
		return nil, nil, l.fail(ctx, "hash secret", err)
	}
	family := &models.Family{Name: strings.TrimSpace(in.FamilyName)}
	if in.FamilySecret != "" {
		if family.SecretHash, err = auth.HashSecret(in.FamilySecret); err != nil {
			return nil, nil, l.fail(ctx, "hash family secret", err)
		}
	}
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		SecretHash:   userHash,
		IsPrivileged: true,
	}

	err = l.store.WithinTx(ctx, func(tx storage.Store) error {
		count, err := tx.CountUsers(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return forbiddenError("ledger already bootstrapped")
		}
		if err := tx.CreateFamily(ctx, family); err != nil {
			return err
		}
		user.FamilyID = family.ID
		return l.createUser(ctx, tx, user)
	})
	if err != nil {
		return nil, nil, l.fail(ctx, "bootstrap", err)
	}

	l.publish(ctx, events.Event{Type: events.FamilyCreated, FamilyID: family.ID, UserID: user.ID})
	l.logger.InfoContext(ctx, "Ledger bootstrapped", "family_id", family.ID, "user_id", user.ID)

	return family, user, nil
}

// createUser inserts a user, reporting a taken email as a validation error.
func (l *Ledger) createUser(ctx context.Context, st storage.Store, user *models.User) error {
	if _, err := st.GetUserByEmail(ctx, user.Email); err == nil {
		return validationError("email", "already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return l.fail(ctx, "get user by email", err)
	}

	if err := st.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return validationError("email", "already registered")
		}
		return l.fail(ctx, "create user", err)
	}
	return nil
}

// checkSecret applies the personal secret rules.
func checkSecret(secret string) error {
	if err := auth.ValidateSecret(secret); err != nil {
		return validationError("secret", err.Error())
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CurrentUser returns the stored account behind the identity.
func (l *Ledger) CurrentUser(ctx context.Context, id auth.Identity) (*models.User, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	user, err := l.store.GetUserByID(ctx, id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("user")
	}
	if err != nil {
		return nil, l.fail(ctx, "get user", err)
	}
	return user, nil
}
