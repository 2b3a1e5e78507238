// Command ledgeradmin performs operator tasks against the ledger database.
//
// Usage:
//
//	ledgeradmin bootstrap -family Silva -name Ana -email ana@example.com
//	ledgeradmin promote -email bruno@example.com [-revoke]
//
// Secrets are read from LEDGER_ADMIN_SECRET and LEDGER_FAMILY_SECRET so they
// never appear in shell history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/felipemaillo/finance-app/internal/config"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/storage"
	"github.com/felipemaillo/finance-app/internal/storage/sqlite"
	"github.com/felipemaillo/finance-app/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "bootstrap":
		err = bootstrap(ctx, store, logger, os.Args[2:])
	case "promote":
		err = promote(ctx, store, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		store.Close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ledgeradmin <bootstrap|promote> [flags]")
}

func bootstrap(ctx context.Context, store storage.Store, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	familyName := fs.String("family", "", "name of the first family")
	name := fs.String("name", "", "administrator display name")
	email := fs.String("email", "", "administrator email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l := ledger.New(store, ledger.WithLogger(logger))
	family, user, err := l.Bootstrap(ctx, ledger.BootstrapInput{
		FamilyName:   *familyName,
		FamilySecret: os.Getenv("LEDGER_FAMILY_SECRET"),
		Name:         *name,
		Email:        *email,
		Secret:       os.Getenv("LEDGER_ADMIN_SECRET"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("family %s (%s)\nadministrator %s <%s>\n", family.Name, family.ID, user.Name, user.Email)
	return nil
}

func promote(ctx context.Context, store storage.Store, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	email := fs.String("email", "", "email of the user to promote")
	revoke := fs.Bool("revoke", false, "remove the privilege instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	user, err := store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if err := store.SetUserPrivileged(ctx, user.ID, !*revoke); err != nil {
		return err
	}

	logger.Info("User privilege updated", "user_id", user.ID, "privileged", !*revoke)
	fmt.Printf("%s privileged=%t (takes effect on next login)\n", user.Email, !*revoke)
	return nil
}
