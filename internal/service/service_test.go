package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/felipemaillo/finance-app/internal/api"
	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
	"github.com/felipemaillo/finance-app/internal/storage/sqlite"
	"github.com/felipemaillo/finance-app/pkg/logging"
)

const familySecret = "family-secret"

type testServer struct {
	transactions *api.TransactionServiceClient
	families     *api.FamilyServiceClient
	auth         *api.AuthServiceClient
	reference    *api.ReferenceServiceClient
	familyID     string
	adminToken   string
}

// setupTestServer starts all services on a fresh database with one
// bootstrapped family and its privileged administrator.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ledger-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := sqlite.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := logging.Discard()
	l := ledger.New(store, ledger.WithLogger(logger))
	jwtManager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)

	family, admin, err := l.Bootstrap(context.Background(), ledger.BootstrapInput{
		FamilyName:   "Silva",
		FamilySecret: familySecret,
		Name:         "Ana",
		Email:        "ana@example.com",
		Secret:       "ana-secret-1",
	})
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	adminToken, err := jwtManager.Generate(admin)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	mux := http.NewServeMux()
	Register(mux, Deps{
		Ledger:        l,
		Authenticator: auth.NewPasswordAuthenticator(store),
		JWT:           jwtManager,
		Metrics:       middleware.NewMetrics(),
		Logger:        logger,
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		transactions: api.NewTransactionServiceClient(http.DefaultClient, server.URL),
		families:     api.NewFamilyServiceClient(http.DefaultClient, server.URL),
		auth:         api.NewAuthServiceClient(http.DefaultClient, server.URL),
		reference:    api.NewReferenceServiceClient(http.DefaultClient, server.URL),
		familyID:     family.ID,
		adminToken:   adminToken,
	}
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

// join registers a member of the bootstrapped family and returns its token.
func (s *testServer) join(t *testing.T, email string) string {
	t.Helper()

	resp, err := s.auth.Join(context.Background(), connect.NewRequest(&api.JoinFamilyRequest{
		Name:         "Member",
		Email:        email,
		Secret:       "member-secret",
		FamilyID:     s.familyID,
		FamilySecret: familySecret,
	}))
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	return resp.Msg.Token
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}

func TestAuthFlow(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	families, err := s.families.List(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("List families failed: %v", err)
	}
	if len(families.Msg.Families) != 1 || families.Msg.Families[0].IsOpen {
		t.Fatalf("expected one closed family, got %+v", families.Msg.Families)
	}

	_, err = s.auth.Join(ctx, connect.NewRequest(&api.JoinFamilyRequest{
		Name: "Eve", Email: "eve@example.com", Secret: "eve-secret", FamilyID: s.familyID, FamilySecret: "guess",
	}))
	expectCode(t, err, connect.CodeUnauthenticated)

	token := s.join(t, "bruno@example.com")
	if token == "" {
		t.Fatal("expected a token from Join")
	}

	login, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "Bruno@Example.com", Secret: "member-secret"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.FamilyID != s.familyID {
		t.Errorf("family_id: expected %s, got %s", s.familyID, login.Msg.User.FamilyID)
	}

	_, err = s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "bruno@example.com", Secret: "wrong-secret"}))
	expectCode(t, err, connect.CodeUnauthenticated)

	me, err := s.auth.Me(ctx, withToken(&emptypb.Empty{}, login.Msg.Token))
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Msg.User.Email != "bruno@example.com" {
		t.Errorf("email: expected bruno@example.com, got %s", me.Msg.User.Email)
	}

	_, err = s.auth.Me(ctx, connect.NewRequest(&emptypb.Empty{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestTransactionLifecycle(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.join(t, "bruno@example.com")

	created, err := s.transactions.Create(ctx, withToken(&api.CreateTransactionRequest{
		Description:  "Laptop",
		Amount:       "300.00",
		Kind:         "EXPENSE",
		Date:         "2024-01-31",
		CurrencyID:   "brl",
		Recurrence:   "installments",
		Installments: 3,
	}, token))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows := created.Msg.Transactions
	if len(rows) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(rows))
	}
	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	for i, row := range rows {
		if row.Date != wantDates[i] {
			t.Errorf("installment %d: expected date %s, got %s", i+1, wantDates[i], row.Date)
		}
		if row.Currency == nil || row.Currency.Code != "BRL" {
			t.Errorf("installment %d: expected embedded BRL currency", i+1)
		}
	}
	if rows[1].Description != "Laptop (2/3)" {
		t.Errorf("description: expected 'Laptop (2/3)', got %q", rows[1].Description)
	}

	amount := "120"
	updated, err := s.transactions.Update(ctx, withToken(&api.UpdateTransactionRequest{
		ID:               rows[1].ID,
		Amount:           &amount,
		PropagateForward: true,
	}, token))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Msg.Transactions) != 2 {
		t.Fatalf("expected 2 updated rows, got %d", len(updated.Msg.Transactions))
	}

	summary, err := s.transactions.Summary(ctx, withToken(&api.SummaryRequest{Month: 1, Year: 2024}, token))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if len(summary.Msg.Currencies) != 1 || summary.Msg.Currencies[0].PendingExpense != "300.00" {
		t.Errorf("january: expected pending 300.00, got %+v", summary.Msg.Currencies)
	}

	march, err := s.transactions.List(ctx, withToken(&api.ListTransactionsRequest{Month: 3, Year: 2024}, token))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(march.Msg.Transactions) != 1 || march.Msg.Transactions[0].Amount != "120.00" {
		t.Errorf("march: expected the propagated amount 120.00, got %+v", march.Msg.Transactions)
	}

	if _, err := s.transactions.Delete(ctx, withToken(&api.DeleteTransactionRequest{ID: rows[0].ID}, token)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err = s.transactions.Delete(ctx, withToken(&api.DeleteTransactionRequest{ID: rows[0].ID}, token))
	expectCode(t, err, connect.CodeNotFound)
}

func TestTransactionErrors(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.join(t, "bruno@example.com")

	valid := func() *api.CreateTransactionRequest {
		return &api.CreateTransactionRequest{
			Description: "Lunch", Amount: "25.90", Kind: "EXPENSE", Date: "2024-05-02", CurrencyID: "usd",
		}
	}

	_, err := s.transactions.Create(ctx, withToken(valid(), ""))
	expectCode(t, err, connect.CodeUnauthenticated)

	bad := valid()
	bad.Amount = "abc"
	_, err = s.transactions.Create(ctx, withToken(bad, token))
	expectCode(t, err, connect.CodeInvalidArgument)

	bad = valid()
	bad.Date = "02/05/2024"
	_, err = s.transactions.Create(ctx, withToken(bad, token))
	expectCode(t, err, connect.CodeInvalidArgument)

	bad = valid()
	bad.Amount = "0"
	_, err = s.transactions.Create(ctx, withToken(bad, token))
	expectCode(t, err, connect.CodeInvalidArgument)

	bad = valid()
	bad.Amount = "0.004"
	_, err = s.transactions.Create(ctx, withToken(bad, token))
	expectCode(t, err, connect.CodeInvalidArgument)

	bad = valid()
	bad.CurrencyID = "jpy"
	_, err = s.transactions.Create(ctx, withToken(bad, token))
	expectCode(t, err, connect.CodeNotFound)

	_, err = s.transactions.Summary(ctx, withToken(&api.SummaryRequest{FamilyID: "other", Month: 5, Year: 2024}, token))
	expectCode(t, err, connect.CodePermissionDenied)
}

func TestFamilyAdministration(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	member := s.join(t, "bruno@example.com")

	_, err := s.families.Create(ctx, withToken(&api.CreateFamilyRequest{Name: "Souza"}, member))
	expectCode(t, err, connect.CodePermissionDenied)

	created, err := s.families.Create(ctx, withToken(&api.CreateFamilyRequest{Name: "Souza"}, s.adminToken))
	if err != nil {
		t.Fatalf("Create family failed: %v", err)
	}
	if !created.Msg.Family.IsOpen {
		t.Error("expected a family without a secret to be open")
	}

	secret := "new-secret"
	updated, err := s.families.Update(ctx, withToken(&api.UpdateFamilyRequest{ID: created.Msg.Family.ID, SharedSecret: &secret}, s.adminToken))
	if err != nil {
		t.Fatalf("Update family failed: %v", err)
	}
	if updated.Msg.Family.IsOpen {
		t.Error("expected the family to be closed after setting a secret")
	}

	name := "Nope"
	_, err = s.families.Update(ctx, withToken(&api.UpdateFamilyRequest{ID: "missing", Name: &name}, s.adminToken))
	expectCode(t, err, connect.CodeNotFound)
}

func TestReferenceData(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	token := s.join(t, "bruno@example.com")

	currencies, err := s.reference.ListCurrencies(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListCurrencies failed: %v", err)
	}
	if len(currencies.Msg.Currencies) != 3 {
		t.Errorf("expected 3 seeded currencies, got %d", len(currencies.Msg.Currencies))
	}

	created, err := s.reference.CreateCategory(ctx, withToken(&api.CreateCategoryRequest{Name: "Travel"}, token))
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	_, err = s.reference.CreateCategory(ctx, withToken(&api.CreateCategoryRequest{Name: "Travel"}, token))
	expectCode(t, err, connect.CodeInvalidArgument)

	renamed, err := s.reference.RenameCategory(ctx, withToken(&api.RenameCategoryRequest{ID: created.Msg.Category.ID, Name: "Trips"}, token))
	if err != nil {
		t.Fatalf("RenameCategory failed: %v", err)
	}
	if renamed.Msg.Category.Name != "Trips" {
		t.Errorf("name: expected 'Trips', got %q", renamed.Msg.Category.Name)
	}

	categories, err := s.reference.ListCategories(ctx, withToken(&emptypb.Empty{}, token))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories.Msg.Categories) != 1 {
		t.Errorf("expected 1 category, got %d", len(categories.Msg.Categories))
	}

	if _, err := s.reference.DeleteCategory(ctx, withToken(&api.DeleteCategoryRequest{ID: created.Msg.Category.ID}, token)); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	_, err = s.reference.DeleteCategory(ctx, withToken(&api.DeleteCategoryRequest{ID: created.Msg.Category.ID}, token))
	expectCode(t, err, connect.CodeNotFound)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{ledger.ErrValidation, connect.CodeInvalidArgument},
		{ledger.ErrNotFound, connect.CodeNotFound},
		{ledger.ErrAuth, connect.CodeUnauthenticated},
		{ledger.ErrForbidden, connect.CodePermissionDenied},
		{ledger.ErrConflict, connect.CodeAborted},
		{ledger.ErrStorage, connect.CodeInternal},
		{errors.New("boom"), connect.CodeInternal},
		{context.Canceled, connect.CodeCanceled},
	}
	for _, tt := range tests {
		if got := toConnectError(tt.err).Code(); got != tt.want {
			t.Errorf("toConnectError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if msg := toConnectError(&ledger.Error{Code: ledger.CodeStorage, Message: "disk on fire"}).Message(); msg != "internal error" {
		t.Errorf("storage errors must not leak details, got %q", msg)
	}
}
