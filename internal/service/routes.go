package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/felipemaillo/finance-app/internal/api"
	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
)

// Deps are the collaborators the RPC services need.
type Deps struct {
	Ledger        *ledger.Ledger
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Metrics       *middleware.Metrics
	Logger        *slog.Logger
}

// Register mounts the four ledger services on mux. Every call passes through
// metrics, authentication and logging, in that order.
func Register(mux *http.ServeMux, deps Deps) {
	interceptors := []connect.Interceptor{}
	if deps.Metrics != nil {
		interceptors = append(interceptors, deps.Metrics.Interceptor())
	}
	interceptors = append(interceptors,
		middleware.RequireAuth(deps.JWT, api.PublicProcedures...),
		middleware.LoggingInterceptor(deps.Logger),
	)
	opts := connect.WithInterceptors(interceptors...)

	mux.Handle(api.NewTransactionServiceHandler(NewTransactionService(deps.Ledger, deps.Logger), opts))
	mux.Handle(api.NewFamilyServiceHandler(NewFamilyService(deps.Ledger, deps.Logger), opts))
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(deps.Ledger, deps.Authenticator, deps.JWT, deps.Logger), opts))
	mux.Handle(api.NewReferenceServiceHandler(NewReferenceService(deps.Ledger, deps.Logger), opts))
}
