package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/felipemaillo/finance-app/internal/api"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
)

// FamilyService implements api.FamilyServiceHandler.
type FamilyService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewFamilyService creates a new FamilyService backed by the ledger.
func NewFamilyService(l *ledger.Ledger, logger *slog.Logger) *FamilyService {
	return &FamilyService{ledger: l, logger: logger}
}

// Create creates a new family. Privileged users only.
func (s *FamilyService) Create(ctx context.Context, req *connect.Request[api.CreateFamilyRequest]) (*connect.Response[api.FamilyResponse], error) {
	s.logger.InfoContext(ctx, "CreateFamily request received", "name", req.Msg.Name)

	family, err := s.ledger.CreateFamily(ctx, middleware.IdentityFrom(ctx), ledger.CreateFamilyInput{
		Name:         req.Msg.Name,
		SharedSecret: req.Msg.SharedSecret,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.FamilyResponse{Family: api.FromFamily(family)}), nil
}

// Update renames a family or rotates its shared secret. Privileged users only.
func (s *FamilyService) Update(ctx context.Context, req *connect.Request[api.UpdateFamilyRequest]) (*connect.Response[api.FamilyResponse], error) {
	s.logger.InfoContext(ctx, "UpdateFamily request received", "family_id", req.Msg.ID)

	family, err := s.ledger.UpdateFamily(ctx, middleware.IdentityFrom(ctx), ledger.UpdateFamilyInput{
		ID:           req.Msg.ID,
		Name:         req.Msg.Name,
		SharedSecret: req.Msg.SharedSecret,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.FamilyResponse{Family: api.FromFamily(family)}), nil
}

// List returns every family. It is public so new users can pick one to join.
func (s *FamilyService) List(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListFamiliesResponse], error) {
	families, err := s.ledger.ListFamilies(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Family, len(families))
	for i, f := range families {
		out[i] = api.FromFamily(f)
	}

	return connect.NewResponse(&api.ListFamiliesResponse{Families: out}), nil
}
