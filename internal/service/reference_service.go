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

// ReferenceService implements api.ReferenceServiceHandler.
type ReferenceService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewReferenceService(l *ledger.Ledger, logger *slog.Logger) *ReferenceService {
	return &ReferenceService{ledger: l, logger: logger}
}

func (s *ReferenceService) ListCurrencies(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListCurrenciesResponse], error) {
	currencies, err := s.ledger.ListCurrencies(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Currency, len(currencies))
	for i, c := range currencies {
		out[i] = api.FromCurrency(c)
	}
	return connect.NewResponse(&api.ListCurrenciesResponse{Currencies: out}), nil
}

func (s *ReferenceService) ListCategories(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.ListCategoriesResponse], error) {
	categories, err := s.ledger.ListCategories(ctx, middleware.IdentityFrom(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = api.FromCategory(c)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

func (s *ReferenceService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CategoryResponse], error) {
	category, err := s.ledger.CreateCategory(ctx, middleware.IdentityFrom(ctx), req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Category created", "category_id", category.ID)
	return connect.NewResponse(&api.CategoryResponse{Category: api.FromCategory(category)}), nil
}

func (s *ReferenceService) RenameCategory(ctx context.Context, req *connect.Request[api.RenameCategoryRequest]) (*connect.Response[api.CategoryResponse], error) {
	category, err := s.ledger.RenameCategory(ctx, middleware.IdentityFrom(ctx), req.Msg.ID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Category renamed", "category_id", category.ID)
	return connect.NewResponse(&api.CategoryResponse{Category: api.FromCategory(category)}), nil
}

func (s *ReferenceService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.ledger.DeleteCategory(ctx, middleware.IdentityFrom(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Category deleted", "category_id", req.Msg.ID)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
