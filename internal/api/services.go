package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	TransactionServiceName = "ledger.v1.TransactionService"
	FamilyServiceName      = "ledger.v1.FamilyService"
	AuthServiceName        = "ledger.v1.AuthService"
	ReferenceServiceName   = "ledger.v1.ReferenceService"
)

const (
	TransactionServiceCreateProcedure  = "/" + TransactionServiceName + "/Create"
	TransactionServiceUpdateProcedure  = "/" + TransactionServiceName + "/Update"
	TransactionServiceDeleteProcedure  = "/" + TransactionServiceName + "/Delete"
	TransactionServiceListProcedure    = "/" + TransactionServiceName + "/List"
	TransactionServiceSummaryProcedure = "/" + TransactionServiceName + "/Summary"

	FamilyServiceCreateProcedure = "/" + FamilyServiceName + "/Create"
	FamilyServiceUpdateProcedure = "/" + FamilyServiceName + "/Update"
	FamilyServiceListProcedure   = "/" + FamilyServiceName + "/List"

	AuthServiceJoinProcedure  = "/" + AuthServiceName + "/Join"
	AuthServiceLoginProcedure = "/" + AuthServiceName + "/Login"
	AuthServiceMeProcedure    = "/" + AuthServiceName + "/Me"

	ReferenceServiceListCurrenciesProcedure = "/" + ReferenceServiceName + "/ListCurrencies"
	ReferenceServiceListCategoriesProcedure = "/" + ReferenceServiceName + "/ListCategories"
	ReferenceServiceCreateCategoryProcedure = "/" + ReferenceServiceName + "/CreateCategory"
	ReferenceServiceRenameCategoryProcedure = "/" + ReferenceServiceName + "/RenameCategory"
	ReferenceServiceDeleteCategoryProcedure = "/" + ReferenceServiceName + "/DeleteCategory"
)

// PublicProcedures may be called without a session token.
var PublicProcedures = []string{
	FamilyServiceListProcedure,
	AuthServiceJoinProcedure,
	AuthServiceLoginProcedure,
	ReferenceServiceListCurrenciesProcedure,
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// TransactionService

type TransactionServiceHandler interface {
	Create(context.Context, *connect.Request[CreateTransactionRequest]) (*connect.Response[TransactionsResponse], error)
	Update(context.Context, *connect.Request[UpdateTransactionRequest]) (*connect.Response[TransactionsResponse], error)
	Delete(context.Context, *connect.Request[DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error)
	List(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[TransactionsResponse], error)
	Summary(context.Context, *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error)
}

func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(TransactionServiceCreateProcedure, connect.NewUnaryHandler(TransactionServiceCreateProcedure, svc.Create, opts...))
	mux.Handle(TransactionServiceUpdateProcedure, connect.NewUnaryHandler(TransactionServiceUpdateProcedure, svc.Update, opts...))
	mux.Handle(TransactionServiceDeleteProcedure, connect.NewUnaryHandler(TransactionServiceDeleteProcedure, svc.Delete, opts...))
	mux.Handle(TransactionServiceListProcedure, connect.NewUnaryHandler(TransactionServiceListProcedure, svc.List, opts...))
	mux.Handle(TransactionServiceSummaryProcedure, connect.NewUnaryHandler(TransactionServiceSummaryProcedure, svc.Summary, opts...))
	return "/" + TransactionServiceName + "/", mux
}

type TransactionServiceClient struct {
	create  *connect.Client[CreateTransactionRequest, TransactionsResponse]
	update  *connect.Client[UpdateTransactionRequest, TransactionsResponse]
	delete  *connect.Client[DeleteTransactionRequest, emptypb.Empty]
	list    *connect.Client[ListTransactionsRequest, TransactionsResponse]
	summary *connect.Client[SummaryRequest, SummaryResponse]
}

func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TransactionServiceClient {
	opts = clientOptions(opts)
	return &TransactionServiceClient{
		create:  connect.NewClient[CreateTransactionRequest, TransactionsResponse](httpClient, baseURL+TransactionServiceCreateProcedure, opts...),
		update:  connect.NewClient[UpdateTransactionRequest, TransactionsResponse](httpClient, baseURL+TransactionServiceUpdateProcedure, opts...),
		delete:  connect.NewClient[DeleteTransactionRequest, emptypb.Empty](httpClient, baseURL+TransactionServiceDeleteProcedure, opts...),
		list:    connect.NewClient[ListTransactionsRequest, TransactionsResponse](httpClient, baseURL+TransactionServiceListProcedure, opts...),
		summary: connect.NewClient[SummaryRequest, SummaryResponse](httpClient, baseURL+TransactionServiceSummaryProcedure, opts...),
	}
}

func (c *TransactionServiceClient) Create(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[TransactionsResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) Update(ctx context.Context, req *connect.Request[UpdateTransactionRequest]) (*connect.Response[TransactionsResponse], error) {
	return c.update.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) Delete(ctx context.Context, req *connect.Request[DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) List(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[TransactionsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) Summary(ctx context.Context, req *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error) {
	return c.summary.CallUnary(ctx, req)
}

// FamilyService

type FamilyServiceHandler interface {
	Create(context.Context, *connect.Request[CreateFamilyRequest]) (*connect.Response[FamilyResponse], error)
	Update(context.Context, *connect.Request[UpdateFamilyRequest]) (*connect.Response[FamilyResponse], error)
	List(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListFamiliesResponse], error)
}

func NewFamilyServiceHandler(svc FamilyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(FamilyServiceCreateProcedure, connect.NewUnaryHandler(FamilyServiceCreateProcedure, svc.Create, opts...))
	mux.Handle(FamilyServiceUpdateProcedure, connect.NewUnaryHandler(FamilyServiceUpdateProcedure, svc.Update, opts...))
	mux.Handle(FamilyServiceListProcedure, connect.NewUnaryHandler(FamilyServiceListProcedure, svc.List, opts...))
	return "/" + FamilyServiceName + "/", mux
}

type FamilyServiceClient struct {
	create *connect.Client[CreateFamilyRequest, FamilyResponse]
	update *connect.Client[UpdateFamilyRequest, FamilyResponse]
	list   *connect.Client[emptypb.Empty, ListFamiliesResponse]
}

func NewFamilyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *FamilyServiceClient {
	opts = clientOptions(opts)
	return &FamilyServiceClient{
		create: connect.NewClient[CreateFamilyRequest, FamilyResponse](httpClient, baseURL+FamilyServiceCreateProcedure, opts...),
		update: connect.NewClient[UpdateFamilyRequest, FamilyResponse](httpClient, baseURL+FamilyServiceUpdateProcedure, opts...),
		list:   connect.NewClient[emptypb.Empty, ListFamiliesResponse](httpClient, baseURL+FamilyServiceListProcedure, opts...),
	}
}

func (c *FamilyServiceClient) Create(ctx context.Context, req *connect.Request[CreateFamilyRequest]) (*connect.Response[FamilyResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *FamilyServiceClient) Update(ctx context.Context, req *connect.Request[UpdateFamilyRequest]) (*connect.Response[FamilyResponse], error) {
	return c.update.CallUnary(ctx, req)
}

func (c *FamilyServiceClient) List(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListFamiliesResponse], error) {
	return c.list.CallUnary(ctx, req)
}

// AuthService

type AuthServiceHandler interface {
	Join(context.Context, *connect.Request[JoinFamilyRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	Me(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[UserResponse], error)
}

func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceJoinProcedure, connect.NewUnaryHandler(AuthServiceJoinProcedure, svc.Join, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceMeProcedure, connect.NewUnaryHandler(AuthServiceMeProcedure, svc.Me, opts...))
	return "/" + AuthServiceName + "/", mux
}

type AuthServiceClient struct {
	join  *connect.Client[JoinFamilyRequest, AuthResponse]
	login *connect.Client[LoginRequest, AuthResponse]
	me    *connect.Client[emptypb.Empty, UserResponse]
}

func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	opts = clientOptions(opts)
	return &AuthServiceClient{
		join:  connect.NewClient[JoinFamilyRequest, AuthResponse](httpClient, baseURL+AuthServiceJoinProcedure, opts...),
		login: connect.NewClient[LoginRequest, AuthResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		me:    connect.NewClient[emptypb.Empty, UserResponse](httpClient, baseURL+AuthServiceMeProcedure, opts...),
	}
}

func (c *AuthServiceClient) Join(ctx context.Context, req *connect.Request[JoinFamilyRequest]) (*connect.Response[AuthResponse], error) {
	return c.join.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Me(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[UserResponse], error) {
	return c.me.CallUnary(ctx, req)
}

// ReferenceService

type ReferenceServiceHandler interface {
	ListCurrencies(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListCurrenciesResponse], error)
	ListCategories(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[CreateCategoryRequest]) (*connect.Response[CategoryResponse], error)
	RenameCategory(context.Context, *connect.Request[RenameCategoryRequest]) (*connect.Response[CategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[DeleteCategoryRequest]) (*connect.Response[emptypb.Empty], error)
}

func NewReferenceServiceHandler(svc ReferenceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ReferenceServiceListCurrenciesProcedure, connect.NewUnaryHandler(ReferenceServiceListCurrenciesProcedure, svc.ListCurrencies, opts...))
	mux.Handle(ReferenceServiceListCategoriesProcedure, connect.NewUnaryHandler(ReferenceServiceListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(ReferenceServiceCreateCategoryProcedure, connect.NewUnaryHandler(ReferenceServiceCreateCategoryProcedure, svc.CreateCategory, opts...))
	mux.Handle(ReferenceServiceRenameCategoryProcedure, connect.NewUnaryHandler(ReferenceServiceRenameCategoryProcedure, svc.RenameCategory, opts...))
	mux.Handle(ReferenceServiceDeleteCategoryProcedure, connect.NewUnaryHandler(ReferenceServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...))
	return "/" + ReferenceServiceName + "/", mux
}

type ReferenceServiceClient struct {
	listCurrencies *connect.Client[emptypb.Empty, ListCurrenciesResponse]
	listCategories *connect.Client[emptypb.Empty, ListCategoriesResponse]
	createCategory *connect.Client[CreateCategoryRequest, CategoryResponse]
	renameCategory *connect.Client[RenameCategoryRequest, CategoryResponse]
	deleteCategory *connect.Client[DeleteCategoryRequest, emptypb.Empty]
}

func NewReferenceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ReferenceServiceClient {
	opts = clientOptions(opts)
	return &ReferenceServiceClient{
		listCurrencies: connect.NewClient[emptypb.Empty, ListCurrenciesResponse](httpClient, baseURL+ReferenceServiceListCurrenciesProcedure, opts...),
		listCategories: connect.NewClient[emptypb.Empty, ListCategoriesResponse](httpClient, baseURL+ReferenceServiceListCategoriesProcedure, opts...),
		createCategory: connect.NewClient[CreateCategoryRequest, CategoryResponse](httpClient, baseURL+ReferenceServiceCreateCategoryProcedure, opts...),
		renameCategory: connect.NewClient[RenameCategoryRequest, CategoryResponse](httpClient, baseURL+ReferenceServiceRenameCategoryProcedure, opts...),
		deleteCategory: connect.NewClient[DeleteCategoryRequest, emptypb.Empty](httpClient, baseURL+ReferenceServiceDeleteCategoryProcedure, opts...),
	}
}

func (c *ReferenceServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

func (c *ReferenceServiceClient) ListCategories(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *ReferenceServiceClient) CreateCategory(ctx context.Context, req *connect.Request[CreateCategoryRequest]) (*connect.Response[CategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *ReferenceServiceClient) RenameCategory(ctx context.Context, req *connect.Request[RenameCategoryRequest]) (*connect.Response[CategoryResponse], error) {
	return c.renameCategory.CallUnary(ctx, req)
}

func (c *ReferenceServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[DeleteCategoryRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}
