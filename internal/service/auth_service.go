package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/felipemaillo/finance-app/internal/api"
	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
)

// AuthService implements api.AuthServiceHandler.
type AuthService struct {
	ledger        *ledger.Ledger
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(l *ledger.Ledger, authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		ledger:        l,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Join creates an account inside a family and signs the new user in.
func (s *AuthService) Join(ctx context.Context, req *connect.Request[api.JoinFamilyRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.InfoContext(ctx, "Join request", "email", req.Msg.Email, "family_id", req.Msg.FamilyID)

	user, err := s.ledger.JoinFamily(ctx, ledger.JoinFamilyInput{
		Name:         req.Msg.Name,
		Email:        req.Msg.Email,
		Secret:       req.Msg.Secret,
		FamilyID:     req.Msg.FamilyID,
		FamilySecret: req.Msg.FamilySecret,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.InfoContext(ctx, "User registered successfully", "user_id", user.ID, "family_id", user.FamilyID)
	return connect.NewResponse(&api.AuthResponse{User: api.FromUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.InfoContext(ctx, "Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Secret == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Secret)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&api.AuthResponse{User: api.FromUser(user), Token: token}), nil
}

// Me returns the currently authenticated user's account.
func (s *AuthService) Me(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.UserResponse], error) {
	user, err := s.ledger.CurrentUser(ctx, middleware.IdentityFrom(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UserResponse{User: api.FromUser(user)}), nil
}
