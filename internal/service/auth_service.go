package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/auth"
	"github.com/Republica-Facil/republica-facil-backend/internal/middleware"
	apiv1 "github.com/Republica-Facil/republica-facil-backend/pkg/api/v1"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         auth.UserStorage
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users auth.UserStorage, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Handler mounts the service. Register and Login get public options;
// GetCurrentUser gets protected ones, which must authenticate the caller.
func (s *AuthService) Handler(public, protected []connect.HandlerOption) (string, http.Handler) {
	public = append([]connect.HandlerOption{apiv1.WithJSON()}, public...)
	protected = append([]connect.HandlerOption{apiv1.WithJSON()}, protected...)

	mux := http.NewServeMux()
	mux.Handle(apiv1.AuthServiceRegisterProcedure, connect.NewUnaryHandler(
		apiv1.AuthServiceRegisterProcedure, s.Register, public...))
	mux.Handle(apiv1.AuthServiceLoginProcedure, connect.NewUnaryHandler(
		apiv1.AuthServiceLoginProcedure, s.Login, public...))
	mux.Handle(apiv1.AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(
		apiv1.AuthServiceGetCurrentUserProcedure, s.GetCurrentUser, protected...))
	return "/" + apiv1.AuthServiceName + "/", mux
}

// Register creates a new user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[apiv1.RegisterRequest]) (*connect.Response[apiv1.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "Register", err)
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:      req.Msg.Email,
		FullName:   req.Msg.FullName,
		Phone:      req.Msg.Phone,
		Credential: req.Msg.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, toConnectError(s.logger, "Register", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, "Register", err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID)
	return connect.NewResponse(&apiv1.RegisterResponse{User: userToAPI(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[apiv1.LoginRequest]) (*connect.Response[apiv1.LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "Login", err)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, "Login", err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return connect.NewResponse(&apiv1.LoginResponse{User: userToAPI(user), Token: token}), nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[apiv1.GetCurrentUserRequest]) (*connect.Response[apiv1.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		// A valid token for a user that no longer exists.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	return connect.NewResponse(&apiv1.GetCurrentUserResponse{User: userToAPI(user)}), nil
}
