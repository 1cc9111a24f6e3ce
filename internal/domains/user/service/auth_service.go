package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/repository"
	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared/apperror"
	"blog-backend/internal/shared/authz"
	"blog-backend/pkg/metrics"
)

type Config struct {
	BcryptCost int
	// TokenBytes is the amount of randomness in a token key before hex encoding.
	TokenBytes int
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	sessions session.Store
	metrics  *metrics.Metrics
	cfg      Config

	// dummyHash keeps unknown-username logins as slow as wrong-password ones
	dummyHash []byte
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	sessions session.Store,
	m *metrics.Metrics,
	cfg Config,
) ServiceInterface {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.TokenBytes == 0 {
		cfg.TokenBytes = 20
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)

	return &authService{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		metrics:   m,
		cfg:       cfg,
		dummyHash: dummy,
	}
}

// ========================================
// REGISTER
// ========================================

func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*AuthResult, error) {
	// Step 1: Required fields, then format, then confirmation
	if req.MissingFields() {
		s.metrics.AuthEvent("register", false)
		return nil, model.NewMissingFieldsError()
	}
	if err := req.Validate(); err != nil {
		s.metrics.AuthEvent("register", false)
		return nil, apperror.FromValidation(err)
	}
	if req.Password != req.ConfirmPassword {
		s.metrics.AuthEvent("register", false)
		return nil, model.NewPasswordMismatchError()
	}

	// Step 2: Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	key, err := generateSecureToken(s.cfg.TokenBytes)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("generate token: %w", err))
	}

	// Step 3: Insert user + token atomically
	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	tokenKey, err := s.users.CreateWithToken(ctx, user, key)
	if err != nil {
		s.metrics.AuthEvent("register", false)
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, model.NewUsernameTakenError()
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	s.metrics.AuthEvent("register", true)
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")

	return &AuthResult{User: user, Token: tokenKey}, nil
}

// ========================================
// LOGIN
// ========================================

func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		s.metrics.AuthEvent("login", false)
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 1: Authenticate
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.metrics.AuthEvent("login", false)
		if errors.Is(err, model.ErrInvalidCredentials) {
			log.Warn().Str("username", req.Username).Msg("login failed")
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, apperror.Internal(err)
	}

	// Step 2: Session for cookie callers, before the token so a Redis failure
	// leaves Postgres untouched
	var sess *session.Session
	if req.Session {
		sess, err = s.sessions.Create(ctx, user.ID.String())
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("create session: %w", err))
		}
	}

	// Step 3: Existing token or a new one
	candidate, err := generateSecureToken(s.cfg.TokenBytes)
	if err != nil {
		s.abortSession(ctx, sess)
		return nil, apperror.Internal(fmt.Errorf("generate token: %w", err))
	}
	key, err := s.tokens.GetOrCreate(ctx, user.ID, candidate)
	if err != nil {
		s.abortSession(ctx, sess)
		return nil, apperror.Internal(fmt.Errorf("get or create token: %w", err))
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to update last login")
	}

	s.metrics.AuthEvent("login", true)
	log.Info().Str("user_id", user.ID.String()).Msg("user logged in")

	return &AuthResult{User: user, Token: key, Session: sess}, nil
}

// authenticate returns ErrInvalidCredentials for unknown users, wrong
// passwords and inactive accounts alike.
func (s *authService) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// ========================================
// LOGOUT
// ========================================

func (s *authService) Logout(ctx context.Context, principal *authz.Principal) error {
	if !principal.IsAuthenticated() {
		s.metrics.AuthEvent("logout", false)
		return model.NewNotLoggedInError()
	}

	// Sessions go first: if Redis is down the token stays live and the caller can retry
	sessionsDeleted, err := s.sessions.DeleteAllForUser(ctx, principal.ID.String())
	if err != nil {
		return apperror.Internal(fmt.Errorf("delete sessions: %w", err))
	}

	tokenDeleted, err := s.tokens.DeleteByUserID(ctx, principal.ID)
	if err != nil {
		return apperror.Internal(fmt.Errorf("delete token: %w", err))
	}

	if !tokenDeleted && sessionsDeleted == 0 {
		s.metrics.AuthEvent("logout", false)
		return model.NewNotLoggedInError()
	}

	s.metrics.AuthEvent("logout", true)
	log.Info().
		Str("user_id", principal.ID.String()).
		Bool("token_deleted", tokenDeleted).
		Int("sessions_deleted", sessionsDeleted).
		Msg("user logged out")
	return nil
}

// ========================================
// CREDENTIAL LOOKUP
// ========================================

func (s *authService) PrincipalForToken(ctx context.Context, key string) (*authz.Principal, error) {
	user, err := s.tokens.GetUserByKey(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return user.Principal(), nil
}

func (s *authService) PrincipalForSession(ctx context.Context, sessionID string) (*authz.Principal, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		s.discardSession(ctx, sess.ID, "malformed user id")
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.discardSession(ctx, sess.ID, "user missing")
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		s.discardSession(ctx, sess.ID, "user inactive")
		return nil, nil
	}

	return user.Principal(), nil
}

// abortSession drops the session of a login that did not complete.
func (s *authService) abortSession(ctx context.Context, sess *session.Session) {
	if sess != nil {
		s.discardSession(ctx, sess.ID, "login aborted")
	}
}

func (s *authService) discardSession(ctx context.Context, id, reason string) {
	if err := s.sessions.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("reason", reason).Msg("failed to discard session")
		return
	}
	log.Debug().Str("reason", reason).Msg("session discarded")
}

// generateSecureToken returns length random bytes, hex-encoded
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
