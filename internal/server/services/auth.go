// Package services contains server-side business logic. AuthService handles
// registration, login, access token refresh and refresh token revocation.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/cryptox"
	"github.com/dmitrijs2005/chirpy/internal/dbx"
	"github.com/dmitrijs2005/chirpy/internal/logging"
	"github.com/dmitrijs2005/chirpy/internal/server/auth"
	"github.com/dmitrijs2005/chirpy/internal/server/config"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/chirpy/internal/server/repositories/repomanager"
)

// maxRefreshTokenAttempts bounds how many freshly generated tokens Login
// tries before giving up on a collision streak.
const maxRefreshTokenAttempts = 3

var (
	errBadCredentials      = fmt.Errorf("%w: incorrect email or password", common.ErrorUnauthorized)
	errInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	errMissingCredentials  = fmt.Errorf("%w: email and password are required", common.ErrorBadRequest)
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// AuthService issues and checks credentials. It holds only immutable
// settings and is safe for concurrent use.
type AuthService struct {
	db             dbx.DBTX
	repomanager    repomanager.RepositoryManager
	signer         *auth.TokenSigner
	secret         []byte
	accessTTL      time.Duration
	refreshTTL     time.Duration
	storageTimeout time.Duration
	log            logging.Logger

	now                  func() time.Time
	generateRefreshToken func() (string, error)
	checkPassword        func(password, hash string) bool

	// verified against for unknown emails
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
// db may be nil for managers that do not use it. A nil now uses time.Now.
func NewAuthService(db dbx.DBTX, m repomanager.RepositoryManager, signer *auth.TokenSigner, cfg *config.Config, log logging.Logger, now func() time.Time) (*AuthService, error) {
	if now == nil {
		now = time.Now
	}

	dummyHash, err := cryptox.HashPassword("timing-equaliser")
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &AuthService{
		db:                   db,
		repomanager:          m,
		signer:               signer,
		secret:               []byte(cfg.SecretKey),
		accessTTL:            cfg.AccessTokenValidityDuration,
		refreshTTL:           cfg.RefreshTokenValidityDuration,
		storageTimeout:       cfg.StorageTimeout,
		log:                  log.With("module", "auth_service"),
		now:                  now,
		generateRefreshToken: refreshtokens.Generate,
		checkPassword:        cryptox.CheckPasswordHash,
		dummyHash:            dummyHash,
	}, nil
}

// Register creates a user with an argon2id hash of password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errMissingCredentials
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, s.internal(ctx, "hash password", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorAlreadyExists)
		}
		return nil, s.internal(ctx, "create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies email and password and returns an access token plus a
// new refresh token. A positive expiresIn shorter than the configured
// access token lifetime shortens the access token; anything else uses the default.
func (s *AuthService) Login(ctx context.Context, email, password string, expiresIn time.Duration) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errMissingCredentials
	}

	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn comparable time so unknown emails are not distinguishable
			s.checkPassword(password, s.dummyHash)
			return nil, errBadCredentials
		}
		return nil, s.internal(ctx, "find user", err)
	}

	if !s.checkPassword(password, user.HashedPassword) {
		return nil, errBadCredentials
	}

	ttl := s.accessTTL
	if expiresIn > 0 && expiresIn < ttl {
		ttl = expiresIn
	}

	access, err := s.signer.Issue(user.ID, ttl, s.secret)
	if err != nil {
		return nil, s.internal(ctx, "issue access token", err)
	}

	refresh, err := s.createRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges an active refresh token for a new access token with the
// default lifetime. The refresh token itself is not rotated or extended.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	user, err := s.repomanager.RefreshTokens(s.db).FindActive(sctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", errInvalidRefreshToken
		}
		return "", s.internal(ctx, "find refresh token", err)
	}

	access, err := s.signer.Issue(user.ID, s.accessTTL, s.secret)
	if err != nil {
		return "", s.internal(ctx, "issue access token", err)
	}
	return access, nil
}

// Revoke marks refreshToken revoked. Unknown tokens yield common.ErrorNotFound.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := s.repomanager.RefreshTokens(s.db).Revoke(sctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: refresh token", common.ErrorNotFound)
		}
		return s.internal(ctx, "revoke refresh token", err)
	}

	s.log.Info(ctx, "refresh token revoked")
	return nil
}

// Authenticate validates an access token and returns its subject.
// Failures wrap common.ErrorUnauthorized.
func (s *AuthService) Authenticate(accessToken string) (string, error) {
	return s.signer.Validate(accessToken, s.secret)
}

// Me returns the user behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByID(sctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", common.ErrorUnauthorized)
		}
		return nil, s.internal(ctx, "get user", err)
	}
	return user, nil
}

// InspectRefreshToken reports the stored record and its current state.
func (s *AuthService) InspectRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, models.RefreshTokenState, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	rt, err := s.repomanager.RefreshTokens(s.db).Lookup(sctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, 0, fmt.Errorf("%w: refresh token", common.ErrorNotFound)
		}
		return nil, 0, s.internal(ctx, "lookup refresh token", err)
	}
	return rt, rt.StateAt(s.now()), nil
}

// --- helpers below ---

func (s *AuthService) findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
}

// createRefreshToken retries with a new value when storage reports a collision.
func (s *AuthService) createRefreshToken(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	for attempt := 1; attempt <= maxRefreshTokenAttempts; attempt++ {
		token, err := s.generateRefreshToken()
		if err != nil {
			return "", s.internal(ctx, "generate refresh token", err)
		}

		sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
		created, err := repo.Create(sctx, token, userID, s.refreshTTL)
		cancel()
		if err != nil {
			return "", s.internal(ctx, "store refresh token", err)
		}
		if created {
			return token, nil
		}

		s.log.Warn(ctx, "refresh token collision", "attempt", attempt)
	}

	return "", s.internal(ctx, "store refresh token", fmt.Errorf("%d consecutive collisions", maxRefreshTokenAttempts))
}

// internal logs the cause and returns an ErrorInternal that callers must not echo.
func (s *AuthService) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, op+" failed", "error", err)
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
