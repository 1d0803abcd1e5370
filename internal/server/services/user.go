package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Signup / Login: create or verify an account and mint a token pair
// - Refresh: rotate a refresh token
// - Logout: revoke a refresh token
// - Authenticate: resolve a bearer access token to its user
type UserService struct {
	store  Store
	hasher *auth.Hasher
	codec  *auth.Codec
	log    logging.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(store Store, hasher *auth.Hasher, codec *auth.Codec, log logging.Logger) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		codec:  codec,
		log:    log,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account and returns its first token pair. The user
// row and the refresh record are written in one transaction.
func (s *UserService) Signup(ctx context.Context, email, password string, fullName *string) (*TokenPair, error) {
	email = normalizeEmail(email)

	_, err := s.store.Repos.Users(s.store.DB).GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "signup: user lookup failed", "error", err)
		return nil, storeErr(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var pair *TokenPair
	err = s.store.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.store.Repos.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			FullName:     fullName,
		})
		if err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		// Lost a race against a concurrent signup with the same email.
		if errors.Is(err, common.ErrorAlreadyExist) {
			return nil, common.ErrDuplicateEmail
		}
		s.log.Error(ctx, "signup failed", "error", err)
		return nil, storeErr(err)
	}

	s.log.Info(ctx, "user signed up")
	return pair, nil
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.store.Repos.Users(s.store.DB).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn the same bcrypt time as a real check.
			s.hasher.Verify(password, s.dummy())
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "login: user lookup failed", "error", err)
		return nil, storeErr(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.store.DB, user.ID)
	if err != nil {
		s.log.Error(ctx, "login: issuing tokens failed", "user_id", user.ID, "error", err)
		return nil, storeErr(err)
	}
	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair and revokes the old
// record. Presenting an already revoked token revokes every session of its
// owner, since it means the token was copied.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.decode(ctx, refreshToken, auth.TokenRefresh)
	if err != nil {
		return nil, err
	}

	repo := s.store.Repos.RefreshTokens(s.store.DB)
	rec, err := repo.FindByHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, storeErr(err)
	}
	if rec.UserID != claims.Subject {
		return nil, common.ErrInvalidToken
	}
	if rec.Revoked {
		n, err := repo.RevokeAllForUser(ctx, rec.UserID)
		if err != nil {
			return nil, storeErr(err)
		}
		s.log.Warn(ctx, "revoked refresh token reused, all sessions revoked", "user_id", rec.UserID, "revoked", n)
		return nil, common.ErrInvalidToken
	}
	if !rec.Usable(s.now()) {
		return nil, common.ErrInvalidToken
	}

	var pair *TokenPair
	err = s.store.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		ok, err := s.store.Repos.RefreshTokens(tx).Revoke(ctx, rec.ID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrInvalidToken
		}
		pair, err = s.issuePair(ctx, tx, rec.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, err
		}
		s.log.Error(ctx, "refresh failed", "user_id", rec.UserID, "error", err)
		return nil, storeErr(err)
	}
	return pair, nil
}

// Logout revokes the record behind refreshToken. Unknown or already revoked
// tokens are not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.decode(ctx, refreshToken, auth.TokenRefresh); err != nil {
		return err
	}

	repo := s.store.Repos.RefreshTokens(s.store.DB)
	rec, err := repo.FindByHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return storeErr(err)
	}
	if _, err := repo.Revoke(ctx, rec.ID); err != nil {
		return storeErr(err)
	}
	return nil
}

// Authenticate resolves a bearer access token to its user. It decodes once,
// looks the user up at most once and caches nothing.
func (s *UserService) Authenticate(ctx context.Context, bearer string) (*models.User, error) {
	if bearer == "" {
		return nil, common.ErrUnauthenticated
	}
	claims, err := s.decode(ctx, bearer, auth.TokenAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Repos.Users(s.store.DB).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.log.Error(ctx, "authenticate: user lookup failed", "error", err)
		return nil, storeErr(err)
	}
	return user, nil
}

// --- helpers below ---

// decode collapses every codec failure, and a type mismatch, into ErrInvalidToken.
func (s *UserService) decode(ctx context.Context, token string, want auth.TokenType) (auth.Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Debug(ctx, "token rejected", "reason", err)
		return auth.Claims{}, common.ErrInvalidToken
	}
	if claims.Type != want {
		return auth.Claims{}, common.ErrInvalidToken
	}
	return claims, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("budgetkeeper-timing-equalizer")
	})
	return s.dummyHash
}

func (s *UserService) issuePair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, _, err := s.codec.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, exp, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	rec := &models.RefreshToken{
		UserID:    userID,
		TokenHash: auth.HashToken(refresh),
		ExpiresAt: exp,
	}
	if err := s.store.Repos.RefreshTokens(db).Create(ctx, rec); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
