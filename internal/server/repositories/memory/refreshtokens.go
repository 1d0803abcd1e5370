package memory

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type RefreshTokenRepository struct {
	s *Store
}

func (r *RefreshTokenRepository) Create(_ context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[token.UserID]; !ok {
		return common.ErrorNotFound
	}
	for _, t := range r.s.refreshTokens {
		if t.TokenHash == token.TokenHash {
			return common.ErrorAlreadyExist
		}
	}

	token.ID = newID()
	token.CreatedAt = r.s.stamp()
	r.s.refreshTokens[token.ID] = *token
	return nil
}

func (r *RefreshTokenRepository) FindByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.refreshTokens {
		if t.TokenHash == hash {
			return &t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *RefreshTokenRepository) Revoke(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.refreshTokens[id]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	r.s.refreshTokens[id] = t
	return true, nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.refreshTokens {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			r.s.refreshTokens[id] = t
			n++
		}
	}
	return n, nil
}
