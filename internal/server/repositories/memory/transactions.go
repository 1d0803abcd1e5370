package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type TransactionRepository struct {
	s *Store
}

func (r *TransactionRepository) List(_ context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]models.Transaction, 0)
	for _, t := range r.s.transactions {
		if t.UserID != userID {
			continue
		}
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !t.Date.Before(*f.To) {
			continue
		}
		if f.SubcategoryID != nil && (t.SubcategoryID == nil || *t.SubcategoryID != *f.SubcategoryID) {
			continue
		}
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (r *TransactionRepository) Create(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.stamp()
	created := *t
	created.ID = newID()
	created.CreatedAt, created.UpdatedAt = now, now
	r.s.transactions[created.ID] = created
	return &created, nil
}

func (r *TransactionRepository) Get(_ context.Context, userID, id string) (*models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.transactions[id]
	if err := ownedBy(ok, t.UserID, userID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.transactions[id]
	if err := ownedBy(ok, t.UserID, userID); err != nil {
		return err
	}
	delete(r.s.transactions, id)
	return nil
}

func (r *TransactionRepository) SetReceiptKey(_ context.Context, userID, id, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.transactions[id]
	if err := ownedBy(ok, t.UserID, userID); err != nil {
		return err
	}
	t.ReceiptKey = &key
	t.UpdatedAt = r.s.stamp()
	r.s.transactions[id] = t
	return nil
}
