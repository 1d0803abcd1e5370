package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type SubcategoryRepository struct {
	s *Store
}

func (r *SubcategoryRepository) List(_ context.Context, userID string, bucketID *string) ([]models.Subcategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]models.Subcategory, 0)
	for _, sc := range r.s.subcategories {
		if sc.UserID != userID || (bucketID != nil && sc.BucketID != *bucketID) {
			continue
		}
		result = append(result, sc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *SubcategoryRepository) Create(_ context.Context, sc *models.Subcategory) (*models.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *sc
	created.ID = newID()
	created.CreatedAt = r.s.stamp()
	r.s.subcategories[created.ID] = created
	return &created, nil
}

func (r *SubcategoryRepository) Get(_ context.Context, userID, id string) (*models.Subcategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sc, ok := r.s.subcategories[id]
	if err := ownedBy(ok, sc.UserID, userID); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *SubcategoryRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sc, ok := r.s.subcategories[id]
	if err := ownedBy(ok, sc.UserID, userID); err != nil {
		return err
	}
	delete(r.s.subcategories, id)
	// Matches ON DELETE SET NULL on transactions.subcategory_id.
	for tid, t := range r.s.transactions {
		if t.SubcategoryID != nil && *t.SubcategoryID == id {
			t.SubcategoryID = nil
			r.s.transactions[tid] = t
		}
	}
	return nil
}
