package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type SubcategoryService struct {
	store Store
}

func NewSubcategoryService(store Store) *SubcategoryService {
	return &SubcategoryService{store: store}
}

func (s *SubcategoryService) List(ctx context.Context, userID string, bucketID *string) ([]models.Subcategory, error) {
	if bucketID != nil && !validID(*bucketID) {
		return []models.Subcategory{}, nil
	}
	list, err := s.store.Repos.Subcategories(s.store.DB).List(ctx, userID, bucketID)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

func (s *SubcategoryService) Create(ctx context.Context, userID string, in models.Subcategory) (*models.Subcategory, error) {
	in.UserID = userID
	created, err := s.store.Repos.Subcategories(s.store.DB).Create(ctx, &in)
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

func (s *SubcategoryService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	err := s.store.Repos.Subcategories(s.store.DB).Delete(ctx, userID, id)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return storeErr(err)
	}
	return err
}
