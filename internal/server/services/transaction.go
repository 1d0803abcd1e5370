package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/storage"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ReceiptPresigner hands out short-lived object storage URLs.
type ReceiptPresigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// NewTransaction is the caller-supplied part of a transaction.
type NewTransaction struct {
	AccountID     string
	SubcategoryID *string
	Description   *string
	Amount        string
	Currency      string
	Date          time.Time
	Notes         *string
}

type TransactionService struct {
	store    Store
	receipts ReceiptPresigner
	log      logging.Logger
}

func NewTransactionService(store Store, receipts ReceiptPresigner, log logging.Logger) *TransactionService {
	return &TransactionService{store: store, receipts: receipts, log: log}
}

// List returns the user's transactions, newest first. A zero limit means DefaultListLimit.
func (s *TransactionService) List(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit < 0 || f.Limit > MaxListLimit {
		return nil, common.ErrValidation
	}
	if f.SubcategoryID != nil && !validID(*f.SubcategoryID) {
		return []models.Transaction{}, nil
	}

	list, err := s.store.Repos.Transactions(s.store.DB).List(ctx, userID, f)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

// Create stores a transaction. A subcategory must belong to the same user.
func (s *TransactionService) Create(ctx context.Context, userID string, in NewTransaction) (*models.Transaction, error) {
	if in.SubcategoryID != nil {
		if !validID(*in.SubcategoryID) {
			return nil, common.ErrInvalidSubcategory
		}
		_, err := s.store.Repos.Subcategories(s.store.DB).Get(ctx, userID, *in.SubcategoryID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrInvalidSubcategory
			}
			return nil, storeErr(err)
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = common.DefaultCurrency
	}

	t, err := s.store.Repos.Transactions(s.store.DB).Create(ctx, &models.Transaction{
		UserID:        userID,
		AccountID:     in.AccountID,
		SubcategoryID: in.SubcategoryID,
		Description:   in.Description,
		Amount:        in.Amount,
		Currency:      currency,
		Date:          in.Date,
		Notes:         in.Notes,
	})
	if err != nil {
		s.log.Error(ctx, "create transaction failed", "user_id", userID, "error", err)
		return nil, storeErr(err)
	}
	return t, nil
}

// Delete removes an owned transaction; a foreign id is reported as not found.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	err := s.store.Repos.Transactions(s.store.DB).Delete(ctx, userID, id)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return storeErr(err)
	}
	return err
}

// AttachReceipt reserves a fresh object key for the transaction's receipt
// and returns a presigned upload URL for it.
func (s *TransactionService) AttachReceipt(ctx context.Context, userID, id string) (*models.ReceiptUpload, error) {
	if _, err := s.get(ctx, userID, id); err != nil {
		return nil, err
	}

	key := storage.NewReceiptKey(userID, id)
	url, err := s.receipts.PresignPut(ctx, key)
	if err != nil {
		s.log.Error(ctx, "presign receipt upload failed", "error", err)
		return nil, err
	}

	if err := s.store.Repos.Transactions(s.store.DB).SetReceiptKey(ctx, userID, id, key); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return &models.ReceiptUpload{StorageKey: key, UploadURL: url}, nil
}

// ReceiptURL returns a presigned download URL for the transaction's receipt.
func (s *TransactionService) ReceiptURL(ctx context.Context, userID, id string) (string, error) {
	t, err := s.get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if t.ReceiptKey == nil {
		return "", common.ErrNoReceipt
	}
	url, err := s.receipts.PresignGet(ctx, *t.ReceiptKey)
	if err != nil {
		s.log.Error(ctx, "presign receipt download failed", "error", err)
		return "", err
	}
	return url, nil
}

func (s *TransactionService) get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	t, err := s.store.Repos.Transactions(s.store.DB).Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return t, nil
}
