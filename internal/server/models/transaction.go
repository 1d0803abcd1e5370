package models

import "time"

// Transaction is a single money movement owned by a user.
// Amount is kept as the decimal string the database returns so no precision is lost.
type Transaction struct {
	ID            string
	UserID        string
	AccountID     string
	SubcategoryID *string
	Description   *string
	Amount        string
	Currency      string
	Date          time.Time
	Notes         *string
	ReceiptKey    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionFilter narrows a transaction listing. From is inclusive, To is exclusive.
type TransactionFilter struct {
	From          *time.Time
	To            *time.Time
	SubcategoryID *string
	Limit         int
}

// ReceiptUpload tells the client where to PUT a receipt image.
type ReceiptUpload struct {
	StorageKey string
	UploadURL  string
}
