package httpapi

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
)

const dateLayout = "2006-01-02"

// numeric(14,2)
var amountPattern = regexp.MustCompile(`^-?\d{1,12}(\.\d{1,2})?$`)

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(maxBytes(auth.MaxPasswordBytes))),
		validation.Field(&r.FullName, validation.Length(0, 200)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(maxBytes(auth.MaxPasswordBytes))),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenPairResponse(p *services.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
	}
}

type transactionRequest struct {
	AccountID     string      `json:"account_id"`
	SubcategoryID *string     `json:"subcategory_id"`
	Description   *string     `json:"description"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Date          string      `json:"date"`
	Notes         *string     `json:"notes"`
}

func (r transactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountID, validation.Required, is.UUID),
		validation.Field(&r.SubcategoryID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Amount, validation.Required, validation.Match(amountPattern)),
		validation.Field(&r.Currency, validation.Length(3, 3), is.UpperCase),
		validation.Field(&r.Date, validation.Required, validation.Date(dateLayout)),
	)
}

// toNew assumes Validate has passed.
func (r transactionRequest) toNew() services.NewTransaction {
	date, _ := time.Parse(dateLayout, r.Date)
	return services.NewTransaction{
		AccountID:     r.AccountID,
		SubcategoryID: r.SubcategoryID,
		Description:   r.Description,
		Amount:        r.Amount.String(),
		Currency:      r.Currency,
		Date:          date,
		Notes:         r.Notes,
	}
}

type transactionResponse struct {
	ID            string      `json:"id"`
	AccountID     string      `json:"account_id"`
	SubcategoryID *string     `json:"subcategory_id"`
	Description   *string     `json:"description"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Date          string      `json:"date"`
	Notes         *string     `json:"notes"`
	HasReceipt    bool        `json:"has_receipt"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func newTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		AccountID:     t.AccountID,
		SubcategoryID: t.SubcategoryID,
		Description:   t.Description,
		Amount:        json.Number(t.Amount),
		Currency:      t.Currency,
		Date:          t.Date.Format(dateLayout),
		Notes:         t.Notes,
		HasReceipt:    t.ReceiptKey != nil,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// transactionQuery mirrors the query string of GET /transactions.
type transactionQuery struct {
	From          string
	To            string
	SubcategoryID string
	Limit         string
}

func parseTransactionQuery(c *fiber.Ctx) transactionQuery {
	from := c.Query("from")
	if from == "" {
		from = c.Query("frm")
	}
	return transactionQuery{
		From:          from,
		To:            c.Query("to"),
		SubcategoryID: c.Query("subcategory_id"),
		Limit:         c.Query("limit"),
	}
}

func (q transactionQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.From, validation.Date(dateLayout)),
		validation.Field(&q.To, validation.Date(dateLayout)),
		validation.Field(&q.SubcategoryID, is.UUID),
		validation.Field(&q.Limit, validation.By(intBetween(1, services.MaxListLimit))),
	)
}

// filter assumes Validate has passed.
func (q transactionQuery) filter() models.TransactionFilter {
	var f models.TransactionFilter
	if q.From != "" {
		t, _ := time.Parse(dateLayout, q.From)
		f.From = &t
	}
	if q.To != "" {
		t, _ := time.Parse(dateLayout, q.To)
		f.To = &t
	}
	if q.SubcategoryID != "" {
		id := q.SubcategoryID
		f.SubcategoryID = &id
	}
	if q.Limit != "" {
		f.Limit, _ = strconv.Atoi(q.Limit)
	}
	return f
}

func intBetween(min, max int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("must be an integer")
		}
		if n < min || n > max {
			return errors.New("must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
		}
		return nil
	}
}

// maxBytes limits the encoded size of a string. validation.Length counts runes.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return errors.New("must be at most " + strconv.Itoa(n) + " bytes")
		}
		return nil
	}
}

type subcategoryRequest struct {
	BucketID string  `json:"bucket_id"`
	Name     string  `json:"name"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
}

func (r subcategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BucketID, validation.Required, is.UUID),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Color, validation.Length(0, 32)),
		validation.Field(&r.Icon, validation.Length(0, 64)),
	)
}

type receiptUploadResponse struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

type receiptDownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// bind parses a JSON body into dst and validates it. Both failures are 422.
func bind(c *fiber.Ctx, dst validation.Validatable) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := dst.Validate(); err != nil {
		return unprocessable(err)
	}
	return nil
}
