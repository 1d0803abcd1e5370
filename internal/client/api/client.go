// Package api is a small client for the budget backend REST API.
// It keeps the current token pair and refreshes it once when the
// access token is rejected.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrNotLoggedIn is returned by calls that need a session when there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Profile struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Currency string  `json:"currency"`
	Role     string  `json:"role"`
}

type Transaction struct {
	ID            string      `json:"id"`
	AccountID     string      `json:"account_id"`
	SubcategoryID *string     `json:"subcategory_id"`
	Description   *string     `json:"description"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Date          string      `json:"date"`
	Notes         *string     `json:"notes"`
	HasReceipt    bool        `json:"has_receipt"`
}

type NewTransaction struct {
	AccountID     string      `json:"account_id"`
	SubcategoryID *string     `json:"subcategory_id,omitempty"`
	Description   *string     `json:"description,omitempty"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency,omitempty"`
	Date          string      `json:"date"`
	Notes         *string     `json:"notes,omitempty"`
}

// TransactionQuery narrows ListTransactions. Zero fields are not sent.
type TransactionQuery struct {
	From          string
	To            string
	SubcategoryID string
	Limit         int
}

func (q TransactionQuery) encode() string {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.SubcategoryID != "" {
		v.Set("subcategory_id", q.SubcategoryID)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v.Encode()
}

type ReceiptUpload struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

type Client struct {
	baseURL string
	timeout time.Duration

	mu     sync.Mutex
	tokens TokenPair
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.AccessToken != ""
}

func (c *Client) session() TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *Client) setSession(p TokenPair) {
	c.mu.Lock()
	c.tokens = p
	c.mu.Unlock()
}

// --- auth ---

func (c *Client) Signup(ctx context.Context, email, password string, fullName *string) error {
	body := map[string]any{"email": email, "password": password}
	if fullName != nil {
		body["full_name"] = *fullName
	}
	var p TokenPair
	if err := c.do(ctx, fiber.MethodPost, "/auth/signup", "", body, &p); err != nil {
		return err
	}
	c.setSession(p)
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var p TokenPair
	err := c.do(ctx, fiber.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &p)
	if err != nil {
		return err
	}
	c.setSession(p)
	return nil
}

// Refresh rotates the stored token pair.
func (c *Client) Refresh(ctx context.Context) error {
	s := c.session()
	if s.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	var p TokenPair
	if err := c.do(ctx, fiber.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": s.RefreshToken}, &p); err != nil {
		return err
	}
	c.setSession(p)
	return nil
}

// Logout revokes the refresh token on the server and forgets the session
// locally, even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	s := c.session()
	c.setSession(TokenPair{})
	if s.RefreshToken == "" {
		return nil
	}
	return c.do(ctx, fiber.MethodPost, "/auth/logout", "", map[string]string{"refresh_token": s.RefreshToken}, nil)
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.authed(ctx, fiber.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// --- transactions ---

func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) ([]Transaction, error) {
	path := "/transactions"
	if qs := q.encode(); qs != "" {
		path += "?" + qs
	}
	var out []Transaction
	if err := c.authed(ctx, fiber.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t NewTransaction) (*Transaction, error) {
	var out Transaction
	if err := c.authed(ctx, fiber.MethodPost, "/transactions", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.authed(ctx, fiber.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) AttachReceipt(ctx context.Context, id string) (*ReceiptUpload, error) {
	var out ReceiptUpload
	if err := c.authed(ctx, fiber.MethodPost, "/transactions/"+url.PathEscape(id)+"/receipt", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReceiptURL(ctx context.Context, id string) (string, error) {
	var out struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.authed(ctx, fiber.MethodGet, "/transactions/"+url.PathEscape(id)+"/receipt", nil, &out); err != nil {
		return "", err
	}
	return out.DownloadURL, nil
}

// --- transport ---

// authed sends a bearer request. A 401 triggers one refresh and one retry.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	s := c.session()
	if s.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, s.AccessToken, body, out)
	if !IsStatus(err, fiber.StatusUnauthorized) {
		return err
	}
	if rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	return c.do(ctx, method, path, c.session().AccessToken, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if code < 200 || code > 299 {
		var d struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(resp, &d) != nil || d.Detail == "" {
			d.Detail = string(resp)
		}
		return &APIError{Status: code, Detail: d.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
