// Package apiclient talks to the storefront's auxiliary JSON API: token
// issue, product listing, and cart creation. Specs use it to set up state
// without driving the UI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Product is a catalog entry as returned by GET /api/products.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Status, strings.TrimSpace(e.Body))
}

// Client is an API client bound to one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// AuthToken exchanges credentials for a bearer token.
func (c *Client) AuthToken(ctx context.Context, username, password string) (string, error) {
	var out authResponse
	if err := c.do(ctx, "get auth token", http.MethodPost, "/api/auth", "", authRequest{username, password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

type productsResponse struct {
	Products []Product `json:"products"`
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context, token string) ([]Product, error) {
	var out productsResponse
	if err := c.do(ctx, "get products", http.MethodGet, "/api/products", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

type cartResponse struct {
	CartID string `json:"cartId"`
}

// CreateCart opens an empty cart and returns its id.
func (c *Client) CreateCart(ctx context.Context, token string) (string, error) {
	var out cartResponse
	if err := c.do(ctx, "create cart", http.MethodPost, "/api/cart", token, nil, &out); err != nil {
		return "", err
	}
	return out.CartID, nil
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddProduct puts quantity units of productID into the cart. A quantity
// below one adds a single unit.
func (c *Client) AddProduct(ctx context.Context, token, cartID, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	path := "/api/cart/" + url.PathEscape(cartID) + "/items"
	return c.do(ctx, "add product to cart", http.MethodPost, path, token, addItemRequest{productID, quantity}, nil)
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		reqBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("api request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}
	c.log.Debug("api request", zap.String("op", op), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}
