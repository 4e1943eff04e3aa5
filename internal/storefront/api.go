package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/catalog"
)

type apiCart struct {
	owner      string
	quantities map[string]int
	order      []string
}

// apiStore holds issued tokens and API carts.
type apiStore struct {
	mu     sync.Mutex
	tokens map[string]string
	carts  map[string]*apiCart
}

func newAPIStore() *apiStore {
	return &apiStore{
		tokens: make(map[string]string),
		carts:  make(map[string]*apiCart),
	}
}

// maxCartQuantity caps how many of one product an API cart may hold.
const maxCartQuantity = 99

var (
	errCartNotFound    = errors.New("cart not found")
	errInvalidQuantity = errors.New("quantity must be positive")
	errQuantityLimit   = fmt.Errorf("quantity per product is limited to %d", maxCartQuantity)
)

func (s *apiStore) issueToken(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
	return token
}

func (s *apiStore) tokenUser(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	return username, ok
}

func (s *apiStore) createCart(owner string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[id] = &apiCart{owner: owner, quantities: make(map[string]int)}
	return id
}

func (s *apiStore) addItem(owner, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return errInvalidQuantity
	}
	if quantity > maxCartQuantity {
		return errQuantityLimit
	}
	if _, err := catalog.BySlug(productID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok || cart.owner != owner {
		return errCartNotFound
	}
	if cart.quantities[productID]+quantity > maxCartQuantity {
		return errQuantityLimit
	}
	if _, seen := cart.quantities[productID]; !seen {
		cart.order = append(cart.order, productID)
	}
	cart.quantities[productID] += quantity
	return nil
}

type cartItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *apiStore) items(owner, cartID string) ([]cartItemResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok || cart.owner != owner {
		return nil, errCartNotFound
	}
	items := make([]cartItemResponse, 0, len(cart.order))
	for _, id := range cart.order {
		items = append(items, cartItemResponse{ProductID: id, Quantity: cart.quantities[id]})
	}
	return items, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (sf *Storefront) apiAuth(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := authenticate(req.Username, req.Password); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusUnauthorized)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"token": sf.api.issueToken(req.Username)})
}

// requireToken resolves the bearer token to a username.
func (sf *Storefront) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		username, ok := sf.api.tokenUser(strings.TrimSpace(token))
		if !found || !ok {
			sendErrorResponse(w, "Missing or invalid bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (sf *Storefront) apiProducts(w http.ResponseWriter, r *http.Request) {
	products := catalog.All()
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{ID: p.Slug, Name: p.Name, Description: p.Description, Price: float64(p.Price) / 100}
	}
	sendJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (sf *Storefront) apiCreateCart(w http.ResponseWriter, r *http.Request) {
	id := sf.api.createCart(usernameFrom(r.Context()))
	sendJSON(w, http.StatusCreated, map[string]string{"cartId": id})
}

func (sf *Storefront) apiGetCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	items, err := sf.api.items(usernameFrom(r.Context()), cartID)
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"cartId": cartID, "items": items})
}

func (sf *Storefront) apiAddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	err := sf.api.addItem(usernameFrom(r.Context()), chi.URLParam(r, "cartID"), req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, errCartNotFound):
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
	case err != nil:
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type orderResponse struct {
	Reference string   `json:"reference"`
	Status    string   `json:"status"`
	Items     []string `json:"items"`
	Total     float64  `json:"total"`
}

func (sf *Storefront) apiOrders(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	orders, err := sf.orders.OrdersFor(username)
	if err != nil {
		sf.log.Error("failed to list orders", zap.String("username", username), zap.Error(err))
		sendErrorResponse(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		names := make([]string, len(o.Items))
		for i, item := range o.Items {
			names[i] = item.Name
		}
		out = append(out, orderResponse{
			Reference: o.Reference,
			Status:    string(o.Status),
			Items:     names,
			Total:     float64(o.Total) / 100,
		})
	}
	sendJSON(w, http.StatusOK, map[string]any{"orders": out})
}
