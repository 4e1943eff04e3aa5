package storefront

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/themizzi/saucecheck/internal/catalog"
	"github.com/themizzi/saucecheck/internal/models"
)

// Cookie names. Cart and checkout state live in cookies so every browser
// context restored from the same storage snapshot starts with its own copy.
const (
	cookieUsername = "session-username"
	cookieSession  = "session-id"
	cookieCart     = "cart-contents"
	cookieCustomer = "checkout-info"
	cookieOrder    = "order-reference"
)

// SessionStore maps session ids to usernames. It is safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

// Create opens a session for username and returns its id.
func (s *SessionStore) Create(username string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = username
	return id
}

// Lookup returns the username of session id.
func (s *SessionStore) Lookup(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, ok := s.sessions[id]
	return username, ok
}

// Restore registers a session id presented by a browser that the store
// does not know, typically after a server restart.
func (s *SessionStore) Restore(id, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = username
}

// Delete ends session id.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// currentUser resolves the logged-in user from the cookie pair. A known
// username with an unknown session id is accepted and the id restored.
func (sf *Storefront) currentUser(r *http.Request) (string, bool) {
	nameCookie, err := r.Cookie(cookieUsername)
	if err != nil {
		return "", false
	}
	u, ok := users[nameCookie.Value]
	if !ok || u.locked {
		return "", false
	}
	idCookie, err := r.Cookie(cookieSession)
	if err != nil || idCookie.Value == "" {
		return "", false
	}
	username, known := sf.sessions.Lookup(idCookie.Value)
	if !known {
		sf.sessions.Restore(idCookie.Value, nameCookie.Value)
		return nameCookie.Value, true
	}
	return username, username == nameCookie.Value
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: name != cookieCart,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}

// readCart decodes the cart cookie, dropping slugs the catalog does not know.
func readCart(r *http.Request) *models.Cart {
	cart := &models.Cart{}
	c, err := r.Cookie(cookieCart)
	if err != nil {
		return cart
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil || raw == "" {
		return cart
	}
	for _, slug := range strings.Split(raw, ",") {
		if _, err := catalog.BySlug(slug); err == nil {
			cart.Add(slug)
		}
	}
	return cart
}

func writeCart(w http.ResponseWriter, cart *models.Cart) {
	if cart.Len() == 0 {
		clearCookie(w, cookieCart)
		return
	}
	setCookie(w, cookieCart, url.QueryEscape(strings.Join(cart.Slugs(), ",")))
}

func readCustomer(r *http.Request) (models.Customer, bool) {
	c, err := r.Cookie(cookieCustomer)
	if err != nil {
		return models.Customer{}, false
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return models.Customer{}, false
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return models.Customer{}, false
	}
	customer := models.Customer{
		FirstName:  values.Get("firstName"),
		LastName:   values.Get("lastName"),
		PostalCode: values.Get("postalCode"),
	}
	return customer, customer.Validate() == nil
}

func writeCustomer(w http.ResponseWriter, customer models.Customer) {
	values := url.Values{}
	values.Set("firstName", customer.FirstName)
	values.Set("lastName", customer.LastName)
	values.Set("postalCode", customer.PostalCode)
	setCookie(w, cookieCustomer, url.QueryEscape(values.Encode()))
}
