package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/catalog"
	"github.com/themizzi/saucecheck/internal/models"
)

// Text of the order confirmation screen.
const (
	CompleteHeader = "Thank you for your order!"
	CompleteText   = "Your order has been dispatched, and will arrive just as fast as the pony can get there!"
)

type ctxKey int

const usernameKey ctxKey = iota

type productView struct {
	catalog.Product
	InCart bool
}

type sortOption struct {
	Value    catalog.SortOrder
	Label    string
	Selected bool
}

// pageData feeds every screen template. Each screen uses the subset it needs.
type pageData struct {
	Title        string
	LoggedIn     bool
	CartCount    int
	VisualGlitch bool
	Return       string
	Error        string

	Username string

	Products    []productView
	SortOptions []sortOption

	Items    []catalog.Product
	Customer models.Customer

	Subtotal string
	Tax      string
	Total    string

	OrderReference string
}

func (sf *Storefront) basePage(r *http.Request, title string) pageData {
	username := usernameFrom(r.Context())
	return pageData{
		Title:        title,
		LoggedIn:     username != "",
		CartCount:    readCart(r).Len(),
		VisualGlitch: users[username].visualGlitch,
		Return:       r.URL.RequestURI(),
	}
}

func usernameFrom(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

// requireSession sends visitors without a session back to the login screen.
func (sf *Storefront) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := sf.currentUser(r)
		if !ok {
			target := "/?denied=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

func (sf *Storefront) loginPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Swag Labs"}
	if denied := r.URL.Query().Get("denied"); denied != "" {
		data.Error = accessDenied(denied)
	}
	sf.render(w, "login.html", data)
}

func (sf *Storefront) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("user-name")
	password := r.PostForm.Get("password")

	u, err := authenticate(username, password)
	if err != nil {
		sf.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		sf.render(w, "login.html", pageData{Title: "Swag Labs", Username: username, Error: err.Error()})
		return
	}

	if u.slowLogin && sf.glitchDelay > 0 {
		select {
		case <-time.After(sf.glitchDelay):
		case <-r.Context().Done():
			return
		}
	}

	id := sf.sessions.Create(username)
	setCookie(w, cookieUsername, username)
	setCookie(w, cookieSession, id)
	sf.log.Info("user logged in", zap.String("username", username))
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func (sf *Storefront) inventoryPage(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	order, err := catalog.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		order = catalog.SortNameAsc
	}

	products := catalog.All()
	if !users[username].ignoresSort {
		products = catalog.Sort(products, order)
	}

	cart := readCart(r)
	data := sf.basePage(r, "Products")
	for _, p := range products {
		data.Products = append(data.Products, productView{Product: p, InCart: cart.Contains(p.Slug)})
	}
	for _, o := range catalog.SortOrders {
		data.SortOptions = append(data.SortOptions, sortOption{Value: o, Label: o.Label(), Selected: o == order})
	}
	sf.render(w, "inventory.html", data)
}

func (sf *Storefront) updateCart(w http.ResponseWriter, r *http.Request) {
	product, err := catalog.BySlug(chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Unknown product", http.StatusNotFound)
		return
	}

	cart := readCart(r)
	switch chi.URLParam(r, "action") {
	case "add":
		cart.Add(product.Slug)
	case "remove":
		cart.Remove(product.Slug)
	default:
		http.Error(w, "Unknown cart action", http.StatusNotFound)
		return
	}
	writeCart(w, cart)

	http.Redirect(w, r, localReturn(r.FormValue("return"), "/inventory.html"), http.StatusSeeOther)
}

// localReturn accepts only same-site absolute paths.
func localReturn(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

func (sf *Storefront) cartItems(r *http.Request) []catalog.Product {
	var items []catalog.Product
	for _, slug := range readCart(r).Slugs() {
		if p, err := catalog.BySlug(slug); err == nil {
			items = append(items, p)
		}
	}
	return items
}

func (sf *Storefront) cartPage(w http.ResponseWriter, r *http.Request) {
	data := sf.basePage(r, "Your Cart")
	data.Items = sf.cartItems(r)
	sf.render(w, "cart.html", data)
}

func (sf *Storefront) checkoutStepOnePage(w http.ResponseWriter, r *http.Request) {
	data := sf.basePage(r, "Checkout: Your Information")
	sf.render(w, "checkout-step-one.html", data)
}

func (sf *Storefront) submitCustomerInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	customer := models.Customer{
		FirstName:  r.PostForm.Get("firstName"),
		LastName:   r.PostForm.Get("lastName"),
		PostalCode: r.PostForm.Get("postalCode"),
	}
	if err := customer.Validate(); err != nil {
		data := sf.basePage(r, "Checkout: Your Information")
		data.Customer = customer
		data.Error = "Error: " + err.Error()
		sf.render(w, "checkout-step-one.html", data)
		return
	}
	writeCustomer(w, customer)
	http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
}

func (sf *Storefront) checkoutStepTwoPage(w http.ResponseWriter, r *http.Request) {
	quote, err := sf.orders.Quote(readCart(r).Slugs())
	if err != nil {
		sf.log.Error("failed to price cart", zap.Error(err))
		http.Error(w, "Failed to price cart", http.StatusInternalServerError)
		return
	}
	data := sf.basePage(r, "Checkout: Overview")
	data.Items = sf.cartItems(r)
	data.Subtotal = catalog.FormatCents(quote.Subtotal)
	data.Tax = catalog.FormatCents(quote.Tax)
	data.Total = catalog.FormatCents(quote.Total)
	sf.render(w, "checkout-step-two.html", data)
}

func (sf *Storefront) finishCheckout(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	if users[username].failsFinish {
		sf.log.Warn("checkout finish ignored", zap.String("username", username))
		http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
		return
	}

	cart := readCart(r)
	if cart.Len() > 0 {
		customer, ok := readCustomer(r)
		if !ok {
			http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
			return
		}
		order, err := sf.orders.PlaceOrder(username, cart.Slugs(), customer)
		if err != nil {
			sf.log.Error("failed to place order", zap.String("username", username), zap.Error(err))
			http.Error(w, "Failed to place order", http.StatusInternalServerError)
			return
		}
		sf.log.Info("order placed",
			zap.String("reference", order.Reference),
			zap.String("username", username),
			zap.Int64("total_cents", order.Total))
		setCookie(w, cookieOrder, order.Reference)
	}

	clearCookie(w, cookieCart)
	clearCookie(w, cookieCustomer)
	http.Redirect(w, r, "/checkout-complete.html", http.StatusSeeOther)
}

func (sf *Storefront) checkoutCompletePage(w http.ResponseWriter, r *http.Request) {
	data := sf.basePage(r, "Checkout: Complete!")
	if c, err := r.Cookie(cookieOrder); err == nil {
		if order, err := sf.orders.GetOrderByReference(c.Value); err == nil && order.Username == usernameFrom(r.Context()) {
			data.OrderReference = order.Reference
		}
	}
	sf.render(w, "checkout-complete.html", data)
}

func (sf *Storefront) resetAppState(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, cookieCart)
	clearCookie(w, cookieCustomer)
	clearCookie(w, cookieOrder)
	http.Redirect(w, r, localReturn(r.FormValue("return"), "/inventory.html"), http.StatusSeeOther)
}

func (sf *Storefront) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieSession); err == nil {
		sf.sessions.Delete(c.Value)
	}
	for _, name := range []string{cookieUsername, cookieSession, cookieCart, cookieCustomer, cookieOrder} {
		clearCookie(w, name)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
