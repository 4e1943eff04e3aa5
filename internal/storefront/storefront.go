// Package storefront serves a local replica of the Swag Labs demo shop: the
// same screens at the same paths, with the element identifiers, catalog,
// accounts and error strings the browser specs depend on. It also serves
// the small JSON API used for setting up state without the UI.
package storefront

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/catalog"
	"github.com/themizzi/saucecheck/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var screenTemplates = []string{
	"login.html",
	"inventory.html",
	"cart.html",
	"checkout-step-one.html",
	"checkout-step-two.html",
	"checkout-complete.html",
}

// Options configures a Storefront.
type Options struct {
	Orders services.OrderService
	Logger *zap.Logger
	// GlitchDelay is added to every login of performance_glitch_user.
	GlitchDelay time.Duration
}

// Storefront is the replica's HTTP application.
type Storefront struct {
	orders      services.OrderService
	sessions    *SessionStore
	api         *apiStore
	templates   map[string]*template.Template
	log         *zap.Logger
	glitchDelay time.Duration
}

// New parses the embedded templates and builds the application.
func New(opts Options) (*Storefront, error) {
	if opts.Orders == nil {
		return nil, fmt.Errorf("storefront: order service is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	funcs := template.FuncMap{
		"price":    catalog.FormatCents,
		"addID":    func(p catalog.Product) string { return p.AddButtonID() },
		"removeID": func(p catalog.Product) string { return p.RemoveButtonID() },
	}
	templates := make(map[string]*template.Template, len(screenTemplates))
	for _, name := range screenTemplates {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/base.html", "templates/header.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Storefront{
		orders:      opts.Orders,
		sessions:    NewSessionStore(),
		api:         newAPIStore(),
		templates:   templates,
		log:         log,
		glitchDelay: opts.GlitchDelay,
	}, nil
}

// Routes returns the router for every screen and API endpoint.
func (sf *Storefront) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(sf.requestLogger)

	r.Get("/", sf.loginPage)
	r.Post("/", sf.login)
	r.Post("/login", sf.login)

	r.Group(func(r chi.Router) {
		r.Use(sf.requireSession)
		r.Get("/inventory.html", sf.inventoryPage)
		r.Post("/cart/{action}/{slug}", sf.updateCart)
		r.Get("/cart.html", sf.cartPage)
		r.Get("/checkout-step-one.html", sf.checkoutStepOnePage)
		r.Post("/checkout-step-one.html", sf.submitCustomerInfo)
		r.Get("/checkout-step-two.html", sf.checkoutStepTwoPage)
		r.Post("/checkout/finish", sf.finishCheckout)
		r.Get("/checkout-complete.html", sf.checkoutCompletePage)
		r.Post("/reset", sf.resetAppState)
		r.Post("/logout", sf.logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", sf.apiAuth)
		r.Group(func(r chi.Router) {
			r.Use(sf.requireToken)
			r.Get("/products", sf.apiProducts)
			r.Post("/cart", sf.apiCreateCart)
			r.Get("/cart/{cartID}", sf.apiGetCart)
			r.Post("/cart/{cartID}/items", sf.apiAddItem)
			r.Get("/orders", sf.apiOrders)
		})
	})

	return r
}

// requestLogger logs one line per request.
func (sf *Storefront) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		sf.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (sf *Storefront) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := sf.templates[name]
	if !ok {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		sf.log.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

func sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
