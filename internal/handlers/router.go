package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// NewStorefront wires the sandbox shop: pages, JSON endpoints and static
// assets, all behind the session middleware.
func NewStorefront(store *storefront.Store, logger *zap.Logger) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	views, err := NewViews(logger)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	api := NewAPI(store, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/static/images/{file}", ProductImageHandler)
	r.Get("/static/offers/{file}", OfferImageHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(WithSession(store))

		r.Method(http.MethodGet, "/", NewShelfHandler(views, store, false, logger))
		r.Method(http.MethodGet, "/signin", NewSignInHandler(views, store, logger))
		r.Method(http.MethodGet, "/logout", NewSignOutHandler(store, logger))
		r.Method(http.MethodGet, "/confirmation", NewConfirmationHandler(views, store, logger))
		r.Method(http.MethodGet, "/confirmation/receipt.pdf", NewReceiptHandler(store, logger))

		r.Post("/api/signin", api.SignIn)
		r.Get("/api/cart", api.Cart)
		r.Post("/api/cart", api.Cart)
		r.Post("/api/favourites", api.Favourite)
		r.Post("/api/checkout", api.Checkout)
		r.Get("/api/offers", api.Offers)

		protected := map[string]http.Handler{
			"checkout":   NewCheckoutHandler(views, store, logger),
			"favourites": NewShelfHandler(views, store, true, logger),
			"offers":     NewOffersHandler(views, store, logger),
			"orders":     NewOrdersHandler(views, store, logger),
		}
		for feature, h := range protected {
			r.With(RequireUser(store, feature)).Method(http.MethodGet, "/"+feature, h)
		}

		r.NotFound(NewNotFoundHandler(views, store, logger).ServeHTTP)
	})

	return r, nil
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
