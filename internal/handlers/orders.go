package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// OrdersHandler lists the session's order history.
type OrdersHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewOrdersHandler creates a new order history handler
func NewOrdersHandler(views *Views, store *storefront.Store, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles the GET /orders request
func (h *OrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Snapshot(SessionID(r))
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, http.StatusOK, "orders.html", pageData("Orders", sess, sess.Orders))
}

// OffersHandler serves the offers page; the offers themselves are fetched
// by the page once the browser reports its position.
type OffersHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewOffersHandler creates a new offers page handler
func NewOffersHandler(views *Views, store *storefront.Store, logger *zap.Logger) *OffersHandler {
	return &OffersHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles the GET /offers request
func (h *OffersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Snapshot(SessionID(r))
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, http.StatusOK, "offers.html", pageData("Offers", sess, nil))
}
