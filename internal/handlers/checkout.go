package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// CheckoutData represents the data passed to the checkout template
type CheckoutData struct {
	TotalCents int64
}

// CheckoutHandler handles the checkout page
type CheckoutHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(views *Views, store *storefront.Store, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles the checkout page request. An empty cart still renders
// the form, with an empty order list.
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Snapshot(SessionID(r))
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := CheckoutData{TotalCents: sess.Total()}
	h.views.Render(w, http.StatusOK, "checkout.html", pageData("Checkout", sess, data))
}
