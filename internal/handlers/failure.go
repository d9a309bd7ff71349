package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// failureStatus maps store errors to an HTTP status and a user-friendly message.
func failureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, storefront.ErrNotSignedIn), errors.Is(err, storefront.ErrNoSession):
		return http.StatusUnauthorized, "Please sign in first."
	case errors.Is(err, storefront.ErrUnknownProduct):
		return http.StatusNotFound, "That product does not exist."
	case errors.Is(err, storefront.ErrEmptyCart):
		return http.StatusBadRequest, "Your cart is empty."
	case errors.Is(err, storefront.ErrIncompleteAddress):
		return http.StatusBadRequest, "Please fill in every field."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

// NotFoundHandler renders the shop's 404 page.
type NotFoundHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewNotFoundHandler creates a new not-found handler
func NewNotFoundHandler(views *Views, store *storefront.Store, logger *zap.Logger) *NotFoundHandler {
	return &NotFoundHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles any unrouted request
func (h *NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.store.Snapshot(SessionID(r))
	h.logger.Debug("page not found", zap.String("path", r.URL.Path))
	h.views.Render(w, http.StatusNotFound, "notfound.html", pageData("Not Found", sess, "This page does not exist."))
}
