package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// SignInData feeds the two sign-in dropdowns.
type SignInData struct {
	Usernames []string `json:"usernames"`
	Passwords []string `json:"passwords"`
}

// SignInHandler serves the sign-in page. Signed-in visitors go home.
type SignInHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewSignInHandler creates a new sign-in page handler
func NewSignInHandler(views *Views, store *storefront.Store, logger *zap.Logger) *SignInHandler {
	return &SignInHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles the GET /signin request
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Snapshot(SessionID(r))
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if sess.User != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := SignInData{
		Usernames: storefront.Usernames(),
		Passwords: []string{h.store.Password()},
	}
	h.views.Render(w, http.StatusOK, "signin.html", pageData("Sign In", sess, data))
}

// SignOutHandler clears the session and returns to sign-in.
type SignOutHandler struct {
	store  *storefront.Store
	logger *zap.Logger
}

// NewSignOutHandler creates a new sign-out handler
func NewSignOutHandler(store *storefront.Store, logger *zap.Logger) *SignOutHandler {
	return &SignOutHandler{store: store, logger: logger}
}

// ServeHTTP handles the GET /logout request
func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.store.SignOut(SessionID(r))
	h.logger.Debug("signed out")
	http.Redirect(w, r, "/signin", http.StatusFound)
}
