package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// SignInRequest is the body of POST /api/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProductRequest is the body of the cart and favourite endpoints.
type ProductRequest struct {
	ProductID int `json:"productId"`
}

// CartResponse reports the cart after a change.
type CartResponse struct {
	Quantity int                   `json:"quantity"`
	Items    []storefront.CartLine `json:"items"`
}

// FavouriteResponse reports the favourite mark after a toggle.
type FavouriteResponse struct {
	Favourite bool `json:"favourite"`
}

// CheckoutResponse reports a placed order.
type CheckoutResponse struct {
	OrderNumber int `json:"orderNumber"`
}

// OffersResponse lists the offers for a position.
type OffersResponse struct {
	Offers []storefront.Offer `json:"offers"`
}

// API serves the JSON endpoints the page scripts call.
type API struct {
	store  *storefront.Store
	logger *zap.Logger
}

// NewAPI creates the JSON endpoint handlers
func NewAPI(store *storefront.Store, logger *zap.Logger) *API {
	return &API{store: store, logger: logger}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendErrorResponse(w, a.logger, "Malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

// SignIn handles POST /api/signin
func (a *API) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.store.SignIn(SessionID(r), req.Username, req.Password); err != nil {
		a.logger.Info("sign in rejected", zap.String("user", req.Username), zap.Error(err))
		sendErrorResponse(w, a.logger, storefront.SignInMessage(err), http.StatusUnauthorized)
		return
	}
	a.logger.Info("signed in", zap.String("user", req.Username))
	sendJSON(w, a.logger, http.StatusOK, map[string]string{"user": req.Username})
}

// Cart handles GET and POST /api/cart
func (a *API) Cart(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r)
	if r.Method == http.MethodPost {
		var req ProductRequest
		if !a.decode(w, r, &req) {
			return
		}
		if _, err := a.store.AddToCart(id, req.ProductID); err != nil {
			a.fail(w, err)
			return
		}
	}

	sess, err := a.store.Snapshot(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	sendJSON(w, a.logger, http.StatusOK, CartResponse{Quantity: sess.Quantity(), Items: sess.Cart})
}

// Favourite handles POST /api/favourites
func (a *API) Favourite(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !a.decode(w, r, &req) {
		return
	}
	on, err := a.store.ToggleFavourite(SessionID(r), req.ProductID)
	if err != nil {
		a.fail(w, err)
		return
	}
	sendJSON(w, a.logger, http.StatusOK, FavouriteResponse{Favourite: on})
}

// Checkout handles POST /api/checkout
func (a *API) Checkout(w http.ResponseWriter, r *http.Request) {
	var addr storefront.Address
	if !a.decode(w, r, &addr) {
		return
	}
	order, err := a.store.Checkout(SessionID(r), addr)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.logger.Info("order placed", zap.Int("order", order.Number), zap.Int64("total_cents", order.TotalCents))
	sendJSON(w, a.logger, http.StatusOK, CheckoutResponse{OrderNumber: order.Number})
}

// Offers handles GET /api/offers?lat=..&lon=..
func (a *API) Offers(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		sendErrorResponse(w, a.logger, "lat and lon are required", http.StatusBadRequest)
		return
	}
	offers := storefront.OffersNear(lat, lon)
	if offers == nil {
		offers = []storefront.Offer{}
	}
	sendJSON(w, a.logger, http.StatusOK, OffersResponse{Offers: offers})
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status, message := failureStatus(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}
	sendErrorResponse(w, a.logger, message, status)
}
