package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// ProductView is one shelf card as the page script renders it.
type ProductView struct {
	ID        int    `json:"id"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Brand     string `json:"brand"`
	Dollars   int64  `json:"dollars"`
	Image     string `json:"image"`
	Favourite bool   `json:"favourite"`
}

// ShelfData represents the data passed to the shelf template
type ShelfData struct {
	Favourites bool
	Brands     []string
	Products   []ProductView
}

// ShelfHandler serves the product listing on / and the favourites listing.
type ShelfHandler struct {
	views      *Views
	store      *storefront.Store
	favourites bool
	logger     *zap.Logger
}

// NewShelfHandler creates a listing handler; favourites limits it to the
// session's favourite products.
func NewShelfHandler(views *Views, store *storefront.Store, favourites bool, logger *zap.Logger) *ShelfHandler {
	return &ShelfHandler{
		views:      views,
		store:      store,
		favourites: favourites,
		logger:     logger,
	}
}

// ServeHTTP handles the GET request
func (h *ShelfHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Snapshot(SessionID(r))
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	products := storefront.Catalog()
	title := "Home"
	if h.favourites {
		products = sess.FavouriteProducts()
		title = "Favourites"
	}

	data := ShelfData{
		Favourites: h.favourites,
		Brands:     storefront.Brands,
		Products:   make([]ProductView, 0, len(products)),
	}
	for _, p := range products {
		data.Products = append(data.Products, ProductView{
			ID:        p.ID,
			SKU:       p.SKU,
			Title:     p.Title,
			Brand:     p.Brand,
			Dollars:   p.Dollars(),
			Image:     imageURL(sess, p),
			Favourite: sess.IsFavourite(p.ID),
		})
	}

	h.views.Render(w, http.StatusOK, "shelf.html", pageData(title, sess, data))
}

// imageURL points users with broken images at files that do not exist.
func imageURL(sess storefront.Session, p storefront.Product) string {
	if sess.User != nil && sess.User.BrokenImages {
		return "/static/images/missing/" + p.SKU + ".jpg"
	}
	return "/static/images/" + p.SKU + ".svg"
}
