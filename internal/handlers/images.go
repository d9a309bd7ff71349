package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/themizzi/shopcheck/internal/storefront"
)

const imageSize = 150

// ProductImageHandler draws a placeholder image for /static/images/{file}.
// Only "<sku>.svg" for a known product exists; anything else is a 404.
func ProductImageHandler(w http.ResponseWriter, r *http.Request) {
	sku, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	product, found := storefront.ProductBySKU(sku)
	if !found {
		http.NotFound(w, r)
		return
	}
	writeSVG(w, product.Title, "#e8e8e8")
}

// OfferImageHandler draws the banner for /static/offers/{file}.
func OfferImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		http.NotFound(w, r)
		return
	}
	writeSVG(w, fmt.Sprintf("Offer %d", n), "#ffe08a")
}

func writeSVG(w http.ResponseWriter, label, fill string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="%s"/>`+
		`<text x="50%%" y="50%%" font-size="14" text-anchor="middle" dominant-baseline="middle">%s</text></svg>`,
		imageSize, imageSize, imageSize, imageSize, fill, html.EscapeString(label))
}
