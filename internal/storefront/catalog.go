// Package storefront is the in-memory state behind the sandbox replica of
// the demo shop: the product catalog, the fixture users, per-browser
// sessions with their carts and favourites, placed orders and location
// based offers.
package storefront

import "fmt"

// Product is one phone on the shelf. Prices are whole dollars on the shelf
// and cents everywhere else.
type Product struct {
	ID          int    `json:"id"`
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
}

// Dollars returns the whole-dollar shelf price.
func (p Product) Dollars() int64 { return p.PriceCents / 100 }

// Brands offered by the vendor filter, in display order.
var Brands = []string{"Apple", "Samsung", "Google", "OnePlus"}

var catalog = []Product{
	{1, "iPhone12-sku", "iPhone 12", "Apple", "A14 Bionic", 79900},
	{2, "iPhone12-mini-sku", "iPhone 12 Mini", "Apple", "A14 Bionic", 69900},
	{3, "iPhone12-pro-sku", "iPhone 12 Pro", "Apple", "A14 Bionic", 99900},
	{4, "iPhone12-pro-max-sku", "iPhone 12 Pro Max", "Apple", "A14 Bionic", 109900},
	{5, "iPhone11-sku", "iPhone 11", "Apple", "A13 Bionic", 59900},
	{6, "iPhone11-pro-sku", "iPhone 11 Pro", "Apple", "A13 Bionic", 79900},
	{7, "iPhoneXR-sku", "iPhone XR", "Apple", "A12 Bionic", 49900},
	{8, "iPhoneXS-sku", "iPhone XS", "Apple", "A12 Bionic", 69900},
	{9, "GalaxyS20-sku", "Galaxy S20", "Samsung", "6.2-inch display", 99900},
	{10, "GalaxyS20plus-sku", "Galaxy S20+", "Samsung", "6.7-inch display", 119900},
	{11, "GalaxyS20ultra-sku", "Galaxy S20 Ultra", "Samsung", "6.9-inch display", 139900},
	{12, "GalaxyNote20-sku", "Galaxy Note 20", "Samsung", "S Pen included", 99900},
	{13, "GalaxyNote20ultra-sku", "Galaxy Note 20 Ultra", "Samsung", "S Pen included", 129900},
	{14, "GalaxyS10-sku", "Galaxy S10", "Samsung", "Infinity-O display", 69900},
	{15, "GalaxyS9-sku", "Galaxy S9", "Samsung", "Super AMOLED", 49900},
	{16, "Pixel4-sku", "Pixel 4", "Google", "Motion Sense", 79900},
	{17, "Pixel4xl-sku", "Pixel 4 XL", "Google", "Motion Sense", 89900},
	{18, "Pixel4a-sku", "Pixel 4a", "Google", "Night Sight", 34900},
	{19, "Pixel3-sku", "Pixel 3", "Google", "Top Shot", 49900},
	{20, "Pixel3xl-sku", "Pixel 3 XL", "Google", "Top Shot", 59900},
	{21, "OnePlus8-sku", "One Plus 8", "OnePlus", "90Hz display", 69900},
	{22, "OnePlus8pro-sku", "One Plus 8 Pro", "OnePlus", "120Hz display", 89900},
	{23, "OnePlus8t-sku", "One Plus 8T", "OnePlus", "65W charging", 74900},
	{24, "OnePlus7t-sku", "One Plus 7T", "OnePlus", "90Hz display", 59900},
	{25, "OnePlus6t-sku", "One Plus 6T", "OnePlus", "In-display fingerprint", 54900},
}

// Catalog returns a copy of every product in shelf order.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// ProductByID looks a product up by its identifier.
func ProductByID(id int) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductBySKU looks a product up by its SKU.
func ProductBySKU(sku string) (Product, bool) {
	for _, p := range catalog {
		if p.SKU == sku {
			return p, true
		}
	}
	return Product{}, false
}

// FormatCents renders cents as "$1234.56".
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
