package storefront

import "fmt"

// Offer is a promotional card shown on the offers page.
type Offer struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// NoOffersBelowLatitude marks the southern edge of the served area.
const NoOffersBelowLatitude = -60.0

var offerTitles = []string{
	"Buy an iPhone 12, get AirPods at half price",
	"Galaxy S20 trade-in bonus",
	"Pixel 4a bundle with free case",
	"One Plus 8 launch discount",
}

// OffersNear returns the promotions available at the given coordinates.
// Nothing is offered south of NoOffersBelowLatitude or outside valid coordinates.
func OffersNear(latitude, longitude float64) []Offer {
	if latitude < NoOffersBelowLatitude || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil
	}
	offers := make([]Offer, 0, len(offerTitles))
	for i, title := range offerTitles {
		offers = append(offers, Offer{
			ID:    i + 1,
			Title: title,
			Image: fmt.Sprintf("/static/offers/%d.svg", i+1),
		})
	}
	return offers
}
