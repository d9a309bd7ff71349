package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/themizzi/shopcheck/internal/storefront"
)

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "not signed in", err: storefront.ErrNotSignedIn, expectedStatus: http.StatusUnauthorized, expectedMessage: "Please sign in first."},
		{name: "wrapped missing session", err: fmt.Errorf("cart: %w", storefront.ErrNoSession), expectedStatus: http.StatusUnauthorized, expectedMessage: "Please sign in first."},
		{name: "unknown product", err: storefront.ErrUnknownProduct, expectedStatus: http.StatusNotFound, expectedMessage: "That product does not exist."},
		{name: "empty cart", err: storefront.ErrEmptyCart, expectedStatus: http.StatusBadRequest, expectedMessage: "Your cart is empty."},
		{name: "incomplete address", err: fmt.Errorf("postCode: %w", storefront.ErrIncompleteAddress), expectedStatus: http.StatusBadRequest, expectedMessage: "Please fill in every field."},
		{name: "anything else", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedMessage: "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := failureStatus(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func TestNotFoundHandler(t *testing.T) {
	shop := newTestShop(t)

	resp, body := shop.get(t, "/no-such-page")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "This page does not exist.")
	assert.Contains(t, body, "Not Found | StackDemo")
}

func TestImageHandlers(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "known product", path: "/static/images/iPhone12-sku.svg", expectedStatus: http.StatusOK},
		{name: "unknown product", path: "/static/images/Nokia-sku.svg", expectedStatus: http.StatusNotFound},
		{name: "wrong extension", path: "/static/images/iPhone12-sku.jpg", expectedStatus: http.StatusNotFound},
		{name: "broken image path", path: "/static/images/missing/iPhone12-sku.jpg", expectedStatus: http.StatusNotFound},
		{name: "offer banner", path: "/static/offers/2.svg", expectedStatus: http.StatusOK},
		{name: "bad offer id", path: "/static/offers/zero.svg", expectedStatus: http.StatusNotFound},
		{name: "page script", path: "/static/shop.js", expectedStatus: http.StatusOK},
	}

	shop := newTestShop(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := shop.get(t, tt.path)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestOrdersHandler(t *testing.T) {
	tests := []struct {
		name         string
		user         string
		checkContent []string
	}{
		{name: "no history", user: "demouser", checkContent: []string{"No orders found"}},
		{name: "seeded history", user: "existing_orders_user", checkContent: []string{"Order placed", "Ship to", "shipment-is-delivered", "Title: iPhone 12 Pro"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop := newTestShop(t)
			shop.signIn(t, tt.user)

			resp, body := shop.get(t, "/orders")

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			for _, content := range tt.checkContent {
				assert.Contains(t, body, content)
			}
		})
	}
}
