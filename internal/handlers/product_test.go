package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shelfDataRe = regexp.MustCompile(`(?s)<script id="shelf-data" type="application/json">(.*?)</script>`)

func shelfProducts(t *testing.T, body string) []ProductView {
	t.Helper()
	m := shelfDataRe.FindStringSubmatch(body)
	require.NotNil(t, m, "shelf data script missing")
	var products []ProductView
	require.NoError(t, json.Unmarshal([]byte(m[1]), &products))
	return products
}

func TestShelfHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		user          string
		path          string
		expectedCount int
		imagePrefix   string
		checkContent  []string
	}{
		{
			name:          "anonymous home shelf",
			path:          "/",
			expectedCount: 25,
			imagePrefix:   "/static/images/",
			checkContent:  []string{"25 Product(s) found.", `data-page="home"`, `value="Samsung"`},
		},
		{
			name:          "broken images user",
			user:          "image_not_loading_user",
			path:          "/",
			expectedCount: 25,
			imagePrefix:   "/static/images/missing/",
			checkContent:  []string{`class="username">image_not_loading_user`},
		},
		{
			name:          "seeded favourites",
			user:          "fav_user",
			path:          "/favourites",
			expectedCount: 3,
			imagePrefix:   "/static/images/",
			checkContent:  []string{"3 Product(s) found.", `data-page="favourites"`},
		},
		{
			name:          "no favourites yet",
			user:          "demouser",
			path:          "/favourites",
			expectedCount: 0,
			checkContent:  []string{"0 Product(s) found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			shop := newTestShop(t)
			if tt.user != "" {
				shop.signIn(t, tt.user)
			}

			// WHEN
			resp, body := shop.get(t, tt.path)

			// THEN
			require.Equal(t, http.StatusOK, resp.StatusCode)
			products := shelfProducts(t, body)
			assert.Len(t, products, tt.expectedCount)
			for _, p := range products {
				assert.Regexp(t, "^"+regexp.QuoteMeta(tt.imagePrefix), p.Image)
			}
			for _, content := range tt.checkContent {
				assert.Contains(t, body, content)
			}
		})
	}
}

func TestShelfHandler_FavouriteMarks(t *testing.T) {
	shop := newTestShop(t)
	shop.signIn(t, "fav_user")

	_, body := shop.get(t, "/")
	marked := map[int]bool{}
	for _, p := range shelfProducts(t, body) {
		if p.Favourite {
			marked[p.ID] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 9: true, 16: true}, marked)
}

func TestShelfHandler_CartInHeader(t *testing.T) {
	shop := newTestShop(t)
	shop.signIn(t, "demouser")
	shop.post(t, "/api/cart", ProductRequest{ProductID: 1})
	shop.post(t, "/api/cart", ProductRequest{ProductID: 1})

	_, body := shop.get(t, "/")
	assert.Contains(t, body, `<span class="bag__quantity">2</span>`)
	assert.Contains(t, body, "iPhone 12")
}
