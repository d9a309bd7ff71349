package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{
	"shelf.html",
	"signin.html",
	"checkout.html",
	"confirmation.html",
	"orders.html",
	"offers.html",
	"notfound.html",
}

// PageData is what every page template receives. Content holds the
// page-specific part.
type PageData struct {
	Title    string
	User     string
	Quantity int
	Cart     []storefront.CartLine
	Content  any
}

// Views renders the storefront pages.
type Views struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewViews parses every page template together with the shared layout.
func NewViews(logger *zap.Logger) (*Views, error) {
	funcs := template.FuncMap{
		"cents": storefront.FormatCents,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Views{pages: pages, logger: logger}, nil
}

// Render executes the named page into w. Output is buffered so a template
// failure still yields a clean 500.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data PageData) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.logger.Error("unknown template", zap.String("template", name))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		v.logger.Error("error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// pageData fills the shared header and cart from a session snapshot.
func pageData(title string, sess storefront.Session, content any) PageData {
	data := PageData{
		Title:    title,
		Quantity: sess.Quantity(),
		Cart:     sess.Cart,
		Content:  content,
	}
	if sess.User != nil {
		data.User = sess.User.Name
	}
	return data
}
