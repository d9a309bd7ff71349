package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/storefront"
)

// ConfirmationHandler handles order confirmation page
type ConfirmationHandler struct {
	views  *Views
	store  *storefront.Store
	logger *zap.Logger
}

// NewConfirmationHandler creates a new confirmation handler
func NewConfirmationHandler(views *Views, store *storefront.Store, logger *zap.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{views: views, store: store, logger: logger}
}

// ServeHTTP handles the confirmation page request. Without an order placed
// in this session the visitor is sent home.
func (h *ConfirmationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r)
	order, err := h.store.LastOrder(id)
	if err != nil {
		if !errors.Is(err, storefront.ErrNoOrderPlaced) && !errors.Is(err, storefront.ErrNotSignedIn) {
			h.logger.Error("order lookup failed", zap.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	sess, err := h.store.Snapshot(id)
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.views.Render(w, http.StatusOK, "confirmation.html", pageData("Confirmation", sess, order))
}

// ReceiptHandler serves the last order as a PDF attachment.
type ReceiptHandler struct {
	store  *storefront.Store
	logger *zap.Logger
}

// NewReceiptHandler creates a new receipt download handler
func NewReceiptHandler(store *storefront.Store, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{store: store, logger: logger}
}

// ServeHTTP handles the GET /confirmation/receipt.pdf request
func (h *ReceiptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.LastOrder(SessionID(r))
	if err != nil {
		http.Error(w, "No order to download", http.StatusNotFound)
		return
	}

	body := receiptPDF(order)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, order.Number))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("error writing receipt", zap.Error(err))
	}
}

// receiptPDF lays the order out as a single-page PDF with one text line per
// order line.
func receiptPDF(order *storefront.Order) []byte {
	lines := []string{fmt.Sprintf("Order #%d", order.Number)}
	for _, l := range order.Lines {
		lines = append(lines, fmt.Sprintf("%d x %s  %s", l.Quantity, l.Product.Title, storefront.FormatCents(l.Subtotal())))
	}
	lines = append(lines, "Total "+storefront.FormatCents(order.TotalCents))

	var text strings.Builder
	text.WriteString("BT /F1 12 Tf 72 720 Td 16 TL\n")
	for _, line := range lines {
		fmt.Fprintf(&text, "(%s) Tj T*\n", pdfEscape(line))
	}
	text.WriteString("ET")
	stream := text.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func pdfEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
